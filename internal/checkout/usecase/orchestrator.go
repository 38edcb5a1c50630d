package usecase

import (
	"context"
	"sync"

	"pickleclub-backend/internal/checkout/domain"
	"pickleclub-backend/internal/payment"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Gateway is the slice of the payment client the orchestrator drives.
type Gateway interface {
	ListPaymentMethods(ctx context.Context, token string) ([]payment.PaymentMethod, error)
	CreatePaymentIntent(ctx context.Context, token string, req payment.CreateIntentRequest, idempotencyKey string) (*payment.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, token, paymentIntentID string, metadata map[string]string, returnURL string) (*payment.ConfirmResult, error)
	ActivateMembership(ctx context.Context, token, userID, locationID, membershipTypeName string) error
}

// TokenSource mints a fresh access token. The orchestrator asks for one
// right before charging instead of reusing a token captured earlier.
type TokenSource interface {
	IssueAccessToken(userID string) (string, error)
}

// ProfileSource reports whether the profile fields required for checkout are
// filled in.
type ProfileSource interface {
	ProfileComplete(userID string) (bool, error)
}

// Orchestrator walks a user from "intent to buy" to "membership active". It
// holds no per-checkout state itself; each call builds a fresh machine and
// executes its effects.
type Orchestrator struct {
	gateway   Gateway
	tokens    TokenSource
	profiles  ProfileSource
	validator ValidationUsecase
	currency  string
	onSuccess func(userID string)
}

func NewOrchestrator(gateway Gateway, tokens TokenSource, profiles ProfileSource, validator ValidationUsecase, currency string, onSuccess func(userID string)) *Orchestrator {
	return &Orchestrator{
		gateway:   gateway,
		tokens:    tokens,
		profiles:  profiles,
		validator: validator,
		currency:  currency,
		onSuccess: onSuccess,
	}
}

// Outcome is the delivery-facing view of a finished run.
type Outcome struct {
	State           domain.State            `json:"state"`
	Validation      *domain.Validation      `json:"validation,omitempty"`
	Methods         []payment.PaymentMethod `json:"payment_methods,omitempty"`
	SelectedMethod  string                  `json:"selected_method,omitempty"`
	Notice          string                  `json:"notice,omitempty"`
	BlockingErrors  []string                `json:"errors,omitempty"`
	FailureMessage  string                  `json:"failure,omitempty"`
	PaymentIntentID string                  `json:"payment_intent_id,omitempty"`
}

// Initialize opens a checkout: the eligibility validation and the saved-card
// list are fetched concurrently and joined before the first transition.
func (o *Orchestrator) Initialize(ctx context.Context, userID, membershipTypeID, locationID string) (domain.Machine, error) {
	complete, err := o.profiles.ProfileComplete(userID)
	if err != nil {
		return domain.Machine{}, err
	}

	var (
		wg sync.WaitGroup

		validation    *domain.Validation
		typeName      string
		validationErr error

		methods            []payment.PaymentMethod
		methodsUnavailable bool
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		v, mt, err := o.validator.Validate(userID, membershipTypeID, locationID)
		if err != nil {
			validationErr = err
			return
		}
		validation = v
		if mt != nil {
			typeName = string(mt.Name)
		}
	}()
	go func() {
		defer wg.Done()
		token, err := o.tokens.IssueAccessToken(userID)
		if err != nil {
			methodsUnavailable = true
			return
		}
		ms, err := o.gateway.ListPaymentMethods(ctx, token)
		if err != nil {
			// Degrade to an empty list so the user can still add a card.
			log.Warn().Err(err).Str("user_id", userID).Msg("payment method list unavailable at checkout init")
			methodsUnavailable = true
			return
		}
		methods = ms
	}()
	wg.Wait()

	if validationErr != nil {
		return domain.Machine{}, validationErr
	}

	m := domain.NewMachine(typeName, locationID, o.currency)
	m, effects := domain.Next(m, domain.InitLoaded{
		ProfileComplete:    complete,
		Validation:         *validation,
		Methods:            methods,
		MethodsUnavailable: methodsUnavailable,
	})
	return o.run(ctx, userID, m, effects), nil
}

// Pay runs the whole flow: initialize, select the requested method, press
// pay, and execute the resulting effects to completion.
func (o *Orchestrator) Pay(ctx context.Context, userID, membershipTypeID, locationID, paymentMethodID string) (*Outcome, error) {
	m, err := o.Initialize(ctx, userID, membershipTypeID, locationID)
	if err != nil {
		return nil, err
	}

	if m.State == domain.StateReadyToPay && paymentMethodID != "" {
		m = o.step(ctx, userID, &m, domain.MethodSelected{ID: paymentMethodID})
	}

	m = o.step(ctx, userID, &m, domain.PayPressed{AttemptKey: uuid.New().String()})

	return outcomeOf(m), nil
}

func (o *Orchestrator) step(ctx context.Context, userID string, m *domain.Machine, ev domain.Event) domain.Machine {
	next, effects := domain.Next(*m, ev)
	return o.run(ctx, userID, next, effects)
}

// run executes effects until the machine settles.
func (o *Orchestrator) run(ctx context.Context, userID string, m domain.Machine, effects []domain.Effect) domain.Machine {
	queue := effects
	for len(queue) > 0 {
		eff := queue[0]
		queue = queue[1:]

		var ev domain.Event
		switch ef := eff.(type) {
		case domain.EffectReloadMethods:
			ev = domain.MethodsReloaded{Methods: o.reloadMethods(ctx, userID)}

		case domain.EffectObtainToken:
			token, err := o.tokens.IssueAccessToken(userID)
			if err != nil || token == "" {
				ev = domain.TokenUnavailable{}
			} else {
				ev = domain.TokenObtained{Token: token}
			}

		case domain.EffectCharge:
			ev = o.charge(ctx, userID, ef, m)

		case domain.EffectActivate:
			err := o.gateway.ActivateMembership(ctx, ef.Token, userID, ef.LocationID, ef.MembershipTypeName)
			if err != nil {
				// Paid but not activated: a reconciliation problem for the
				// backend, not a user error.
				log.Error().Err(err).Str("user_id", userID).Str("intent_id", m.IntentID).Msg("membership activation failed after successful charge")
				ev = domain.ActivationFailed{Message: err.Error()}
			} else {
				ev = domain.ActivationSucceeded{}
			}

		case domain.EffectNotifySuccess:
			if o.onSuccess != nil {
				o.onSuccess(userID)
			}
			continue

		default:
			continue
		}

		var newEffects []domain.Effect
		m, newEffects = domain.Next(m, ev)
		queue = append(queue, newEffects...)
	}
	return m
}

func (o *Orchestrator) reloadMethods(ctx context.Context, userID string) []payment.PaymentMethod {
	token, err := o.tokens.IssueAccessToken(userID)
	if err != nil {
		return nil
	}
	methods, err := o.gateway.ListPaymentMethods(ctx, token)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("payment method reload failed")
		return nil
	}
	return methods
}

func (o *Orchestrator) charge(ctx context.Context, userID string, ef domain.EffectCharge, m domain.Machine) domain.Event {
	metadata := map[string]string{
		"user_id":         userID,
		"membership_type": m.MembershipTypeName,
		"location_id":     m.LocationID,
	}

	intent, err := o.gateway.CreatePaymentIntent(ctx, ef.Token, payment.CreateIntentRequest{
		Amount:          ef.AmountMinor,
		Currency:        ef.Currency,
		PaymentMethodID: ef.MethodID,
		Metadata:        metadata,
	}, ef.AttemptKey)
	if err != nil {
		return domain.ChargeFailed{Message: err.Error()}
	}

	result, err := o.gateway.ConfirmPayment(ctx, ef.Token, intent.PaymentIntentID, metadata, "")
	if err != nil {
		return domain.ChargeFailed{Message: err.Error()}
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "payment was not confirmed"
		}
		return domain.ChargeFailed{Message: msg}
	}
	return domain.ChargeSucceeded{IntentID: intent.PaymentIntentID}
}

func outcomeOf(m domain.Machine) *Outcome {
	return &Outcome{
		State:           m.State,
		Validation:      m.Validation,
		Methods:         m.Methods,
		SelectedMethod:  m.SelectedMethodID,
		Notice:          m.Notice,
		BlockingErrors:  m.BlockingErrors,
		FailureMessage:  m.FailureMessage,
		PaymentIntentID: m.IntentID,
	}
}
