package domain

import (
	"math"

	"pickleclub-backend/internal/payment"
)

// State is an observable checkout state.
type State string

const (
	StateInitializing      State = "initializing"
	StateProfileIncomplete State = "profile_incomplete"
	StateValidationFailed  State = "validation_failed"
	StateReadyToPay        State = "ready_to_pay"
	StateProcessing        State = "processing"
	StateSucceeded         State = "succeeded"
	StateFailed            State = "failed"
)

// Validation is the server-side eligibility check for a purchase. Checkout
// may not proceed to payment unless Valid is true.
type Validation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
	Total  float64  `json:"total"` // major currency units
}

// Machine is the checkout state plus everything a transition needs. It is a
// plain value: Next never performs I/O, it returns the next machine and the
// effects to execute.
type Machine struct {
	State State

	MembershipTypeName string
	LocationID         string
	Currency           string

	Validation       *Validation
	Methods          []payment.PaymentMethod
	SelectedMethodID string

	// AttemptKey is the idempotency key of the in-flight pay attempt; a new
	// one is issued per press so a retry can never double-charge.
	AttemptKey string
	Token      string
	IntentID   string

	// Notice is a recoverable, non-blocking message. BlockingErrors are the
	// validation failures shown verbatim. FailureMessage is a charge
	// failure shown verbatim.
	Notice         string
	BlockingErrors []string
	FailureMessage string
}

// NewMachine starts a checkout for the given tier and location.
func NewMachine(membershipTypeName, locationID, currency string) Machine {
	return Machine{
		State:              StateInitializing,
		MembershipTypeName: membershipTypeName,
		LocationID:         locationID,
		Currency:           currency,
	}
}

// Event is an input to the machine.
type Event interface{ event() }

// InitLoaded carries the joined results of the two concurrent init fetches.
// MethodsUnavailable means the list fetch failed; the machine degrades to an
// empty list so the user can still add a card.
type InitLoaded struct {
	ProfileComplete    bool
	Validation         Validation
	Methods            []payment.PaymentMethod
	MethodsUnavailable bool
}

type MethodSelected struct{ ID string }

// CardAdded reports the hosted card-collection outcome. Completed=false is a
// cancellation, not an error.
type CardAdded struct{ Completed bool }

type MethodsReloaded struct{ Methods []payment.PaymentMethod }

// PayPressed carries the idempotency key minted for this attempt.
type PayPressed struct{ AttemptKey string }

type TokenObtained struct{ Token string }
type TokenUnavailable struct{}

type ChargeSucceeded struct{ IntentID string }
type ChargeFailed struct{ Message string }

type ActivationSucceeded struct{}
type ActivationFailed struct{ Message string }

func (InitLoaded) event()          {}
func (MethodSelected) event()      {}
func (CardAdded) event()           {}
func (MethodsReloaded) event()     {}
func (PayPressed) event()          {}
func (TokenObtained) event()       {}
func (TokenUnavailable) event()    {}
func (ChargeSucceeded) event()     {}
func (ChargeFailed) event()        {}
func (ActivationSucceeded) event() {}
func (ActivationFailed) event()    {}

// Effect is a side effect the caller must execute after a transition.
type Effect interface{ effect() }

type EffectReloadMethods struct{}
type EffectObtainToken struct{}

type EffectCharge struct {
	Token       string
	AmountMinor int64
	Currency    string
	MethodID    string
	AttemptKey  string
}

type EffectActivate struct {
	Token              string
	MembershipTypeName string
	LocationID         string
}

// EffectNotifySuccess tells the caller to fire the success callback so the
// membership view is refreshed.
type EffectNotifySuccess struct{}

func (EffectReloadMethods) effect() {}
func (EffectObtainToken) effect()   {}
func (EffectCharge) effect()        {}
func (EffectActivate) effect()      {}
func (EffectNotifySuccess) effect() {}

// MinorUnits converts a major-unit amount to the processor's integer minor
// units (e.g. 450.00 MXN -> 45000 centavos).
func MinorUnits(total float64) int64 {
	return int64(math.Round(total * 100))
}

// Next applies an event and returns the next machine plus effects. Unknown
// (state, event) pairs are ignored; in particular a PayPressed while
// Processing is dropped, which is the no-double-submit guard.
func Next(m Machine, ev Event) (Machine, []Effect) {
	switch e := ev.(type) {
	case InitLoaded:
		if m.State != StateInitializing {
			return m, nil
		}
		if !e.ProfileComplete {
			m.State = StateProfileIncomplete
			m.Notice = "Please complete your profile (name and phone) before purchasing a membership."
			return m, nil
		}
		v := e.Validation
		m.Validation = &v
		if !v.Valid {
			m.State = StateValidationFailed
			m.BlockingErrors = v.Errors
			return m, nil
		}
		m.Methods = e.Methods
		if e.MethodsUnavailable {
			m.Methods = nil
		}
		m.SelectedMethodID = preselect(m.Methods)
		m.State = StateReadyToPay
		return m, nil

	case MethodSelected:
		if m.State != StateReadyToPay && m.State != StateFailed {
			return m, nil
		}
		for _, pm := range m.Methods {
			if pm.ID == e.ID {
				m.SelectedMethodID = e.ID
				m.Notice = ""
				break
			}
		}
		return m, nil

	case CardAdded:
		if m.State != StateReadyToPay && m.State != StateFailed {
			return m, nil
		}
		if !e.Completed {
			// User backed out of the card sheet; nothing to surface.
			return m, nil
		}
		return m, []Effect{EffectReloadMethods{}}

	case MethodsReloaded:
		if m.State != StateReadyToPay && m.State != StateFailed {
			return m, nil
		}
		m.Methods = e.Methods
		if !methodPresent(m.Methods, m.SelectedMethodID) {
			m.SelectedMethodID = preselect(m.Methods)
		}
		m.State = StateReadyToPay
		return m, nil

	case PayPressed:
		// Retry from Failed is permitted; a press while Processing is not.
		if m.State != StateReadyToPay && m.State != StateFailed {
			return m, nil
		}
		if m.SelectedMethodID == "" {
			m.Notice = "Please select or add a payment method."
			return m, nil
		}
		m.State = StateProcessing
		m.AttemptKey = e.AttemptKey
		m.Notice = ""
		m.FailureMessage = ""
		return m, []Effect{EffectObtainToken{}}

	case TokenObtained:
		if m.State != StateProcessing {
			return m, nil
		}
		m.Token = e.Token
		return m, []Effect{EffectCharge{
			Token:       e.Token,
			AmountMinor: MinorUnits(m.Validation.Total),
			Currency:    m.Currency,
			MethodID:    m.SelectedMethodID,
			AttemptKey:  m.AttemptKey,
		}}

	case TokenUnavailable:
		if m.State != StateProcessing {
			return m, nil
		}
		m.State = StateFailed
		m.FailureMessage = "Your session has expired. Please sign in again."
		return m, nil

	case ChargeSucceeded:
		if m.State != StateProcessing {
			return m, nil
		}
		m.IntentID = e.IntentID
		return m, []Effect{EffectActivate{
			Token:              m.Token,
			MembershipTypeName: m.MembershipTypeName,
			LocationID:         m.LocationID,
		}}

	case ChargeFailed:
		if m.State != StateProcessing {
			return m, nil
		}
		m.State = StateFailed
		m.FailureMessage = e.Message
		return m, nil

	case ActivationSucceeded:
		if m.State != StateProcessing {
			return m, nil
		}
		m.State = StateSucceeded
		return m, []Effect{EffectNotifySuccess{}}

	case ActivationFailed:
		if m.State != StateProcessing {
			return m, nil
		}
		// The card was charged; surfacing an error here would mislead the
		// user into paying again. Soften and let the caller refresh state.
		m.State = StateSucceeded
		m.Notice = "Your payment was processed. We'll finish setting up your membership shortly."
		return m, []Effect{EffectNotifySuccess{}}
	}

	return m, nil
}

func preselect(methods []payment.PaymentMethod) string {
	for _, pm := range methods {
		if pm.IsDefault {
			return pm.ID
		}
	}
	if len(methods) > 0 {
		return methods[0].ID
	}
	return ""
}

func methodPresent(methods []payment.PaymentMethod, id string) bool {
	if id == "" {
		return false
	}
	for _, pm := range methods {
		if pm.ID == id {
			return true
		}
	}
	return false
}
