package payment

import "time"

// PaymentMethod is a saved card as the backend reports it. Nothing beyond
// the in-memory selection during checkout is persisted locally.
type PaymentMethod struct {
	ID        string `json:"id"`
	Brand     string `json:"brand"`
	Last4     string `json:"last4"`
	ExpMonth  int    `json:"exp_month"`
	ExpYear   int    `json:"exp_year"`
	IsDefault bool   `json:"is_default"`
}

// PaymentIntent is the backend's view of an in-progress charge. Amount is in
// minor currency units (centavos).
type PaymentIntent struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Status          string `json:"status"`
}

// ConfirmResult is the outcome of a confirm-payment call.
type ConfirmResult struct {
	Success bool           `json:"success"`
	Payment *PaymentIntent `json:"payment,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// PaymentRecord is one past charge in the billing history view.
type PaymentRecord struct {
	ID          string    `json:"id"`
	Amount      int64     `json:"amount"` // minor units
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	InvoiceID   string    `json:"invoice_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateIntentRequest is the request body for create-payment-intent.
type CreateIntentRequest struct {
	Amount          int64             `json:"amount"` // minor units
	Currency        string            `json:"currency"`
	PaymentMethodID string            `json:"payment_method_id"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// CardCollector is the hosted card-collection UI boundary. Implementations
// present the processor's sheet with the setup-intent client secret and
// report completion, cancellation, or failure.
type CardCollector interface {
	CollectCard(clientSecret string) (completed bool, err error)
}
