package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Client talks to the payment backend (the service that owns the processor
// account). All endpoints require a per-user bearer token; amounts cross the
// wire in integer minor units.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListPaymentMethods returns the user's saved cards. Errors are typed so the
// caller decides how to degrade: the checkout screen falls back to an empty
// list, the billing screen surfaces the failure.
func (c *Client) ListPaymentMethods(ctx context.Context, token string) ([]PaymentMethod, error) {
	var resp struct {
		PaymentMethods []PaymentMethod `json:"payment_methods"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/stripe/payment-methods", token, nil, &resp, ""); err != nil {
		return nil, err
	}
	return resp.PaymentMethods, nil
}

// CreateSetupIntent obtains a client secret for collecting a new card.
func (c *Client) CreateSetupIntent(ctx context.Context, token string) (string, error) {
	var resp struct {
		ClientSecret string `json:"client_secret"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/stripe/setup-intent", token, map[string]string{}, &resp, ""); err != nil {
		return "", err
	}
	if resp.ClientSecret == "" {
		return "", &BackendError{StatusCode: http.StatusOK, Body: "setup intent response missing client secret"}
	}
	return resp.ClientSecret, nil
}

// AddPaymentMethod walks the save-a-card flow: fetch a setup-intent secret,
// hand it to the hosted collection UI, report the outcome. A user backing
// out returns (false, nil) and must not be shown as an error.
func (c *Client) AddPaymentMethod(ctx context.Context, token string, collector CardCollector) (bool, error) {
	clientSecret, err := c.CreateSetupIntent(ctx, token)
	if err != nil {
		return false, err
	}

	completed, err := collector.CollectCard(clientSecret)
	if err != nil {
		if errors.Is(err, ErrUserCancelled) {
			return false, nil
		}
		return false, err
	}
	return completed, nil
}

// CreatePaymentIntent creates a card-only intent. Redirect-based payment
// methods are explicitly disabled: the client has no return-URL round trip,
// and the backend must never pick one. The idempotency key is minted per
// pay attempt so a retried request cannot double-charge.
func (c *Client) CreatePaymentIntent(ctx context.Context, token string, req CreateIntentRequest, idempotencyKey string) (*PaymentIntent, error) {
	body := map[string]interface{}{
		"amount":                   req.Amount,
		"currency":                 req.Currency,
		"payment_method_id":        req.PaymentMethodID,
		"payment_method_types":     []string{"card"},
		"disable_redirect_methods": true,
		"metadata":                 req.Metadata,
	}

	var intent PaymentIntent
	if err := c.doJSON(ctx, http.MethodPost, "/api/stripe/create-payment-intent", token, body, &intent, idempotencyKey); err != nil {
		return nil, err
	}
	return &intent, nil
}

// ConfirmPayment confirms a charge against a saved card.
func (c *Client) ConfirmPayment(ctx context.Context, token, paymentIntentID string, metadata map[string]string, returnURL string) (*ConfirmResult, error) {
	body := map[string]interface{}{
		"payment_intent_id": paymentIntentID,
		"metadata":          metadata,
	}
	if returnURL != "" {
		body["return_url"] = returnURL
	}

	var result ConfirmResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/stripe/confirm-payment", token, body, &result, ""); err != nil {
		return nil, err
	}

	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "payment was not confirmed"
		}
		// A redirect/return-URL complaint is a backend configuration
		// problem, not a card decline; say so.
		if strings.Contains(strings.ToLower(msg), "return_url") || strings.Contains(strings.ToLower(msg), "redirect") {
			return nil, &ConfigError{Message: msg}
		}
		return nil, &ProcessorError{Message: msg}
	}
	return &result, nil
}

// FetchPaymentHistory lists past charges. Display-only view, so a hard
// failure is acceptable here.
func (c *Client) FetchPaymentHistory(ctx context.Context, token, userID string, limit int) ([]PaymentRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	path := fmt.Sprintf("/api/stripe/payment-history?user_id=%s&limit=%d", userID, limit)

	var resp struct {
		Payments []PaymentRecord `json:"payments"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &resp, ""); err != nil {
		return nil, err
	}
	return resp.Payments, nil
}

// SetDefaultPaymentMethod marks a saved card as the default.
func (c *Client) SetDefaultPaymentMethod(ctx context.Context, token, paymentMethodID string) error {
	body := map[string]string{"payment_method_id": paymentMethodID}
	return c.doJSON(ctx, http.MethodPost, "/api/stripe/payment-methods/default", token, body, nil, "")
}

// DeletePaymentMethod removes a saved card.
func (c *Client) DeletePaymentMethod(ctx context.Context, token, paymentMethodID string) error {
	body := map[string]string{"payment_method_id": paymentMethodID}
	return c.doJSON(ctx, http.MethodDelete, "/api/stripe/payment-methods", token, body, nil, "")
}

// InvoicePDF fetches the hosted PDF URL for an invoice.
func (c *Client) InvoicePDF(ctx context.Context, token, invoiceID string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/stripe/invoice/"+invoiceID+"/pdf", token, nil, &resp, ""); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// ActivateMembership flips the membership active after a successful charge.
// The type name is lower-cased to match the backend enumeration.
func (c *Client) ActivateMembership(ctx context.Context, token, userID, locationID, membershipTypeName string) error {
	body := map[string]string{
		"user_id":         userID,
		"location_id":     locationID,
		"membership_type": strings.ToLower(membershipTypeName),
	}
	return c.doJSON(ctx, http.MethodPost, "/api/membership/activate", token, body, nil, "")
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out interface{}, idempotencyKey string) error {
	if token == "" {
		return ErrNoAuthToken
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payment backend request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		if jsonErr := json.Unmarshal(data, &errBody); jsonErr != nil || errBody.Error == "" {
			log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("payment backend returned unexpected body")
			return &BackendError{StatusCode: resp.StatusCode, Body: truncate(string(data), 200), NonJSON: jsonErr != nil}
		}
		msg := strings.ToLower(errBody.Error)
		if strings.Contains(msg, "return_url") || strings.Contains(msg, "redirect") {
			return &ConfigError{Message: errBody.Error}
		}
		if resp.StatusCode == http.StatusPaymentRequired {
			return &ProcessorError{Message: errBody.Error}
		}
		return &BackendError{StatusCode: resp.StatusCode, Body: errBody.Error}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			// An HTML body on a 200 means the route isn't what we think
			// it is (commonly a framework index page).
			return &BackendError{StatusCode: resp.StatusCode, Body: truncate(string(data), 200), NonJSON: true}
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
