package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestListPaymentMethods(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/stripe/payment-methods", r.URL.Path)
		assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"payment_methods": []PaymentMethod{
				{ID: "pm_1", Brand: "visa", Last4: "4242", IsDefault: true},
			},
		})
	})
	defer srv.Close()

	methods, err := c.ListPaymentMethods(context.Background(), "tok-abc")
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, "pm_1", methods[0].ID)
	assert.True(t, methods[0].IsDefault)
}

func TestDoJSONMissingTokenShortCircuits(t *testing.T) {
	called := false
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	defer srv.Close()

	_, err := c.ListPaymentMethods(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoAuthToken)
	assert.False(t, called)
}

func TestCreatePaymentIntentSendsCardOnlyBodyAndIdempotencyKey(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stripe/create-payment-intent", r.URL.Path)
		assert.Equal(t, "attempt-1", r.Header.Get("Idempotency-Key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(45000), body["amount"])
		assert.Equal(t, "mxn", body["currency"])
		assert.Equal(t, "pm_1", body["payment_method_id"])
		assert.Equal(t, []interface{}{"card"}, body["payment_method_types"])
		assert.Equal(t, true, body["disable_redirect_methods"])

		json.NewEncoder(w).Encode(PaymentIntent{
			PaymentIntentID: "pi_1",
			ClientSecret:    "secret",
			Amount:          45000,
			Currency:        "mxn",
			Status:          "requires_confirmation",
		})
	})
	defer srv.Close()

	intent, err := c.CreatePaymentIntent(context.Background(), "tok-abc", CreateIntentRequest{
		Amount:          45000,
		Currency:        "mxn",
		PaymentMethodID: "pm_1",
	}, "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, "pi_1", intent.PaymentIntentID)
	assert.Equal(t, int64(45000), intent.Amount)
}

func TestConfirmPaymentSuccess(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ConfirmResult{
			Success: true,
			Payment: &PaymentIntent{PaymentIntentID: "pi_1", Status: "succeeded"},
		})
	})
	defer srv.Close()

	result, err := c.ConfirmPayment(context.Background(), "tok-abc", "pi_1", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "succeeded", result.Payment.Status)
}

func TestConfirmPaymentDeclineIsProcessorError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ConfirmResult{Success: false, Error: "Your card was declined."})
	})
	defer srv.Close()

	_, err := c.ConfirmPayment(context.Background(), "tok-abc", "pi_1", nil, "")
	var perr *ProcessorError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Your card was declined.", perr.Message)
}

func TestConfirmPaymentReturnURLComplaintIsConfigError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ConfirmResult{
			Success: false,
			Error:   "This PaymentIntent requires a return_url to confirm",
		})
	})
	defer srv.Close()

	_, err := c.ConfirmPayment(context.Background(), "tok-abc", "pi_1", nil, "")
	var cerr *ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func TestDoJSONPaymentRequiredIsProcessorError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]string{"error": "insufficient funds"})
	})
	defer srv.Close()

	_, err := c.ListPaymentMethods(context.Background(), "tok-abc")
	var perr *ProcessorError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "insufficient funds", perr.Message)
}

func TestDoJSONErrorBodyRedirectComplaintIsConfigError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "redirect-based payment methods are not supported"})
	})
	defer srv.Close()

	_, err := c.ListPaymentMethods(context.Background(), "tok-abc")
	var cerr *ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func TestDoJSONNonJSONErrorBodyIsBackendError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>Bad Gateway</html>"))
	})
	defer srv.Close()

	_, err := c.ListPaymentMethods(context.Background(), "tok-abc")
	var berr *BackendError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, http.StatusBadGateway, berr.StatusCode)
	assert.True(t, berr.NonJSON)
}

func TestDoJSONHTMLOn200IsBackendError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<!DOCTYPE html><html>index</html>"))
	})
	defer srv.Close()

	_, err := c.ListPaymentMethods(context.Background(), "tok-abc")
	var berr *BackendError
	require.ErrorAs(t, err, &berr)
	assert.True(t, berr.NonJSON)
}

type fakeCollector struct {
	completed bool
	err       error
	gotSecret string
}

func (f *fakeCollector) CollectCard(clientSecret string) (bool, error) {
	f.gotSecret = clientSecret
	return f.completed, f.err
}

func TestAddPaymentMethodCompleted(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stripe/setup-intent", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"client_secret": "seti_secret"})
	})
	defer srv.Close()

	collector := &fakeCollector{completed: true}
	completed, err := c.AddPaymentMethod(context.Background(), "tok-abc", collector)
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, "seti_secret", collector.gotSecret)
}

func TestAddPaymentMethodCancelledIsNotAnError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"client_secret": "seti_secret"})
	})
	defer srv.Close()

	completed, err := c.AddPaymentMethod(context.Background(), "tok-abc", &fakeCollector{err: ErrUserCancelled})
	assert.NoError(t, err)
	assert.False(t, completed)
}

func TestCreateSetupIntentMissingSecret(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})
	defer srv.Close()

	_, err := c.CreateSetupIntent(context.Background(), "tok-abc")
	var berr *BackendError
	assert.ErrorAs(t, err, &berr)
}

func TestActivateMembershipLowercasesTypeName(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/membership/activate", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ultimate", body["membership_type"])
		assert.Equal(t, "user-1", body["user_id"])
		assert.Equal(t, "loc-1", body["location_id"])
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	})
	defer srv.Close()

	err := c.ActivateMembership(context.Background(), "tok-abc", "user-1", "loc-1", "Ultimate")
	assert.NoError(t, err)
}

func TestFetchPaymentHistoryDefaultsLimit(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "user-1", r.URL.Query().Get("user_id"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"payments": []PaymentRecord{{ID: "pay_1", Amount: 45000, Currency: "mxn", Status: "succeeded"}},
		})
	})
	defer srv.Close()

	records, err := c.FetchPaymentHistory(context.Background(), "tok-abc", "user-1", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(45000), records[0].Amount)
}
