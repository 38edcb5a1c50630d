package delivery

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	authdelivery "pickleclub-backend/internal/auth/delivery"
	"pickleclub-backend/internal/payment"

	"github.com/gin-gonic/gin"
)

// PaymentHandler exposes the billing views: saved cards, payment history and
// invoices. The caller's bearer token is forwarded to the payment backend.
type PaymentHandler struct {
	client *payment.Client
}

func NewPaymentHandler(client *payment.Client) *PaymentHandler {
	return &PaymentHandler{client: client}
}

func bearerToken(c *gin.Context) string {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}

// ListMethods is a read path: a backend outage degrades to an empty list so
// the screen can still offer "add a card".
func (h *PaymentHandler) ListMethods(c *gin.Context) {
	methods, err := h.client.ListPaymentMethods(c.Request.Context(), bearerToken(c))
	if err != nil {
		if errors.Is(err, payment.ErrNoAuthToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment_methods": []payment.PaymentMethod{}, "degraded": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}

func (h *PaymentHandler) CreateSetupIntent(c *gin.Context) {
	secret, err := h.client.CreateSetupIntent(c.Request.Context(), bearerToken(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"client_secret": secret})
}

type defaultMethodRequest struct {
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
}

func (h *PaymentHandler) SetDefaultMethod(c *gin.Context) {
	var req defaultMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.client.SetDefaultPaymentMethod(c.Request.Context(), bearerToken(c), req.PaymentMethodID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "default payment method updated"})
}

func (h *PaymentHandler) DeleteMethod(c *gin.Context) {
	methodID := c.Param("id")
	if methodID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment method id required"})
		return
	}

	if err := h.client.DeletePaymentMethod(c.Request.Context(), bearerToken(c), methodID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "payment method removed"})
}

// History is display-only; an explicit error is acceptable here, so no
// soft-fail.
func (h *PaymentHandler) History(c *gin.Context) {
	userID := c.GetString(authdelivery.UserIDKey)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.client.FetchPaymentHistory(c.Request.Context(), bearerToken(c), userID, limit)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": records})
}

func (h *PaymentHandler) InvoicePDF(c *gin.Context) {
	url, err := h.client.InvoicePDF(c.Request.Context(), bearerToken(c), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func statusFor(err error) int {
	if errors.Is(err, payment.ErrNoAuthToken) {
		return http.StatusUnauthorized
	}
	var procErr *payment.ProcessorError
	if errors.As(err, &procErr) {
		return http.StatusPaymentRequired
	}
	return http.StatusBadGateway
}
