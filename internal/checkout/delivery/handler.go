package delivery

import (
	"net/http"

	authdelivery "pickleclub-backend/internal/auth/delivery"
	checkoutdomain "pickleclub-backend/internal/checkout/domain"
	"pickleclub-backend/internal/checkout/usecase"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	orchestrator *usecase.Orchestrator
	validator    usecase.ValidationUsecase
}

func NewCheckoutHandler(orchestrator *usecase.Orchestrator, validator usecase.ValidationUsecase) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orchestrator,
		validator:    validator,
	}
}

type validateRequest struct {
	MembershipTypeID string `json:"membership_type_id" binding:"required"`
	LocationID       string `json:"location_id" binding:"required"`
}

type payRequest struct {
	MembershipTypeID string `json:"membership_type_id" binding:"required"`
	LocationID       string `json:"location_id" binding:"required"`
	PaymentMethodID  string `json:"payment_method_id"`
}

func (h *CheckoutHandler) Validate(c *gin.Context) {
	userID := c.GetString(authdelivery.UserIDKey)

	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	validation, _, err := h.validator.Validate(userID, req.MembershipTypeID, req.LocationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, validation)
}

func (h *CheckoutHandler) Pay(c *gin.Context) {
	userID := c.GetString(authdelivery.UserIDKey)

	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.orchestrator.Pay(c.Request.Context(), userID, req.MembershipTypeID, req.LocationID, req.PaymentMethodID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	switch outcome.State {
	case checkoutdomain.StateValidationFailed, checkoutdomain.StateProfileIncomplete:
		status = http.StatusUnprocessableEntity
	case checkoutdomain.StateFailed:
		status = http.StatusPaymentRequired
	}

	c.JSON(status, outcome)
}
