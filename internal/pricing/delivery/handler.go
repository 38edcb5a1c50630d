package delivery

import (
	"net/http"
	"strconv"

	authdelivery "pickleclub-backend/internal/auth/delivery"
	"pickleclub-backend/internal/pricing/domain"
	"pickleclub-backend/internal/pricing/usecase"

	"github.com/gin-gonic/gin"
)

type PricingHandler struct {
	pricingUsecase usecase.PricingUsecase
}

func NewPricingHandler(pricingUsecase usecase.PricingUsecase) *PricingHandler {
	return &PricingHandler{pricingUsecase: pricingUsecase}
}

func (h *PricingHandler) LessonQuote(c *gin.Context) {
	h.quote(c, domain.CategoryLesson)
}

func (h *PricingHandler) CourtQuote(c *gin.Context) {
	h.quote(c, domain.CategoryCourt)
}

func (h *PricingHandler) quote(c *gin.Context, category domain.EventCategory) {
	userID := c.GetString(authdelivery.UserIDKey)

	rate, err := strconv.ParseFloat(c.Query("rate"), 64)
	if err != nil || rate < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rate must be a non-negative number"})
		return
	}

	hours, err := strconv.ParseFloat(c.DefaultQuery("hours", "1"), 64)
	if err != nil || hours < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be a non-negative number"})
		return
	}

	var quote *domain.Quote
	if category == domain.CategoryLesson {
		quote, err = h.pricingUsecase.CalculateLessonPrice(userID, rate, hours)
	} else {
		quote, err = h.pricingUsecase.CalculateCourtPrice(userID, rate, hours)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quote)
}
