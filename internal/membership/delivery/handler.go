package delivery

import (
	"net/http"

	authdelivery "pickleclub-backend/internal/auth/delivery"
	"pickleclub-backend/internal/membership/usecase"

	"github.com/gin-gonic/gin"
)

type MembershipHandler struct {
	membershipUsecase usecase.MembershipUsecase
}

func NewMembershipHandler(membershipUsecase usecase.MembershipUsecase) *MembershipHandler {
	return &MembershipHandler{membershipUsecase: membershipUsecase}
}

func (h *MembershipHandler) ListTypes(c *gin.Context) {
	types, err := h.membershipUsecase.ListTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"membership_types": types})
}

func (h *MembershipHandler) CurrentMembership(c *gin.Context) {
	userID := c.GetString(authdelivery.UserIDKey)

	view, err := h.membershipUsecase.CurrentMembership(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, view)
}
