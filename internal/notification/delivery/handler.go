package delivery

import (
	"net/http"

	authdelivery "pickleclub-backend/internal/auth/delivery"
	"pickleclub-backend/internal/notification/usecase"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{notificationUsecase: notificationUsecase}
}

type registerTokenRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
	Platform string `json:"platform" binding:"required"`
	Token    string `json:"token" binding:"required"`
}

func (h *NotificationHandler) RegisterToken(c *gin.Context) {
	userID := c.GetString(authdelivery.UserIDKey)

	var req registerTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.notificationUsecase.RegisterToken(userID, req.DeviceID, req.Platform, req.Token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token registered"})
}

func (h *NotificationHandler) UnregisterDevice(c *gin.Context) {
	userID := c.GetString(authdelivery.UserIDKey)
	deviceID := c.Param("deviceId")

	if err := h.notificationUsecase.UnregisterDevice(userID, deviceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "device unregistered"})
}
