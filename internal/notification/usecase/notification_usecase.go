package usecase

import (
	"context"
	"errors"
	"time"

	"pickleclub-backend/internal/notification/repository"
	"pickleclub-backend/pkg/fcm"

	"github.com/rs/zerolog/log"
)

var allowedPlatforms = map[string]bool{
	"ios":     true,
	"android": true,
	"web":     true,
}

// Pusher delivers a push message to a single device token.
type Pusher interface {
	SendToDevice(ctx context.Context, token string, notification fcm.NotificationData) error
}

// NotificationUsecase handles push token registration
type NotificationUsecase interface {
	RegisterToken(userID, deviceID, platform, token string) error
	UnregisterDevice(userID, deviceID string) error
}

type notificationUsecase struct {
	tokenRepo repository.PushTokenRepository
	pusher    Pusher
}

// NewNotificationUsecase creates the push registration usecase. The pusher is
// optional; with a nil pusher registrations are stored without a
// confirmation push.
func NewNotificationUsecase(tokenRepo repository.PushTokenRepository, pusher Pusher) NotificationUsecase {
	return &notificationUsecase{
		tokenRepo: tokenRepo,
		pusher:    pusher,
	}
}

func (u *notificationUsecase) RegisterToken(userID, deviceID, platform, token string) error {
	if token == "" || deviceID == "" {
		return errors.New("device id and token are required")
	}
	if !allowedPlatforms[platform] {
		return errors.New("platform must be one of ios, android, web")
	}
	if err := u.tokenRepo.Register(userID, deviceID, platform, token); err != nil {
		return err
	}

	u.confirmRegistration(userID, token)
	return nil
}

// confirmRegistration sends a test push to the freshly registered token so
// the user sees immediately whether notifications reach the device.
// Best-effort: a delivery failure never fails the registration.
func (u *notificationUsecase) confirmRegistration(userID, token string) {
	if u.pusher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := u.pusher.SendToDevice(ctx, token, fcm.NotificationData{
		Title: "Notifications enabled",
		Body:  "You'll get reminders for your upcoming lessons and reservations here.",
		Data:  map[string]string{"type": "registration_confirmed"},
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("registration confirmation push failed")
	}
}

func (u *notificationUsecase) UnregisterDevice(userID, deviceID string) error {
	if deviceID == "" {
		return errors.New("device id is required")
	}
	return u.tokenRepo.Deactivate(userID, deviceID)
}
