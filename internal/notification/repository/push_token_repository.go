package repository

import (
	"time"

	"pickleclub-backend/internal/notification/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PushTokenRepository defines the interface for push token operations
type PushTokenRepository interface {
	Register(userID, deviceID, platform, token string) error
	ActiveTokensByUserID(userID string) ([]domain.PushToken, error)
	Deactivate(userID, deviceID string) error
	DeactivateToken(token string) error
}

// pushTokenRepository implements PushTokenRepository interface
type pushTokenRepository struct {
	db *gorm.DB
}

// NewPushTokenRepository creates a new instance of pushTokenRepository
func NewPushTokenRepository(db *gorm.DB) PushTokenRepository {
	return &pushTokenRepository{
		db: db,
	}
}

// Register stores a token and deactivates any prior active token for the
// same (user, device, platform) tuple, atomically.
func (r *pushTokenRepository) Register(userID, deviceID, platform, token string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.PushToken{}).
			Where("user_id = ? AND device_id = ? AND platform = ? AND active = ?", userID, deviceID, platform, true).
			Updates(map[string]interface{}{"active": false, "updated_at": time.Now()}).Error; err != nil {
			return err
		}

		return tx.Create(&domain.PushToken{
			ID:        uuid.New().String(),
			UserID:    userID,
			DeviceID:  deviceID,
			Platform:  platform,
			Token:     token,
			Active:    true,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}).Error
	})
}

// ActiveTokensByUserID returns every active token for a user, one per device.
func (r *pushTokenRepository) ActiveTokensByUserID(userID string) ([]domain.PushToken, error) {
	var tokens []domain.PushToken
	err := r.db.Where("user_id = ? AND active = ?", userID, true).Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// Deactivate marks all of a device's tokens inactive (sign-out path).
func (r *pushTokenRepository) Deactivate(userID, deviceID string) error {
	return r.db.Model(&domain.PushToken{}).
		Where("user_id = ? AND device_id = ?", userID, deviceID).
		Updates(map[string]interface{}{"active": false, "updated_at": time.Now()}).Error
}

// DeactivateToken retires a single token, used when FCM reports it invalid.
func (r *pushTokenRepository) DeactivateToken(token string) error {
	return r.db.Model(&domain.PushToken{}).
		Where("token = ?", token).
		Updates(map[string]interface{}{"active": false, "updated_at": time.Now()}).Error
}
