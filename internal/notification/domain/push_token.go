package domain

import "time"

// PushToken is a registered FCM device token. For a (user, device, platform)
// tuple at most one row is active; registering a new token deactivates the
// previous ones for that tuple.
type PushToken struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	DeviceID  string    `json:"device_id" gorm:"index;not null"`
	Platform  string    `json:"platform" gorm:"not null"` // ios | android | web
	Token     string    `json:"-" gorm:"not null"`        // Don't expose token in JSON
	Active    bool      `json:"active" gorm:"index;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
