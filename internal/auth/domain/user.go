package domain

import "time"

// User is a club member's profile. The first/last name and phone fields gate
// checkout: a purchase cannot start until all three are filled in.
type User struct {
	ID        string `json:"id" gorm:"primaryKey"`
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Password  string `json:"-"` // Never return password in JSON
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"` // country-code prefixed, e.g. +52...
	Gender    string `json:"gender,omitempty"`
	Provider  string `json:"provider" gorm:"default:email"`

	// Notification preferences
	NotifyEmail    bool `json:"notify_email" gorm:"default:true"`
	NotifySMS      bool `json:"notify_sms" gorm:"default:false"`
	NotifyWhatsApp bool `json:"notify_whatsapp" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileComplete reports whether the fields required for checkout are present.
func (u *User) ProfileComplete() bool {
	return u.FirstName != "" && u.LastName != "" && u.Phone != ""
}

type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index"`
	ExpiresAt time.Time `json:"expires_at"`
}
