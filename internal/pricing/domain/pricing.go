package domain

import "time"

// EventCategory distinguishes discountable activity kinds.
type EventCategory string

const (
	CategoryLesson EventCategory = "lesson"
	CategoryCourt  EventCategory = "court"
)

// NoMembership is the tier label quotes carry when the user has no active
// membership.
const NoMembership = "No Membership"

// MembershipDiscount is one row of the discount table: the percentage a tier
// takes off a given event category.
type MembershipDiscount struct {
	ID                 string        `json:"id" gorm:"primaryKey"`
	MembershipTypeID   string        `json:"membership_type_id" gorm:"index;not null"`
	EventCategory      EventCategory `json:"event_category" gorm:"index;not null"`
	DiscountPercentage float64       `json:"discount_percentage"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// Quote is a fully resolved price for a lesson or court reservation.
// Amounts are MXN major units.
type Quote struct {
	BasePrice          float64 `json:"base_price"`
	DiscountAmount     float64 `json:"discount_amount"`
	FinalPrice         float64 `json:"final_price"`
	DiscountPercentage float64 `json:"discount_percentage"`
	MembershipType     string  `json:"membership_type"`
}
