package domain

import "time"

// MembershipTypeName is the internal tier identifier used by the backend
// enumeration; the payment backend expects it lower-cased.
type MembershipTypeName string

const (
	TypeStandard  MembershipTypeName = "standard"
	TypeUltimate  MembershipTypeName = "ultimate"
	TypePayToPlay MembershipTypeName = "pay_to_play"
	TypeAdmin     MembershipTypeName = "admin" // never listed to end users
)

// MembershipType is a purchasable tier. Read-only from the client's
// perspective.
type MembershipType struct {
	ID          string             `json:"id" gorm:"primaryKey"`
	Name        MembershipTypeName `json:"name" gorm:"uniqueIndex;not null"`
	DisplayName string             `json:"display_name"`
	MonthlyCost float64            `json:"monthly_cost"` // MXN, major units
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type MembershipStatus string

const (
	StatusActive    MembershipStatus = "active"
	StatusExpired   MembershipStatus = "expired"
	StatusCancelled MembershipStatus = "cancelled"
)

// UserMembership links a user to a tier at a location. The membership shown
// as "the" active one is the active row with the most recent start date.
type UserMembership struct {
	ID               string           `json:"id" gorm:"primaryKey"`
	UserID           string           `json:"user_id" gorm:"index;not null"`
	MembershipTypeID string           `json:"membership_type_id" gorm:"index;not null"`
	MembershipType   *MembershipType  `json:"membership_type,omitempty" gorm:"foreignKey:MembershipTypeID"`
	Status           MembershipStatus `json:"status" gorm:"index"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          *time.Time       `json:"end_date,omitempty"`
	LocationID       string           `json:"location_id"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Location is a club site memberships and bookings are tied to.
type Location struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
