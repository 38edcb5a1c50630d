package domain

import (
	"time"

	"gorm.io/gorm"
)

type BookingType string

const (
	BookingLesson      BookingType = "lesson"
	BookingReservation BookingType = "reservation"
)

// Booking is an upcoming court reservation or lesson registration. Cancelled
// rows are soft-deleted and never reminded about.
type Booking struct {
	ID        string      `json:"id" gorm:"primaryKey"`
	UserID    string      `json:"user_id" gorm:"index;not null"`
	Type      BookingType `json:"type" gorm:"not null"`
	EventName string      `json:"event_name"`
	CourtName string      `json:"court_name,omitempty"`
	CoachName string      `json:"coach_name,omitempty"` // lessons only
	StartTime time.Time   `json:"start_time" gorm:"index;not null"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ReminderWindow identifies which reminder a log entry belongs to.
type ReminderWindow string

const (
	Window24Hour ReminderWindow = "24_hour"
	Window1Hour  ReminderWindow = "1_hour"
)

type LogStatus string

const (
	LogSent   LogStatus = "sent"
	LogFailed LogStatus = "failed"
)

// NotificationLog is the idempotency record for reminder sends: a
// (booking, window) pair may have at most one "sent" entry.
type NotificationLog struct {
	ID        string `json:"id" gorm:"primaryKey"`
	BookingID string `json:"booking_id" gorm:"index;not null"`
	// Stored as window_type: WINDOW is a reserved word in PostgreSQL and
	// must not appear unquoted in raw query fragments.
	Window    ReminderWindow `json:"window" gorm:"column:window_type;index;not null"`
	Status    LogStatus      `json:"status" gorm:"not null"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
