package repository

import (
	"time"

	"pickleclub-backend/internal/reminder/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingRepository reads upcoming bookings for the reminder worker
type BookingRepository interface {
	// FindStartingBetween returns non-deleted bookings whose start time
	// falls inside [from, to], bounds inclusive.
	FindStartingBetween(from, to time.Time) ([]domain.Booking, error)
}

// NotificationLogRepository owns the idempotency log
type NotificationLogRepository interface {
	HasSent(bookingID string, window domain.ReminderWindow) (bool, error)
	Record(bookingID string, window domain.ReminderWindow, status domain.LogStatus, errMsg string) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) FindStartingBetween(from, to time.Time) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.Where("start_time >= ? AND start_time <= ?", from, to).Find(&bookings).Error
	return bookings, err
}

type notificationLogRepository struct {
	db *gorm.DB
}

func NewNotificationLogRepository(db *gorm.DB) NotificationLogRepository {
	return &notificationLogRepository{db: db}
}

func (r *notificationLogRepository) HasSent(bookingID string, window domain.ReminderWindow) (bool, error) {
	var count int64
	err := r.db.Model(&domain.NotificationLog{}).
		Where("booking_id = ? AND window_type = ? AND status = ?", bookingID, window, domain.LogSent).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *notificationLogRepository) Record(bookingID string, window domain.ReminderWindow, status domain.LogStatus, errMsg string) error {
	return r.db.Create(&domain.NotificationLog{
		ID:        uuid.New().String(),
		BookingID: bookingID,
		Window:    window,
		Status:    status,
		Error:     errMsg,
		CreatedAt: time.Now(),
	}).Error
}
