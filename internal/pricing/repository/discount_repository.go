package repository

import (
	"errors"

	"pickleclub-backend/internal/pricing/domain"

	"gorm.io/gorm"
)

// DiscountRepository reads the discount table
type DiscountRepository interface {
	FindDiscount(membershipTypeID string, category domain.EventCategory) (*domain.MembershipDiscount, error)
}

type discountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) DiscountRepository {
	return &discountRepository{db: db}
}

func (r *discountRepository) FindDiscount(membershipTypeID string, category domain.EventCategory) (*domain.MembershipDiscount, error) {
	var d domain.MembershipDiscount
	err := r.db.Where("membership_type_id = ? AND event_category = ?", membershipTypeID, category).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}
