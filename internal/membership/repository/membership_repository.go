package repository

import (
	"errors"

	"pickleclub-backend/internal/membership/domain"

	"gorm.io/gorm"
)

// MembershipRepository defines read access to tiers and user memberships
type MembershipRepository interface {
	ListTypes() ([]domain.MembershipType, error)
	FindTypeByID(id string) (*domain.MembershipType, error)
	FindTypeByName(name domain.MembershipTypeName) (*domain.MembershipType, error)
	ActiveMembership(userID string) (*domain.UserMembership, error)
	MembershipHistory(userID string) ([]domain.UserMembership, error)
	FindLocationByID(id string) (*domain.Location, error)
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// ListTypes returns the purchasable tiers; the admin tier is excluded from
// end-user listings.
func (r *membershipRepository) ListTypes() ([]domain.MembershipType, error) {
	var types []domain.MembershipType
	err := r.db.Where("name <> ?", domain.TypeAdmin).Order("monthly_cost ASC").Find(&types).Error
	return types, err
}

func (r *membershipRepository) FindTypeByID(id string) (*domain.MembershipType, error) {
	var t domain.MembershipType
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *membershipRepository) FindTypeByName(name domain.MembershipTypeName) (*domain.MembershipType, error) {
	var t domain.MembershipType
	err := r.db.Where("name = ?", name).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// ActiveMembership returns the active membership with the most recent start
// date, or nil when the user has none.
func (r *membershipRepository) ActiveMembership(userID string) (*domain.UserMembership, error) {
	var m domain.UserMembership
	err := r.db.Preload("MembershipType").
		Where("user_id = ? AND status = ?", userID, domain.StatusActive).
		Order("start_date DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) MembershipHistory(userID string) ([]domain.UserMembership, error) {
	var memberships []domain.UserMembership
	err := r.db.Preload("MembershipType").
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&memberships).Error
	return memberships, err
}

func (r *membershipRepository) FindLocationByID(id string) (*domain.Location, error) {
	var loc domain.Location
	err := r.db.Where("id = ?", id).First(&loc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}
