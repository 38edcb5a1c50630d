package usecase

import (
	membershiprepo "pickleclub-backend/internal/membership/repository"
	"pickleclub-backend/internal/pricing/domain"
	"pickleclub-backend/internal/pricing/repository"

	"github.com/rs/zerolog/log"
)

// PricingUsecase resolves discounted prices for lessons and court time.
// All lookups are read-only; it owns no mutable state.
type PricingUsecase interface {
	CalculateLessonPrice(userID string, rate, hours float64) (*domain.Quote, error)
	CalculateCourtPrice(userID string, rate, hours float64) (*domain.Quote, error)
}

type pricingUsecase struct {
	membershipRepo membershiprepo.MembershipRepository
	discountRepo   repository.DiscountRepository
}

func NewPricingUsecase(membershipRepo membershiprepo.MembershipRepository, discountRepo repository.DiscountRepository) PricingUsecase {
	return &pricingUsecase{
		membershipRepo: membershipRepo,
		discountRepo:   discountRepo,
	}
}

func (u *pricingUsecase) CalculateLessonPrice(userID string, rate, hours float64) (*domain.Quote, error) {
	return u.calculate(userID, rate, hours, domain.CategoryLesson)
}

func (u *pricingUsecase) CalculateCourtPrice(userID string, rate, hours float64) (*domain.Quote, error) {
	return u.calculate(userID, rate, hours, domain.CategoryCourt)
}

func (u *pricingUsecase) calculate(userID string, rate, hours float64, category domain.EventCategory) (*domain.Quote, error) {
	basePrice := rate * hours

	membership, err := u.membershipRepo.ActiveMembership(userID)
	if err != nil {
		return nil, err
	}

	if membership == nil {
		return &domain.Quote{
			BasePrice:      basePrice,
			FinalPrice:     basePrice,
			MembershipType: domain.NoMembership,
		}, nil
	}

	typeName := string(membership.MembershipTypeID)
	if membership.MembershipType != nil {
		typeName = membership.MembershipType.DisplayName
	}

	discount, err := u.discountRepo.FindDiscount(membership.MembershipTypeID, category)
	if err != nil || discount == nil {
		// No table entry for this tier/category pair: charge the base price.
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Str("category", string(category)).Msg("discount lookup failed, falling back to base price")
		} else {
			log.Warn().Str("user_id", userID).Str("category", string(category)).Msg("no discount entry for membership, falling back to base price")
		}
		return &domain.Quote{
			BasePrice:      basePrice,
			FinalPrice:     basePrice,
			MembershipType: typeName,
		}, nil
	}

	discountAmount := basePrice * discount.DiscountPercentage / 100
	finalPrice := basePrice - discountAmount
	if finalPrice < 0 {
		// A discount may never produce a negative price.
		finalPrice = 0
	}

	return &domain.Quote{
		BasePrice:          basePrice,
		DiscountAmount:     discountAmount,
		FinalPrice:         finalPrice,
		DiscountPercentage: discount.DiscountPercentage,
		MembershipType:     typeName,
	}, nil
}
