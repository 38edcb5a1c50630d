package usecase

import (
	"pickleclub-backend/internal/membership/domain"
	"pickleclub-backend/internal/membership/repository"
)

// MembershipView is what the account screen renders: the single membership
// treated as active plus the full history.
type MembershipView struct {
	Active  *domain.UserMembership  `json:"active_membership"`
	History []domain.UserMembership `json:"membership_history"`
}

// MembershipUsecase exposes tier listings and per-user membership state
type MembershipUsecase interface {
	ListTypes() ([]domain.MembershipType, error)
	CurrentMembership(userID string) (*MembershipView, error)
}

type membershipUsecase struct {
	repo repository.MembershipRepository
}

func NewMembershipUsecase(repo repository.MembershipRepository) MembershipUsecase {
	return &membershipUsecase{repo: repo}
}

func (u *membershipUsecase) ListTypes() ([]domain.MembershipType, error) {
	return u.repo.ListTypes()
}

// CurrentMembership is also the refresh target the checkout flow invokes
// after a successful purchase.
func (u *membershipUsecase) CurrentMembership(userID string) (*MembershipView, error) {
	active, err := u.repo.ActiveMembership(userID)
	if err != nil {
		return nil, err
	}

	history, err := u.repo.MembershipHistory(userID)
	if err != nil {
		return nil, err
	}

	return &MembershipView{
		Active:  active,
		History: history,
	}, nil
}
