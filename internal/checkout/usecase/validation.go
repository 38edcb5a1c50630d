package usecase

import (
	"fmt"

	checkoutdomain "pickleclub-backend/internal/checkout/domain"
	membershipdomain "pickleclub-backend/internal/membership/domain"
	membershiprepo "pickleclub-backend/internal/membership/repository"
)

// ValidationUsecase runs the server-side eligibility check for a membership
// purchase and computes the total to charge.
type ValidationUsecase interface {
	Validate(userID, membershipTypeID, locationID string) (*checkoutdomain.Validation, *membershipdomain.MembershipType, error)
}

type validationUsecase struct {
	membershipRepo membershiprepo.MembershipRepository
}

func NewValidationUsecase(membershipRepo membershiprepo.MembershipRepository) ValidationUsecase {
	return &validationUsecase{membershipRepo: membershipRepo}
}

func (u *validationUsecase) Validate(userID, membershipTypeID, locationID string) (*checkoutdomain.Validation, *membershipdomain.MembershipType, error) {
	var errs []string

	membershipType, err := u.membershipRepo.FindTypeByID(membershipTypeID)
	if err != nil {
		return nil, nil, err
	}
	if membershipType == nil || membershipType.Name == membershipdomain.TypeAdmin {
		errs = append(errs, "The selected membership is not available for purchase.")
	}

	location, err := u.membershipRepo.FindLocationByID(locationID)
	if err != nil {
		return nil, nil, err
	}
	if location == nil || !location.Active {
		errs = append(errs, "The selected location is not currently accepting new memberships.")
	}

	if membershipType != nil {
		active, err := u.membershipRepo.ActiveMembership(userID)
		if err != nil {
			return nil, nil, err
		}
		if active != nil && active.MembershipTypeID == membershipType.ID {
			errs = append(errs, fmt.Sprintf("You already have an active %s membership.", membershipType.DisplayName))
		}
	}

	validation := &checkoutdomain.Validation{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
	if membershipType != nil {
		validation.Total = membershipType.MonthlyCost
	}
	return validation, membershipType, nil
}
