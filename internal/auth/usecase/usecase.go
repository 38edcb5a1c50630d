package usecase

import (
	authdomain "pickleclub-backend/internal/auth/domain"
	authdto "pickleclub-backend/internal/auth/dto"
)

// AuthUsecase defines authentication and profile operations
type AuthUsecase interface {
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	ValidateToken(tokenString string) (*authdomain.User, error)

	// GetProfile returns the user's profile, read through the cache.
	GetProfile(userID string) (*authdomain.User, error)

	// UpdateProfile applies the non-nil fields and invalidates the cache.
	UpdateProfile(userID string, req *authdto.UpdateProfileRequest) (*authdomain.User, error)

	// IssueAccessToken mints a fresh access token for a user. The checkout
	// flow reads a fresh token immediately before charging instead of
	// reusing one captured earlier in the session.
	IssueAccessToken(userID string) (string, error)
}
