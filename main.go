package main

import (
	api "pickleclub-backend/cmd/api"
	authdomain "pickleclub-backend/internal/auth/domain"
	authRepo "pickleclub-backend/internal/auth/repository"
	authUsecase "pickleclub-backend/internal/auth/usecase"
	checkoutUsecase "pickleclub-backend/internal/checkout/usecase"
	membershipdomain "pickleclub-backend/internal/membership/domain"
	membershipRepo "pickleclub-backend/internal/membership/repository"
	membershipUsecase "pickleclub-backend/internal/membership/usecase"
	notifdomain "pickleclub-backend/internal/notification/domain"
	notifRepo "pickleclub-backend/internal/notification/repository"
	notifUsecase "pickleclub-backend/internal/notification/usecase"
	"pickleclub-backend/internal/payment"
	pricingdomain "pickleclub-backend/internal/pricing/domain"
	pricingRepo "pickleclub-backend/internal/pricing/repository"
	pricingUsecase "pickleclub-backend/internal/pricing/usecase"
	reminderdomain "pickleclub-backend/internal/reminder/domain"
	"pickleclub-backend/pkg/cache"
	"pickleclub-backend/pkg/config"
	"pickleclub-backend/pkg/database"
	"pickleclub-backend/pkg/fcm"
	"pickleclub-backend/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// profileSource adapts the auth usecase to the checkout orchestrator's
// profile-completeness check.
type profileSource struct {
	auth authUsecase.AuthUsecase
}

func (p *profileSource) ProfileComplete(userID string) (bool, error) {
	user, err := p.auth.GetProfile(userID)
	if err != nil {
		return false, err
	}
	return user.ProfileComplete(), nil
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Environment)

	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&membershipdomain.MembershipType{},
		&membershipdomain.UserMembership{},
		&membershipdomain.Location{},
		&pricingdomain.MembershipDiscount{},
		&notifdomain.PushToken{},
		&reminderdomain.Booking{},
		&reminderdomain.NotificationLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Redis is optional: without it profile reads simply skip the cache.
	var redisClient *redis.Client
	if client, err := cache.NewRedisClient(cfg); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, profile cache disabled")
	} else {
		redisClient = client
	}

	// Repositories
	userRepo := authRepo.NewUserRepository(db)
	memberRepo := membershipRepo.NewMembershipRepository(db)
	discountRepo := pricingRepo.NewDiscountRepository(db)
	pushTokenRepo := notifRepo.NewPushTokenRepository(db)

	// Payment backend client
	paymentClient := payment.NewClient(cfg.PaymentAPIBaseURL, cfg.PaymentAPITimeout)

	// FCM is optional for the API: without it token registration still works,
	// only the confirmation push is skipped.
	var pusher notifUsecase.Pusher
	if fcmClient, err := fcm.NewClient(cfg.FirebaseCredentials); err != nil {
		log.Warn().Err(err).Msg("fcm unavailable, registration confirmation pushes disabled")
	} else {
		pusher = fcmClient
	}

	// Usecases
	authUc := authUsecase.NewAuthUsecase(userRepo, redisClient, cfg)
	membershipUc := membershipUsecase.NewMembershipUsecase(memberRepo)
	pricingUc := pricingUsecase.NewPricingUsecase(memberRepo, discountRepo)
	notificationUc := notifUsecase.NewNotificationUsecase(pushTokenRepo, pusher)

	checkoutValidator := checkoutUsecase.NewValidationUsecase(memberRepo)
	orchestrator := checkoutUsecase.NewOrchestrator(
		paymentClient,
		authUc,
		&profileSource{auth: authUc},
		checkoutValidator,
		cfg.Currency,
		func(userID string) {
			// Refresh the membership view after a successful purchase.
			view, err := membershipUc.CurrentMembership(userID)
			if err != nil {
				log.Warn().Err(err).Str("user_id", userID).Msg("membership refresh after checkout failed")
				return
			}
			if view.Active != nil {
				log.Info().Str("user_id", userID).Str("membership_type_id", view.Active.MembershipTypeID).Msg("membership active after checkout")
			}
		},
	)

	handler := api.NewHandler(authUc, membershipUc, pricingUc, checkoutValidator, orchestrator, paymentClient, notificationUc, cfg, log)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
