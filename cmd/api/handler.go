package api

import (
	authDelivery "pickleclub-backend/internal/auth/delivery"
	authUsecase "pickleclub-backend/internal/auth/usecase"
	checkoutDelivery "pickleclub-backend/internal/checkout/delivery"
	checkoutUsecase "pickleclub-backend/internal/checkout/usecase"
	membershipDelivery "pickleclub-backend/internal/membership/delivery"
	membershipUsecase "pickleclub-backend/internal/membership/usecase"
	notificationDelivery "pickleclub-backend/internal/notification/delivery"
	notificationUsecase "pickleclub-backend/internal/notification/usecase"
	"pickleclub-backend/internal/payment"
	paymentDelivery "pickleclub-backend/internal/payment/delivery"
	pricingDelivery "pickleclub-backend/internal/pricing/delivery"
	pricingUsecase "pickleclub-backend/internal/pricing/usecase"
	"pickleclub-backend/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler wires the delivery layer together and runs the HTTP server.
type Handler struct {
	authUsecase authUsecase.AuthUsecase
	config      *config.Config
	log         zerolog.Logger

	authHandler         *authDelivery.AuthHandler
	membershipHandler   *membershipDelivery.MembershipHandler
	pricingHandler      *pricingDelivery.PricingHandler
	checkoutHandler     *checkoutDelivery.CheckoutHandler
	paymentHandler      *paymentDelivery.PaymentHandler
	notificationHandler *notificationDelivery.NotificationHandler
}

func NewHandler(
	authUc authUsecase.AuthUsecase,
	membershipUc membershipUsecase.MembershipUsecase,
	pricingUc pricingUsecase.PricingUsecase,
	checkoutValidator checkoutUsecase.ValidationUsecase,
	orchestrator *checkoutUsecase.Orchestrator,
	paymentClient *payment.Client,
	notificationUc notificationUsecase.NotificationUsecase,
	cfg *config.Config,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		authUsecase: authUc,
		config:      cfg,
		log:         log,

		authHandler:         authDelivery.NewAuthHandler(authUc),
		membershipHandler:   membershipDelivery.NewMembershipHandler(membershipUc),
		pricingHandler:      pricingDelivery.NewPricingHandler(pricingUc),
		checkoutHandler:     checkoutDelivery.NewCheckoutHandler(orchestrator, checkoutValidator),
		paymentHandler:      paymentDelivery.NewPaymentHandler(paymentClient),
		notificationHandler: notificationDelivery.NewNotificationHandler(notificationUc),
	}
}

func (h *Handler) Start(addr string) error {
	if h.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(h.log))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	SetupRoutes(r, h.authUsecase, h.authHandler, h.membershipHandler, h.pricingHandler, h.checkoutHandler, h.paymentHandler, h.notificationHandler)

	return r.Run(addr)
}
