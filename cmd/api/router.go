package api

import (
	"net/http"

	authDelivery "pickleclub-backend/internal/auth/delivery"
	authUsecase "pickleclub-backend/internal/auth/usecase"
	checkoutDelivery "pickleclub-backend/internal/checkout/delivery"
	membershipDelivery "pickleclub-backend/internal/membership/delivery"
	notificationDelivery "pickleclub-backend/internal/notification/delivery"
	paymentDelivery "pickleclub-backend/internal/payment/delivery"
	pricingDelivery "pickleclub-backend/internal/pricing/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	r *gin.Engine,
	authUc authUsecase.AuthUsecase,
	authHandler *authDelivery.AuthHandler,
	membershipHandler *membershipDelivery.MembershipHandler,
	pricingHandler *pricingDelivery.PricingHandler,
	checkoutHandler *checkoutDelivery.CheckoutHandler,
	paymentHandler *paymentDelivery.PaymentHandler,
	notificationHandler *notificationDelivery.NotificationHandler,
) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authDelivery.AuthMiddleware(authUc), authHandler.Me)
		}

		// Profile routes (protected)
		profile := api.Group("/profile")
		profile.Use(authDelivery.AuthMiddleware(authUc))
		{
			profile.GET("", authHandler.GetProfile)
			profile.PUT("", authHandler.UpdateProfile)
		}

		// Membership routes (protected)
		memberships := api.Group("/memberships")
		memberships.Use(authDelivery.AuthMiddleware(authUc))
		{
			memberships.GET("/types", membershipHandler.ListTypes)
			memberships.GET("/me", membershipHandler.CurrentMembership)
		}

		// Pricing routes (protected)
		pricing := api.Group("/pricing")
		pricing.Use(authDelivery.AuthMiddleware(authUc))
		{
			pricing.GET("/lesson", pricingHandler.LessonQuote)
			pricing.GET("/court", pricingHandler.CourtQuote)
		}

		// Checkout routes (protected)
		checkout := api.Group("/checkout")
		checkout.Use(authDelivery.AuthMiddleware(authUc))
		{
			checkout.POST("/validate", checkoutHandler.Validate)
			checkout.POST("/pay", checkoutHandler.Pay)
		}

		// Billing routes (protected)
		payments := api.Group("/payments")
		payments.Use(authDelivery.AuthMiddleware(authUc))
		{
			payments.GET("/methods", paymentHandler.ListMethods)
			payments.POST("/setup-intent", paymentHandler.CreateSetupIntent)
			payments.POST("/methods/default", paymentHandler.SetDefaultMethod)
			payments.DELETE("/methods/:id", paymentHandler.DeleteMethod)
			payments.GET("/history", paymentHandler.History)
			payments.GET("/invoice/:id/pdf", paymentHandler.InvoicePDF)
		}

		// Push notification routes (protected)
		push := api.Group("/push")
		push.Use(authDelivery.AuthMiddleware(authUc))
		{
			push.POST("/register", notificationHandler.RegisterToken)
			push.DELETE("/:deviceId", notificationHandler.UnregisterDevice)
		}
	}
}
