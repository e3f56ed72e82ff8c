package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"booking/internal/handler"
	"booking/internal/middleware"
	"booking/internal/service"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	PricingHandler *handler.PricingHandler
	BookingHandler *handler.BookingHandler
	WebhookHandler *handler.WebhookHandler
	AdminHandler   *handler.AdminHandler
	AuthService    *service.AuthService
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Pricing routes.
		v1.POST("/pricing/estimate", deps.PricingHandler.Estimate)

		// Booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", deps.BookingHandler.CreateBooking)
			bookings.GET("/:id", deps.BookingHandler.GetBooking)
		}

		// Checkout routes.
		v1.POST("/checkout", deps.BookingHandler.Checkout)
		v1.POST("/payments/cash", deps.BookingHandler.CashPayment)

		// Gateway webhook. Authenticated by signature, not by session.
		v1.POST("/webhooks/payment", deps.WebhookHandler.HandleEvent)

		// Admin routes.
		v1.POST("/admin/login", deps.AdminHandler.Login)

		admin := v1.Group("/admin", middleware.AdminAuth(deps.AuthService))
		{
			admin.GET("/bookings", deps.AdminHandler.ListBookings)
			admin.GET("/bookings/:id", deps.AdminHandler.GetBooking)
			admin.PATCH("/bookings/:id", deps.AdminHandler.UpdateBooking)
			admin.POST("/bookings/:id/capture", deps.AdminHandler.CapturePayment)
		}
	}

	return router
}
