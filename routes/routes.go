package routes

import (
	"net/http"
	"time"

	"hourgym/handlers"
	"hourgym/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers the renter-facing browse and
// availability endpoints. No authentication needed to look.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/spaces")
	{
		api.GET("", hb.Space.BrowseSpaces)
		api.GET("/:id", hb.Space.GetSpace)
		api.GET("/:id/slots", hb.Booking.GetSlots)
		api.GET("/:id/quote", hb.Booking.Quote)
	}
}

// RegisterBookingRoutes registers the authenticated renter booking flow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/checkout", hb.Booking.BeginCheckout)
		api.GET("", hb.Booking.ListMyBookings)
		api.GET("/:id", hb.Booking.GetBooking)
		api.POST("/:id/cancel", hb.Booking.Cancel)
	}
}

// RegisterOwnerRoutes registers the gym-owner management surface.
func RegisterOwnerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/owner")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/gym", hb.Gym.CreateGym)
		api.PUT("/gym", hb.Gym.UpdateGym)
		api.GET("/gym", hb.Gym.GetMyGym)
		api.GET("/earnings", hb.Gym.Earnings)
		api.GET("/bookings", hb.Gym.UpcomingBookings)

		api.POST("/spaces", hb.Space.CreateSpace)
		api.GET("/spaces", hb.Space.ListMySpaces)
		api.PUT("/spaces/:id", hb.Space.UpdateSpace)
		api.POST("/spaces/:id/photos", hb.Storage.UploadSpacePhoto)

		api.POST("/spaces/:id/templates", hb.Availability.CreateTemplate)
		api.GET("/spaces/:id/templates", hb.Availability.ListTemplates)
		api.DELETE("/spaces/:id/templates/:templateID", hb.Availability.DeleteTemplate)
		api.POST("/spaces/:id/overrides", hb.Availability.CreateOverride)
		api.GET("/spaces/:id/overrides", hb.Availability.ListOverrides)
		api.DELETE("/spaces/:id/overrides/:overrideID", hb.Availability.DeleteOverride)
	}
}

// RegisterWebhookRoutes registers the payment provider callbacks. These
// authenticate by signature, not by bearer token.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/webhooks/stripe", hb.Webhook.HandleStripeEvent)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterPublicRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterOwnerRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
}
