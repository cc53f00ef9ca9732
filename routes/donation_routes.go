package routes

import (
	"cleanwave/internal/handlers"
	"cleanwave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupDonationRoutes(r *gin.RouterGroup, donationHandler *handlers.DonationHandler, jwtSecret string) {
	// Provider callbacks authenticate with their own signature, not a
	// bearer token.
	r.POST("/webhooks/payment", donationHandler.HandleWebhook)

	donations := r.Group("/donations")
	{
		donations.POST("", middleware.AuthOptional(jwtSecret), donationHandler.CreateDonation)
		donations.GET("/total", donationHandler.GetTotalRaised)
	}

	admin := r.Group("/donations")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.GET("", donationHandler.ListDonations)
	}
}
