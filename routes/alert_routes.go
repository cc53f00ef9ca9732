package routes

import (
	"cleanwave/internal/handlers"
	"cleanwave/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAlertRoutes wires the SOS lifecycle. Triggering is open to
// anonymous callers; resolution requires an authenticated identity to
// compare against the stored sender.
func SetupAlertRoutes(r *gin.RouterGroup, alertHandler *handlers.AlertHandler, jwtSecret string) {
	sos := r.Group("/sos")
	{
		sos.POST("", middleware.AuthOptional(jwtSecret), alertHandler.TriggerSOS)
		sos.POST("/resolve", middleware.AuthRequired(jwtSecret), alertHandler.Resolve)
		sos.GET("/latest", alertHandler.GetLatest)
		sos.GET("/history", middleware.AuthRequired(jwtSecret), alertHandler.GetHistory)
	}
}
