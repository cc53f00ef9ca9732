package routes

import (
	"cleanwave/internal/handlers"
	"cleanwave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(r *gin.RouterGroup, eventHandler *handlers.EventHandler, jwtSecret string) {
	events := r.Group("/events")
	{
		events.GET("", eventHandler.ListEvents)
		events.GET("/:id", eventHandler.GetEvent)
		events.GET("/map", eventHandler.GetMapPins)
	}

	admin := r.Group("/events")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.POST("", eventHandler.CreateEvent)
		admin.PUT("/:id/status", eventHandler.UpdateStatus)
		admin.DELETE("/:id", eventHandler.DeleteEvent)
	}
}
