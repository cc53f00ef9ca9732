package routes

import (
	"cleanwave/internal/handlers"
	"cleanwave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupClassifierRoutes(r *gin.RouterGroup, classifierHandler *handlers.ClassifierHandler, jwtSecret string) {
	classify := r.Group("/classify")
	classify.Use(middleware.AuthRequired(jwtSecret))
	{
		classify.POST("", classifierHandler.Classify)
		classify.GET("/history", classifierHandler.History)
	}
}
