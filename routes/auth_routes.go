package routes

import (
	"cleanwave/internal/handlers"
	"cleanwave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, jwtSecret string) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/google", authHandler.GoogleLogin)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	me := r.Group("/me")
	me.Use(middleware.AuthRequired(jwtSecret))
	{
		me.GET("", authHandler.GetProfile)
		me.POST("/devices", authHandler.RegisterDevice)
	}
}
