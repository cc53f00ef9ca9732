package routes

import (
	"cleanwave/internal/handlers"
	"cleanwave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPostRoutes(r *gin.RouterGroup, postHandler *handlers.PostHandler, jwtSecret string) {
	posts := r.Group("/posts")
	{
		posts.GET("", postHandler.ListPosts)
		posts.GET("/:id", postHandler.GetPost)
	}

	authed := r.Group("/posts")
	authed.Use(middleware.AuthRequired(jwtSecret))
	{
		authed.POST("", postHandler.CreatePost)
		authed.DELETE("/:id", postHandler.DeletePost)
		authed.POST("/:id/like", postHandler.LikePost)
		authed.DELETE("/:id/like", postHandler.UnlikePost)
		authed.POST("/:id/comments", postHandler.AddComment)
	}
}
