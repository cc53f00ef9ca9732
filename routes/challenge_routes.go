package routes

import (
	"cleanwave/internal/handlers"
	"cleanwave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupChallengeRoutes(r *gin.RouterGroup, challengeHandler *handlers.ChallengeHandler, jwtSecret string) {
	challenges := r.Group("/challenges")
	{
		challenges.GET("", challengeHandler.ListChallenges)
		challenges.GET("/:id", challengeHandler.GetChallenge)
	}

	authed := r.Group("/challenges")
	authed.Use(middleware.AuthRequired(jwtSecret))
	{
		authed.POST("/:id/join", challengeHandler.JoinChallenge)
		authed.POST("/:id/vote", challengeHandler.VoteChallenge)
	}

	admin := r.Group("/challenges")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.POST("", challengeHandler.CreateChallenge)
		admin.DELETE("/:id", challengeHandler.DeleteChallenge)
	}

	r.GET("/leaderboard", challengeHandler.GetLeaderboard)
}
