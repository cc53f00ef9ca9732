package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"cleanwave/internal/middleware"
	"cleanwave/internal/models"
	"cleanwave/internal/services"
	"cleanwave/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChallengeHandler struct {
	challengeService services.ChallengeService
	leaderboard      services.LeaderboardService
}

func NewChallengeHandler(challengeService services.ChallengeService, leaderboard services.LeaderboardService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		leaderboard:      leaderboard,
	}
}

func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	var request models.CreateChallengeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	challenge, err := h.challengeService.CreateChallenge(c.Request.Context(), &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "CHALLENGE_CREATE_FAILED", "Failed to create challenge: "+err.Error())
		return
	}

	utils.CreatedResponse(c, "Challenge created", challenge)
}

func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	challenges, total, err := h.challengeService.ListChallenges(c.Request.Context(), params)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Challenges", challenges, &utils.Meta{
		Pagination: utils.NewPaginationMeta(params, total),
	})
}

func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	id, ok := h.challengeID(c)
	if !ok {
		return
	}

	challenge, err := h.challengeService.GetChallenge(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrChallengeNotFound) {
			utils.NotFoundResponse(c, "Challenge not found")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Challenge", challenge)
}

func (h *ChallengeHandler) JoinChallenge(c *gin.Context) {
	id, ok := h.challengeID(c)
	if !ok {
		return
	}

	challenge, err := h.challengeService.Join(c.Request.Context(), id, middleware.UserEmail(c))
	if err != nil {
		if errors.Is(err, services.ErrChallengeNotFound) {
			utils.NotFoundResponse(c, "Challenge not found")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Challenge joined", challenge)
}

func (h *ChallengeHandler) VoteChallenge(c *gin.Context) {
	id, ok := h.challengeID(c)
	if !ok {
		return
	}

	challenge, err := h.challengeService.Vote(c.Request.Context(), id, middleware.UserEmail(c))
	if err != nil {
		if errors.Is(err, services.ErrChallengeNotFound) {
			utils.NotFoundResponse(c, "Challenge not found")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Vote recorded", challenge)
}

func (h *ChallengeHandler) DeleteChallenge(c *gin.Context) {
	id, ok := h.challengeID(c)
	if !ok {
		return
	}

	if err := h.challengeService.DeleteChallenge(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrChallengeNotFound) {
			utils.NotFoundResponse(c, "Challenge not found")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Challenge deleted", nil)
}

func (h *ChallengeHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(utils.LeaderboardDefaultSize)))

	entries, err := h.leaderboard.Top(c.Request.Context(), limit)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Leaderboard", entries)
}

func (h *ChallengeHandler) challengeID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid challenge ID")
		return primitive.NilObjectID, false
	}

	return id, true
}
