package services

import (
	"context"
	"errors"

	"cleanwave/internal/models"
	"cleanwave/internal/repositories/interfaces"
	"cleanwave/internal/repositories/mongodb"
	"cleanwave/internal/utils"
	"cleanwave/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrChallengeNotFound = errors.New("challenge not found")

type ChallengeBroadcaster interface {
	BroadcastChallengeUpdate(data map[string]interface{})
}

type ChallengeService interface {
	CreateChallenge(ctx context.Context, request *models.CreateChallengeRequest) (*models.Challenge, error)
	GetChallenge(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error)
	ListChallenges(ctx context.Context, params *utils.PaginationParams) ([]*models.Challenge, int64, error)

	// Join and Vote bump server-side counters and award points to the
	// acting user.
	Join(ctx context.Context, id primitive.ObjectID, userEmail string) (*models.Challenge, error)
	Vote(ctx context.Context, id primitive.ObjectID, userEmail string) (*models.Challenge, error)

	DeleteChallenge(ctx context.Context, id primitive.ObjectID) error
}

type challengeService struct {
	challengeRepo interfaces.ChallengeRepository
	leaderboard   LeaderboardService
	broadcaster   ChallengeBroadcaster
	logger        *logger.Logger
}

func NewChallengeService(
	challengeRepo interfaces.ChallengeRepository,
	leaderboard LeaderboardService,
	broadcaster ChallengeBroadcaster,
	logger *logger.Logger,
) ChallengeService {
	return &challengeService{
		challengeRepo: challengeRepo,
		leaderboard:   leaderboard,
		broadcaster:   broadcaster,
		logger:        logger,
	}
}

func (s *challengeService) CreateChallenge(ctx context.Context, request *models.CreateChallengeRequest) (*models.Challenge, error) {
	status := request.Status
	if status == "" {
		status = models.ChallengeStatusOngoing
	}

	challenge := &models.Challenge{
		Name:        request.Name,
		Description: request.Description,
		Status:      status,
		ImageURL:    request.ImageURL,
	}

	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, err
	}

	return challenge, nil
}

func (s *challengeService) GetChallenge(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	return challenge, nil
}

func (s *challengeService) ListChallenges(ctx context.Context, params *utils.PaginationParams) ([]*models.Challenge, int64, error) {
	return s.challengeRepo.List(ctx, params)
}

func (s *challengeService) Join(ctx context.Context, id primitive.ObjectID, userEmail string) (*models.Challenge, error) {
	return s.bump(ctx, id, userEmail, s.challengeRepo.IncrementJoins, utils.PointsPerChallengeJoin)
}

func (s *challengeService) Vote(ctx context.Context, id primitive.ObjectID, userEmail string) (*models.Challenge, error) {
	return s.bump(ctx, id, userEmail, s.challengeRepo.IncrementVotes, utils.PointsPerVote)
}

func (s *challengeService) bump(
	ctx context.Context,
	id primitive.ObjectID,
	userEmail string,
	increment func(context.Context, primitive.ObjectID) (*models.Challenge, error),
	points int64,
) (*models.Challenge, error) {
	challenge, err := increment(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	if err := s.leaderboard.AwardPoints(ctx, userEmail, points); err != nil {
		s.logger.WithError(err).Warn("Failed to award challenge points")
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastChallengeUpdate(map[string]interface{}{
			"id":    challenge.ID.Hex(),
			"name":  challenge.Name,
			"joins": challenge.Joins,
			"votes": challenge.Votes,
		})
	}

	return challenge, nil
}

func (s *challengeService) DeleteChallenge(ctx context.Context, id primitive.ObjectID) error {
	err := s.challengeRepo.Delete(ctx, id)
	if errors.Is(err, mongodb.ErrChallengeNotFound) {
		return ErrChallengeNotFound
	}

	return err
}
