package services

import (
	"context"

	"cleanwave/internal/models"
	"cleanwave/internal/repositories/interfaces"
	"cleanwave/pkg/cache"
	"cleanwave/pkg/logger"
)

const leaderboardKey = "leaderboard:points"

type LeaderboardService interface {
	// AwardPoints bumps both the durable per-user total and the redis
	// sorted set the leaderboard reads from.
	AwardPoints(ctx context.Context, email string, delta int64) error
	Top(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

type leaderboardService struct {
	userRepo interfaces.UserRepository
	cache    *cache.RedisCache
	logger   *logger.Logger
}

func NewLeaderboardService(userRepo interfaces.UserRepository, cache *cache.RedisCache, logger *logger.Logger) LeaderboardService {
	return &leaderboardService{
		userRepo: userRepo,
		cache:    cache,
		logger:   logger,
	}
}

func (s *leaderboardService) AwardPoints(ctx context.Context, email string, delta int64) error {
	if email == "" || email == models.AnonymousSender {
		return nil
	}

	if err := s.userRepo.IncrementPoints(ctx, email, delta); err != nil {
		return err
	}

	if s.cache != nil {
		if _, err := s.cache.ZIncrBy(ctx, leaderboardKey, float64(delta), email); err != nil {
			s.logger.WithError(err).Warn("Failed to update leaderboard cache")
		}
	}

	return nil
}

// Top serves from the sorted set and falls back to mongo when redis is
// unavailable or empty (fresh deploy, flushed cache).
func (s *leaderboardService) Top(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	if s.cache != nil {
		members, err := s.cache.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1))
		if err == nil && len(members) > 0 {
			entries := make([]*models.LeaderboardEntry, 0, len(members))
			for i, member := range members {
				email, _ := member.Member.(string)
				entries = append(entries, &models.LeaderboardEntry{
					Rank:        i + 1,
					DisplayName: s.displayName(ctx, email),
					Email:       email,
					Score:       int64(member.Score),
				})
			}
			return entries, nil
		}
		if err != nil {
			s.logger.WithError(err).Warn("Leaderboard cache read failed, falling back to database")
		}
	}

	users, err := s.userRepo.TopByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]*models.LeaderboardEntry, 0, len(users))
	for i, user := range users {
		name := user.DisplayName
		if name == "" {
			name = user.Email
		}
		entries = append(entries, &models.LeaderboardEntry{
			Rank:        i + 1,
			DisplayName: name,
			Email:       user.Email,
			Score:       user.Points,
		})

		// Repopulate the sorted set on the way out.
		if s.cache != nil {
			if err := s.cache.ZAdd(ctx, leaderboardKey, float64(user.Points), user.Email); err != nil {
				s.logger.WithError(err).Warn("Failed to warm leaderboard cache")
			}
		}
	}

	return entries, nil
}

func (s *leaderboardService) displayName(ctx context.Context, email string) string {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil || user.DisplayName == "" {
		return email
	}

	return user.DisplayName
}
