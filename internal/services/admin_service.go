package services

import (
	"context"

	"cleanwave/internal/repositories/interfaces"
	"cleanwave/pkg/logger"
)

// AdminStats is the operations dashboard snapshot.
type AdminStats struct {
	Users           int64 `json:"users"`
	Posts           int64 `json:"posts"`
	Events          int64 `json:"events"`
	Challenges      int64 `json:"challenges"`
	Classifications int64 `json:"classifications"`
	AlertsTotal     int64 `json:"alerts_total"`
	DonationsPaise  int64 `json:"donations_paise"`
}

type AdminService interface {
	Stats(ctx context.Context) (*AdminStats, error)
}

type adminService struct {
	userRepo           interfaces.UserRepository
	postRepo           interfaces.PostRepository
	eventRepo          interfaces.EventRepository
	challengeRepo      interfaces.ChallengeRepository
	donationRepo       interfaces.DonationRepository
	classificationRepo interfaces.ClassificationRepository
	alertRepo          interfaces.AlertRepository
	logger             *logger.Logger
}

func NewAdminService(
	userRepo interfaces.UserRepository,
	postRepo interfaces.PostRepository,
	eventRepo interfaces.EventRepository,
	challengeRepo interfaces.ChallengeRepository,
	donationRepo interfaces.DonationRepository,
	classificationRepo interfaces.ClassificationRepository,
	alertRepo interfaces.AlertRepository,
	logger *logger.Logger,
) AdminService {
	return &adminService{
		userRepo:           userRepo,
		postRepo:           postRepo,
		eventRepo:          eventRepo,
		challengeRepo:      challengeRepo,
		donationRepo:       donationRepo,
		classificationRepo: classificationRepo,
		alertRepo:          alertRepo,
		logger:             logger,
	}
}

func (s *adminService) Stats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}

	counts := []struct {
		name string
		dest *int64
		get  func(context.Context) (int64, error)
	}{
		{"users", &stats.Users, s.userRepo.Count},
		{"posts", &stats.Posts, s.postRepo.Count},
		{"events", &stats.Events, s.eventRepo.Count},
		{"challenges", &stats.Challenges, s.challengeRepo.Count},
		{"classifications", &stats.Classifications, s.classificationRepo.Count},
		{"donations", &stats.DonationsPaise, s.donationRepo.TotalPaid},
	}

	for _, c := range counts {
		value, err := c.get(ctx)
		if err != nil {
			s.logger.WithError(err).WithField("counter", c.name).Warn("Failed to load stat")
			continue
		}
		*c.dest = value
	}

	alerts, err := s.alertRepo.CountHistory(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to count alerts")
	} else {
		stats.AlertsTotal = alerts
	}

	return stats, nil
}
