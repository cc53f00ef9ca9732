package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cleanwave/internal/models"
	"cleanwave/internal/repositories/interfaces"
	"cleanwave/internal/repositories/mongodb"
	"cleanwave/internal/utils"
	"cleanwave/pkg/logger"
	"cleanwave/pkg/payment"
)

var (
	ErrDonationNotFound = errors.New("donation not found")
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrInvalidAmount    = errors.New("donation amount out of range")
)

type DonationService interface {
	CreateDonation(ctx context.Context, donor string, request *models.CreateDonationRequest) (*models.CreateDonationResponse, error)
	ListDonations(ctx context.Context, params *utils.PaginationParams) ([]*models.Donation, int64, error)
	TotalRaised(ctx context.Context) (int64, error)

	// HandleWebhook verifies the provider signature before touching
	// any donation record.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type donationService struct {
	donationRepo interfaces.DonationRepository
	provider     payment.Provider
	currency     string
	logger       *logger.Logger
}

func NewDonationService(donationRepo interfaces.DonationRepository, provider payment.Provider, currency string, logger *logger.Logger) DonationService {
	if currency == "" {
		currency = utils.DefaultCurrency
	}

	return &donationService{
		donationRepo: donationRepo,
		provider:     provider,
		currency:     currency,
		logger:       logger,
	}
}

func (s *donationService) CreateDonation(ctx context.Context, donor string, request *models.CreateDonationRequest) (*models.CreateDonationResponse, error) {
	if request.Amount < utils.MinDonationAmount || request.Amount > utils.MaxDonationAmount {
		return nil, ErrInvalidAmount
	}

	currency := request.Currency
	if currency == "" {
		currency = s.currency
	}

	donation := &models.Donation{
		Donor:    donor,
		Amount:   request.Amount,
		Currency: currency,
		Provider: s.provider.Name(),
		Status:   models.DonationStatusCreated,
		Purpose:  request.Purpose,
	}

	if err := s.donationRepo.Create(ctx, donation); err != nil {
		return nil, err
	}

	order, err := s.provider.CreateOrder(ctx, &payment.OrderRequest{
		Amount:   donation.Amount,
		Currency: currency,
		Receipt:  donation.ID.Hex(),
		Notes: map[string]string{
			"donor":   donor,
			"purpose": request.Purpose,
		},
	})
	if err != nil {
		if markErr := s.donationRepo.Update(ctx, donation.ID, map[string]interface{}{
			"status": models.DonationStatusFailed,
		}); markErr != nil {
			s.logger.WithError(markErr).Warn("Failed to mark donation failed")
		}
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	donation.OrderID = order.OrderID
	if err := s.donationRepo.Update(ctx, donation.ID, map[string]interface{}{"order_id": order.OrderID}); err != nil {
		return nil, err
	}

	return &models.CreateDonationResponse{
		DonationID: donation.ID.Hex(),
		OrderID:    order.OrderID,
		Amount:     donation.Amount,
		Currency:   currency,
		Provider:   donation.Provider,
	}, nil
}

func (s *donationService) ListDonations(ctx context.Context, params *utils.PaginationParams) ([]*models.Donation, int64, error) {
	return s.donationRepo.List(ctx, params)
}

func (s *donationService) TotalRaised(ctx context.Context) (int64, error) {
	return s.donationRepo.TotalPaid(ctx)
}

func (s *donationService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !s.provider.VerifyWebhookSignature(payload, signature) {
		return ErrInvalidSignature
	}

	var event struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					ID      string `json:"id"`
					OrderID string `json:"order_id"`
					Status  string `json:"status"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to decode webhook payload: %w", err)
	}

	entity := event.Payload.Payment.Entity
	if entity.OrderID == "" {
		s.logger.WithField("event", event.Event).Debug("Ignoring webhook without order id")
		return nil
	}

	switch event.Event {
	case "payment.captured":
		err := s.donationRepo.MarkPaid(ctx, entity.OrderID, entity.ID)
		if errors.Is(err, mongodb.ErrDonationNotFound) {
			return ErrDonationNotFound
		}
		if err == nil {
			s.logger.WithField("order_id", entity.OrderID).Info("Donation captured")
		}
		return err
	case "payment.failed":
		err := s.donationRepo.MarkFailed(ctx, entity.OrderID)
		if errors.Is(err, mongodb.ErrDonationNotFound) {
			return ErrDonationNotFound
		}
		return err
	default:
		return nil
	}
}
