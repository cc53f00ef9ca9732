package interfaces

import (
	"context"

	"cleanwave/internal/models"
	"cleanwave/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationRepository interface {
	Create(ctx context.Context, donation *models.Donation) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Donation, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.Donation, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	MarkPaid(ctx context.Context, orderID, paymentID string) error
	MarkFailed(ctx context.Context, orderID string) error
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Donation, int64, error)
	TotalPaid(ctx context.Context) (int64, error)
}
