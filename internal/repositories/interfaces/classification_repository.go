package interfaces

import (
	"context"

	"cleanwave/internal/models"
	"cleanwave/internal/utils"
)

type ClassificationRepository interface {
	Create(ctx context.Context, classification *models.Classification) error
	ListByUser(ctx context.Context, userEmail string, params *utils.PaginationParams) ([]*models.Classification, int64, error)
	Count(ctx context.Context) (int64, error)
}
