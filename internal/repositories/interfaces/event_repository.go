package interfaces

import (
	"context"

	"cleanwave/internal/models"
	"cleanwave/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Event, int64, error)
	ListByStatus(ctx context.Context, status models.EventStatus) ([]*models.Event, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}
