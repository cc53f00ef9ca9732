package interfaces

import (
	"context"

	"cleanwave/internal/models"
	"cleanwave/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateMany(ctx context.Context, notifications []*models.Notification) error
	ListByUser(ctx context.Context, userEmail string, params *utils.PaginationParams) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, userEmail string) error
	MarkAllRead(ctx context.Context, userEmail string) error
	CountUnread(ctx context.Context, userEmail string) (int64, error)
}
