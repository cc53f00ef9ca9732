package interfaces

import (
	"context"

	"cleanwave/internal/models"
	"cleanwave/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Post, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Like toggles are atomic; the liked_by set keeps likes idempotent
	// per user.
	Like(ctx context.Context, id primitive.ObjectID, userEmail string) (bool, error)
	Unlike(ctx context.Context, id primitive.ObjectID, userEmail string) (bool, error)
	AddComment(ctx context.Context, id primitive.ObjectID, comment *models.Comment) error

	Count(ctx context.Context) (int64, error)
}
