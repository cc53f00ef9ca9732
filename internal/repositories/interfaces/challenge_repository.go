package interfaces

import (
	"context"

	"cleanwave/internal/models"
	"cleanwave/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error)
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Challenge, int64, error)

	// Counter bumps are server-side $inc so concurrent joins and votes
	// never lose updates.
	IncrementJoins(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error)
	IncrementVotes(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error)

	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}
