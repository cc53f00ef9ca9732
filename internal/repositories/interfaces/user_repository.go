package interfaces

import (
	"context"

	"cleanwave/internal/models"
	"cleanwave/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Devices
	AddDeviceToken(ctx context.Context, id primitive.ObjectID, token models.DeviceToken) error
	RemoveDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error
	GetAllDeviceTokens(ctx context.Context) ([]models.DeviceToken, error)

	// Gamification
	IncrementPoints(ctx context.Context, email string, delta int64) error
	TopByPoints(ctx context.Context, limit int) ([]*models.User, error)

	List(ctx context.Context, params *utils.PaginationParams) ([]*models.User, int64, error)
	Count(ctx context.Context) (int64, error)
}
