package mongodb

import (
	"context"
	"fmt"
	"time"

	"cleanwave/internal/models"
	"cleanwave/internal/repositories/interfaces"
	"cleanwave/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type classificationRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewClassificationRepository(db *mongo.Database, cache CacheService) interfaces.ClassificationRepository {
	return &classificationRepository{
		collection: db.Collection("classifications"),
		cache:      cache,
	}
}

func (r *classificationRepository) Create(ctx context.Context, classification *models.Classification) error {
	classification.ID = primitive.NewObjectID()
	classification.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, classification)
	if err != nil {
		return fmt.Errorf("failed to create classification: %w", err)
	}

	return nil
}

func (r *classificationRepository) ListByUser(ctx context.Context, userEmail string, params *utils.PaginationParams) ([]*models.Classification, int64, error) {
	filter := bson.M{"user_email": userEmail}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count classifications: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list classifications: %w", err)
	}
	defer cursor.Close(ctx)

	var classifications []*models.Classification
	if err := cursor.All(ctx, &classifications); err != nil {
		return nil, 0, fmt.Errorf("failed to decode classifications: %w", err)
	}

	return classifications, total, nil
}

func (r *classificationRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
