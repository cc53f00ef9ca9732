package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cleanwave/internal/models"
	"cleanwave/internal/repositories/interfaces"
	"cleanwave/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrChallengeNotFound = errors.New("challenge not found")

type challengeRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewChallengeRepository(db *mongo.Database, cache CacheService) interfaces.ChallengeRepository {
	return &challengeRepository{
		collection: db.Collection("challenges"),
		cache:      cache,
	}
}

func (r *challengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	challenge.ID = primitive.NewObjectID()
	challenge.CreatedAt = time.Now()
	challenge.LastUpdated = challenge.CreatedAt

	_, err := r.collection.InsertOne(ctx, challenge)
	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}

	return nil
}

func (r *challengeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&challenge)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	return &challenge, nil
}

func (r *challengeRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Challenge, int64, error) {
	filter := bson.M{}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count challenges: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer cursor.Close(ctx)

	var challenges []*models.Challenge
	if err := cursor.All(ctx, &challenges); err != nil {
		return nil, 0, fmt.Errorf("failed to decode challenges: %w", err)
	}

	return challenges, total, nil
}

// IncrementJoins bumps the counter server-side and returns the updated
// document, so concurrent joins from different clients all land.
func (r *challengeRepository) IncrementJoins(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error) {
	return r.increment(ctx, id, "joins")
}

func (r *challengeRepository) IncrementVotes(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error) {
	return r.increment(ctx, id, "votes")
}

func (r *challengeRepository) increment(ctx context.Context, id primitive.ObjectID, field string) (*models.Challenge, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var challenge models.Challenge
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{field: 1},
			"$set": bson.M{"last_updated": time.Now()},
		},
		opts,
	).Decode(&challenge)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to increment %s: %w", field, err)
	}

	return &challenge, nil
}

func (r *challengeRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["last_updated"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update challenge: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrChallengeNotFound
	}

	return nil
}

func (r *challengeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrChallengeNotFound
	}

	return nil
}

func (r *challengeRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
