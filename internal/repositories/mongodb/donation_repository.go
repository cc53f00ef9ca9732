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
)

var ErrDonationNotFound = errors.New("donation not found")

type donationRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewDonationRepository(db *mongo.Database, cache CacheService) interfaces.DonationRepository {
	return &donationRepository{
		collection: db.Collection("donations"),
		cache:      cache,
	}
}

func (r *donationRepository) Create(ctx context.Context, donation *models.Donation) error {
	donation.ID = primitive.NewObjectID()
	donation.CreatedAt = time.Now()
	donation.UpdatedAt = donation.CreatedAt

	_, err := r.collection.InsertOne(ctx, donation)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}

	return nil
}

func (r *donationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Donation, error) {
	var donation models.Donation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&donation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrDonationNotFound
		}
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}

	return &donation, nil
}

func (r *donationRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Donation, error) {
	var donation models.Donation
	err := r.collection.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&donation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrDonationNotFound
		}
		return nil, fmt.Errorf("failed to get donation by order: %w", err)
	}

	return &donation, nil
}

func (r *donationRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update donation: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrDonationNotFound
	}

	return nil
}

func (r *donationRepository) MarkPaid(ctx context.Context, orderID, paymentID string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"order_id": orderID},
		bson.M{"$set": bson.M{
			"status":     models.DonationStatusPaid,
			"payment_id": paymentID,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark donation paid: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrDonationNotFound
	}

	return nil
}

func (r *donationRepository) MarkFailed(ctx context.Context, orderID string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"order_id": orderID},
		bson.M{"$set": bson.M{
			"status":     models.DonationStatusFailed,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark donation failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrDonationNotFound
	}

	return nil
}

func (r *donationRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Donation, int64, error) {
	filter := bson.M{}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count donations: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list donations: %w", err)
	}
	defer cursor.Close(ctx)

	var donations []*models.Donation
	if err := cursor.All(ctx, &donations); err != nil {
		return nil, 0, fmt.Errorf("failed to decode donations: %w", err)
	}

	return donations, total, nil
}

func (r *donationRepository) TotalPaid(ctx context.Context) (int64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"status": models.DonationStatusPaid}},
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to total donations: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed to decode donation total: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}

	return results[0].Total, nil
}
