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

type notificationRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewNotificationRepository(db *mongo.Database, cache CacheService) interfaces.NotificationRepository {
	return &notificationRepository{
		collection: db.Collection("notifications"),
		cache:      cache,
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) CreateMany(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(notifications))
	now := time.Now()
	for _, n := range notifications {
		n.ID = primitive.NewObjectID()
		n.CreatedAt = now
		docs = append(docs, n)
	}

	_, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}

	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userEmail string, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	filter := bson.M{"user_email": userEmail}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []*models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, 0, fmt.Errorf("failed to decode notifications: %w", err)
	}

	return notifications, total, nil
}

// MarkRead scopes the update to the owner so one user cannot clear
// another user's badge.
func (r *notificationRepository) MarkRead(ctx context.Context, id primitive.ObjectID, userEmail string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "user_email": userEmail},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userEmail string) error {
	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{"user_email": userEmail, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userEmail string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_email": userEmail, "read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}
