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

// ErrNoAlert is returned when the latest slot has never been written.
var ErrNoAlert = errors.New("no alert in latest slot")

const alertCacheKey = "sos:latest"

type alertRepository struct {
	latest  *mongo.Collection
	history *mongo.Collection
	cache   CacheService
}

func NewAlertRepository(db *mongo.Database, cache CacheService) interfaces.AlertRepository {
	return &alertRepository{
		latest:  db.Collection("sos_alerts"),
		history: db.Collection("sos_history"),
		cache:   cache,
	}
}

// SetLatest replaces the whole document at the fixed key. ReplaceOne
// with upsert makes every trigger a full overwrite: fields from the
// previous alert never survive into the new one, and when two triggers
// race the later write is the one readers see.
func (r *alertRepository) SetLatest(ctx context.Context, alert *models.Alert) error {
	alert.ID = utils.AlertLatestKey

	_, err := r.latest.ReplaceOne(
		ctx,
		bson.M{"_id": utils.AlertLatestKey},
		alert,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to set latest alert: %w", err)
	}

	r.cacheAlert(ctx, alert)

	return nil
}

func (r *alertRepository) GetLatest(ctx context.Context) (*models.Alert, error) {
	if alert := r.alertFromCache(ctx); alert != nil {
		return alert, nil
	}

	var alert models.Alert
	err := r.latest.FindOne(ctx, bson.M{"_id": utils.AlertLatestKey}).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoAlert
		}
		return nil, fmt.Errorf("failed to get latest alert: %w", err)
	}

	r.cacheAlert(ctx, &alert)

	return &alert, nil
}

// UpdateLatest merges fields into the latest slot without touching the
// rest of the document. Resolution goes through here so the original
// sender, location, and timestamp survive.
func (r *alertRepository) UpdateLatest(ctx context.Context, updates map[string]interface{}) error {
	result, err := r.latest.UpdateOne(
		ctx,
		bson.M{"_id": utils.AlertLatestKey},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update latest alert: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNoAlert
	}

	if r.cache != nil {
		r.cache.Delete(ctx, alertCacheKey)
	}

	return nil
}

func (r *alertRepository) AppendHistory(ctx context.Context, entry *models.AlertHistoryEntry) error {
	entry.ID = primitive.NewObjectID()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_, err := r.history.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to append alert history: %w", err)
	}

	return nil
}

func (r *alertRepository) ListHistory(ctx context.Context, params *utils.PaginationParams) ([]*models.AlertHistoryEntry, int64, error) {
	filter := bson.M{}

	total, err := r.history.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count alert history: %w", err)
	}

	cursor, err := r.history.Find(ctx, filter, params.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list alert history: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*models.AlertHistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, fmt.Errorf("failed to decode alert history: %w", err)
	}

	return entries, total, nil
}

func (r *alertRepository) CountHistory(ctx context.Context) (int64, error) {
	return r.history.CountDocuments(ctx, bson.M{})
}

func (r *alertRepository) cacheAlert(ctx context.Context, alert *models.Alert) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, alertCacheKey, alert, 5*time.Minute)
}

func (r *alertRepository) alertFromCache(ctx context.Context) *models.Alert {
	if r.cache == nil {
		return nil
	}

	var alert models.Alert
	if err := r.cache.Get(ctx, alertCacheKey, &alert); err != nil {
		return nil
	}

	return &alert
}
