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

var ErrPostNotFound = errors.New("post not found")

type postRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewPostRepository(db *mongo.Database, cache CacheService) interfaces.PostRepository {
	return &postRepository{
		collection: db.Collection("posts"),
		cache:      cache,
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.Timestamp = time.Now()
	post.UpdatedAt = post.Timestamp
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}

	_, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &post, nil
}

func (r *postRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Post, int64, error) {
	filter := bson.M{}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.FindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []*models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, fmt.Errorf("failed to decode posts: %w", err)
	}

	return posts, total, nil
}

func (r *postRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrPostNotFound
	}

	return nil
}

// Like adds the user to liked_by and bumps the counter in one update.
// The liked_by guard in the filter keeps a double-tap from counting
// twice. Returns false when the user had already liked the post.
func (r *postRepository) Like(ctx context.Context, id primitive.ObjectID, userEmail string) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "liked_by": bson.M{"$ne": userEmail}},
		bson.M{
			"$addToSet": bson.M{"liked_by": userEmail},
			"$inc":      bson.M{"likes": 1},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to like post: %w", err)
	}

	return result.ModifiedCount > 0, nil
}

func (r *postRepository) Unlike(ctx context.Context, id primitive.ObjectID, userEmail string) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "liked_by": userEmail},
		bson.M{
			"$pull": bson.M{"liked_by": userEmail},
			"$inc":  bson.M{"likes": -1},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to unlike post: %w", err)
	}

	return result.ModifiedCount > 0, nil
}

func (r *postRepository) AddComment(ctx context.Context, id primitive.ObjectID, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.Timestamp = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"comments": comment},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
