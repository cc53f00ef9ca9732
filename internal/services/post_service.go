package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"cleanwave/internal/models"
	"cleanwave/internal/repositories/interfaces"
	"cleanwave/internal/repositories/mongodb"
	"cleanwave/internal/utils"
	"cleanwave/pkg/logger"
	"cleanwave/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrNotPostAuthor = errors.New("only the author can delete this post")
)

type PostBroadcaster interface {
	BroadcastPostCreated(data map[string]interface{})
}

// ImageUpload carries a multipart file from the handler to storage.
type ImageUpload struct {
	Reader      io.Reader
	FileName    string
	ContentType string
	Size        int64
}

type PostService interface {
	CreatePost(ctx context.Context, authorEmail, displayName string, request *models.CreatePostRequest, image *ImageUpload) (*models.Post, error)
	GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	ListPosts(ctx context.Context, params *utils.PaginationParams) ([]*models.Post, int64, error)
	DeletePost(ctx context.Context, id primitive.ObjectID, requester string, isAdmin bool) error
	LikePost(ctx context.Context, id primitive.ObjectID, userEmail string) (*models.Post, error)
	UnlikePost(ctx context.Context, id primitive.ObjectID, userEmail string) (*models.Post, error)
	AddComment(ctx context.Context, id primitive.ObjectID, author string, request *models.CommentRequest) (*models.Post, error)
}

type postService struct {
	postRepo    interfaces.PostRepository
	userRepo    interfaces.UserRepository
	storage     storage.Provider
	leaderboard LeaderboardService
	broadcaster PostBroadcaster
	logger      *logger.Logger
}

func NewPostService(
	postRepo interfaces.PostRepository,
	userRepo interfaces.UserRepository,
	storageProvider storage.Provider,
	leaderboard LeaderboardService,
	broadcaster PostBroadcaster,
	logger *logger.Logger,
) PostService {
	return &postService{
		postRepo:    postRepo,
		userRepo:    userRepo,
		storage:     storageProvider,
		leaderboard: leaderboard,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (s *postService) CreatePost(ctx context.Context, authorEmail, displayName string, request *models.CreatePostRequest, image *ImageUpload) (*models.Post, error) {
	user, err := s.userRepo.GetByEmail(ctx, authorEmail)
	if err != nil {
		return nil, err
	}

	if displayName == "" {
		displayName = user.DisplayName
	}

	post := &models.Post{
		AuthorID: user.ID,
		Author:   displayName,
		Content:  request.Content,
		Location: request.Location,
	}

	if image != nil && s.storage != nil {
		url, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, fmt.Errorf("failed to upload post image: %w", err)
		}
		post.ImageURL = url
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	if err := s.leaderboard.AwardPoints(ctx, authorEmail, utils.PointsPerPost); err != nil {
		s.logger.WithError(err).Warn("Failed to award post points")
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastPostCreated(map[string]interface{}{
			"id":        post.ID.Hex(),
			"author":    post.Author,
			"content":   post.Content,
			"image_url": post.ImageURL,
			"timestamp": post.Timestamp,
		})
	}

	return post, nil
}

func (s *postService) GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

func (s *postService) ListPosts(ctx context.Context, params *utils.PaginationParams) ([]*models.Post, int64, error) {
	return s.postRepo.List(ctx, params)
}

func (s *postService) DeletePost(ctx context.Context, id primitive.ObjectID, requester string, isAdmin bool) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, requester)
	if err != nil {
		return err
	}
	if post.AuthorID != user.ID && !isAdmin {
		return ErrNotPostAuthor
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	if post.ImageURL != "" && s.storage != nil {
		if err := s.storage.Delete(ctx, "posts/"+path.Base(post.ImageURL)); err != nil {
			s.logger.WithError(err).Warn("Failed to delete post image")
		}
	}

	return nil
}

func (s *postService) LikePost(ctx context.Context, id primitive.ObjectID, userEmail string) (*models.Post, error) {
	if _, err := s.postRepo.Like(ctx, id, userEmail); err != nil {
		return nil, err
	}

	return s.GetPost(ctx, id)
}

func (s *postService) UnlikePost(ctx context.Context, id primitive.ObjectID, userEmail string) (*models.Post, error) {
	if _, err := s.postRepo.Unlike(ctx, id, userEmail); err != nil {
		return nil, err
	}

	return s.GetPost(ctx, id)
}

func (s *postService) AddComment(ctx context.Context, id primitive.ObjectID, author string, request *models.CommentRequest) (*models.Post, error) {
	comment := &models.Comment{
		Author: author,
		Text:   request.Text,
	}

	if err := s.postRepo.AddComment(ctx, id, comment); err != nil {
		if errors.Is(err, mongodb.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return s.GetPost(ctx, id)
}

func (s *postService) uploadImage(ctx context.Context, image *ImageUpload) (string, error) {
	if image.Size > utils.MaxImageSize {
		return "", fmt.Errorf("image exceeds %d bytes", utils.MaxImageSize)
	}

	key := fmt.Sprintf("posts/%d%s", time.Now().UnixNano(), path.Ext(image.FileName))
	response, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:         key,
		Reader:      image.Reader,
		ContentType: image.ContentType,
		Size:        image.Size,
	})
	if err != nil {
		return "", err
	}

	return response.URL, nil
}
