package handlers

import (
	"errors"
	"net/http"

	"cleanwave/internal/middleware"
	"cleanwave/internal/models"
	"cleanwave/internal/services"
	"cleanwave/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostHandler struct {
	postService services.PostService
}

func NewPostHandler(postService services.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// CreatePost accepts multipart form data with an optional image part.
func (h *PostHandler) CreatePost(c *gin.Context) {
	var request models.CreatePostRequest
	if err := c.ShouldBind(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	var image *services.ImageUpload
	if file, header, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		image = &services.ImageUpload{
			Reader:      file,
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
		}
	}

	post, err := h.postService.CreatePost(c.Request.Context(), middleware.UserEmail(c), "", &request, image)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "POST_CREATE_FAILED", "Failed to create post: "+err.Error())
		return
	}

	utils.CreatedResponse(c, "Post created", post)
}

func (h *PostHandler) ListPosts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	posts, total, err := h.postService.ListPosts(c.Request.Context(), params)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Posts", posts, &utils.Meta{
		Pagination: utils.NewPaginationMeta(params, total),
	})
}

func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	post, err := h.postService.GetPost(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			utils.NotFoundResponse(c, "Post not found")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Post", post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	err := h.postService.DeletePost(c.Request.Context(), id, middleware.UserEmail(c), middleware.IsAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPostNotFound):
			utils.NotFoundResponse(c, "Post not found")
		case errors.Is(err, services.ErrNotPostAuthor):
			utils.ForbiddenResponse(c, "Only the author can delete this post")
		default:
			utils.InternalServerErrorResponse(c)
		}
		return
	}

	utils.SuccessResponse(c, "Post deleted", nil)
}

func (h *PostHandler) LikePost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	post, err := h.postService.LikePost(c.Request.Context(), id, middleware.UserEmail(c))
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			utils.NotFoundResponse(c, "Post not found")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Post liked", post)
}

func (h *PostHandler) UnlikePost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	post, err := h.postService.UnlikePost(c.Request.Context(), id, middleware.UserEmail(c))
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			utils.NotFoundResponse(c, "Post not found")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Post unliked", post)
}

func (h *PostHandler) AddComment(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	var request models.CommentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	post, err := h.postService.AddComment(c.Request.Context(), id, middleware.UserEmail(c), &request)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			utils.NotFoundResponse(c, "Post not found")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Comment added", post)
}

func (h *PostHandler) postID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid post ID")
		return primitive.NilObjectID, false
	}

	return id, true
}
