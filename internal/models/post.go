package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthorID  primitive.ObjectID `json:"author_id" bson:"author_id"`
	Author    string             `json:"author" bson:"author"`
	Content   string             `json:"content" bson:"content"`
	Location  string             `json:"location,omitempty" bson:"location,omitempty"`
	ImageURL  string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Likes     int64              `json:"likes" bson:"likes"`
	LikedBy   []string           `json:"-" bson:"liked_by,omitempty"`
	Comments  []Comment          `json:"comments" bson:"comments"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Author    string             `json:"author" bson:"author"`
	Text      string             `json:"text" bson:"text"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

type CreatePostRequest struct {
	Content  string `form:"content" binding:"required,max=2000"`
	Location string `form:"location" binding:"max=200"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required,max=1000"`
}
