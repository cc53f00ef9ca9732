package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Classification is one waste-classifier inference result.
type Classification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserEmail string             `json:"user_email" bson:"user_email"`
	Label     string             `json:"label" bson:"label"`
	Score     float64            `json:"score" bson:"score"`
	FileName  string             `json:"file_name,omitempty" bson:"file_name,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type ClassificationResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
