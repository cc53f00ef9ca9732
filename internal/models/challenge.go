package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChallengeStatus string

const (
	ChallengeStatusOngoing   ChallengeStatus = "ongoing"
	ChallengeStatusUpcoming  ChallengeStatus = "upcoming"
	ChallengeStatusCompleted ChallengeStatus = "completed"
)

// Challenge is a gamified waste-craft contest. Joins and votes are
// plain counters bumped with atomic increments.
type Challenge struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Status      ChallengeStatus    `json:"status" bson:"status"`
	ImageURL    string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Joins       int64              `json:"joins" bson:"joins"`
	Votes       int64              `json:"votes" bson:"votes"`
	LastUpdated time.Time          `json:"last_updated" bson:"last_updated"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

type CreateChallengeRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Status      ChallengeStatus `json:"status" binding:"omitempty,oneof=ongoing upcoming completed"`
	ImageURL    string          `json:"image_url"`
}

// LeaderboardEntry is one row of the points table.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	DisplayName string `json:"display_name"`
	Email       string `json:"-"`
	Score       int64  `json:"score"`
}
