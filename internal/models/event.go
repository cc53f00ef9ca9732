package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
)

// Event is a cleanup drive shown on the community map.
type Event struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Location    GeoPoint           `json:"location" bson:"location"`
	PlaceName   string             `json:"place_name" bson:"place_name"`
	Status      EventStatus        `json:"status" bson:"status"`
	StartsAt    *time.Time         `json:"starts_at,omitempty" bson:"starts_at,omitempty"`
	CreatedBy   string             `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

type CreateEventRequest struct {
	Name        string     `json:"name" binding:"required,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	Location    GeoPoint   `json:"location" binding:"required"`
	PlaceName   string     `json:"place_name"`
	StartsAt    *time.Time `json:"starts_at"`
}

// MapPin is a fixed marker shown on the events map regardless of
// stored events.
type MapPin struct {
	Name     string   `json:"name"`
	Location GeoPoint `json:"location"`
}
