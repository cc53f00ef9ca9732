package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeSOSAlert    NotificationType = "sos_alert"
	NotificationTypeSOSResolved NotificationType = "sos_resolved"
	NotificationTypePost        NotificationType = "post_created"
	NotificationTypeChallenge   NotificationType = "challenge_update"
)

// Notification is the persisted per-user record backing the unread
// badge; live delivery goes over the websocket hub.
type Notification struct {
	ID        primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	UserEmail string                 `json:"user_email" bson:"user_email"`
	Type      NotificationType       `json:"type" bson:"type"`
	Title     string                 `json:"title" bson:"title"`
	Body      string                 `json:"body" bson:"body"`
	Data      map[string]interface{} `json:"data,omitempty" bson:"data,omitempty"`
	Read      bool                   `json:"read" bson:"read"`
	CreatedAt time.Time              `json:"created_at" bson:"created_at"`
}
