package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AlertStatus string

const (
	AlertStatusActive   AlertStatus = "active"
	AlertStatusResolved AlertStatus = "resolved"
)

// AnonymousSender is stored when an alert is raised without an
// authenticated session.
const AnonymousSender = "Anonymous"

// Alert is the shared SOS record. One mutable copy lives at a fixed
// key ("latest") and is fully overwritten by every new trigger; an
// append-only copy goes to the history collection.
type Alert struct {
	ID           string      `json:"id" bson:"_id"`
	Sender       string      `json:"sender" bson:"sender"`
	Location     *GeoPoint   `json:"location" bson:"location"`
	LocationName string      `json:"location_name,omitempty" bson:"location_name,omitempty"`
	Status       AlertStatus `json:"status" bson:"status"`
	Message      string      `json:"message,omitempty" bson:"message,omitempty"`
	HelpedBy     string      `json:"helped_by,omitempty" bson:"helped_by,omitempty"`
	HelpedAt     *time.Time  `json:"helped_at,omitempty" bson:"helped_at,omitempty"`
	Timestamp    time.Time   `json:"timestamp" bson:"timestamp"`
}

// Resolved is derived from Status so the two can never disagree.
func (a *Alert) Resolved() bool {
	return a.Status == AlertStatusResolved
}

func (a *Alert) Active() bool {
	return a.Status == AlertStatusActive
}

type GeoPoint struct {
	Latitude  float64 `json:"lat" bson:"lat"`
	Longitude float64 `json:"lng" bson:"lng"`
}

// AlertHistoryEntry is the immutable per-trigger record kept alongside
// the single latest slot.
type AlertHistoryEntry struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Sender    string             `json:"sender" bson:"sender"`
	Location  *GeoPoint          `json:"location" bson:"location"`
	Status    AlertStatus        `json:"status" bson:"status"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

type TriggerAlertRequest struct {
	Location *GeoPoint `json:"location"`
	Message  string    `json:"message"`
}

type ResolveAlertRequest struct {
	Note string `json:"note"`
}

// AlertWire is the JSON shape sent to clients; it carries the derived
// resolved flag that older clients still read.
type AlertWire struct {
	ID           string      `json:"id"`
	Sender       string      `json:"sender"`
	Location     *GeoPoint   `json:"location"`
	LocationName string      `json:"location_name,omitempty"`
	Status       AlertStatus `json:"status"`
	Message      string      `json:"message,omitempty"`
	HelpedBy     string      `json:"helped_by,omitempty"`
	HelpedAt     *time.Time  `json:"helped_at,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	Resolved     bool        `json:"resolved"`
}

func (a *Alert) Wire() *AlertWire {
	return &AlertWire{
		ID:           a.ID,
		Sender:       a.Sender,
		Location:     a.Location,
		LocationName: a.LocationName,
		Status:       a.Status,
		Message:      a.Message,
		HelpedBy:     a.HelpedBy,
		HelpedAt:     a.HelpedAt,
		Timestamp:    a.Timestamp,
		Resolved:     a.Resolved(),
	}
}
