package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationStatus string

const (
	DonationStatusCreated DonationStatus = "created"
	DonationStatusPaid    DonationStatus = "paid"
	DonationStatusFailed  DonationStatus = "failed"
)

type Donation struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Donor     string             `json:"donor" bson:"donor"`
	Amount    int64              `json:"amount" bson:"amount"` // smallest currency unit (paise)
	Currency  string             `json:"currency" bson:"currency"`
	Provider  string             `json:"provider" bson:"provider"`
	OrderID   string             `json:"order_id" bson:"order_id"`
	PaymentID string             `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
	Status    DonationStatus     `json:"status" bson:"status"`
	Purpose   string             `json:"purpose,omitempty" bson:"purpose,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

type CreateDonationRequest struct {
	Amount   int64  `json:"amount" binding:"required,min=100"`
	Currency string `json:"currency"`
	Purpose  string `json:"purpose"`
}

type CreateDonationResponse struct {
	DonationID string `json:"donation_id"`
	OrderID    string `json:"order_id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Provider   string `json:"provider"`
}
