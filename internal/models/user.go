package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	UserRoleVolunteer UserRole = "volunteer"
	UserRoleAdmin     UserRole = "admin"
)

type User struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email         string             `json:"email" bson:"email"`
	PasswordHash  string             `json:"-" bson:"password_hash"`
	DisplayName   string             `json:"display_name" bson:"display_name"`
	Role          UserRole           `json:"role" bson:"role"`
	EmailVerified bool               `json:"email_verified" bson:"email_verified"`
	GoogleID      string             `json:"-" bson:"google_id,omitempty"`
	AvatarURL     string             `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	Points        int64              `json:"points" bson:"points"`
	DeviceTokens  []DeviceToken      `json:"-" bson:"device_tokens,omitempty"`
	Phone         string             `json:"phone,omitempty" bson:"phone,omitempty"`
	LastLoginAt   *time.Time         `json:"last_login_at,omitempty" bson:"last_login_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// DeviceToken is a push target registered by a client.
type DeviceToken struct {
	Token    string `json:"token" bson:"token"`
	Platform string `json:"platform" bson:"platform"` // fcm or apns
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	Code        string `json:"code" binding:"required"`
	RedirectURI string `json:"redirect_uri"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"required,oneof=fcm apns"`
}
