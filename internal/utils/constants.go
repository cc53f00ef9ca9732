package utils

import "time"

// Application Constants
const (
	AppName    = "CleanWave"
	AppVersion = "1.0.0"

	// Default values
	DefaultLanguage = "en"
	DefaultCurrency = "INR"
	DefaultTimeZone = "Asia/Kolkata"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour
	PasswordMinLength  = 8
	PasswordMaxLength  = 128

	// SOS
	AlertLatestKey     = "latest"
	UnknownLocation    = "Unknown location"
	GeocodeTimeout     = 10 * time.Second
	EscalationTimeout  = 15 * time.Second
	AlertHistoryWindow = 30 * 24 * time.Hour

	// File Upload
	MaxImageSize = 5 * 1024 * 1024 // 5MB

	// Donations
	MinDonationAmount = 100     // paise
	MaxDonationAmount = 1000000 // paise

	// Leaderboard
	PointsPerPost          = 10
	PointsPerChallengeJoin = 20
	PointsPerVote          = 5
	LeaderboardDefaultSize = 10

	// Notification
	NotificationTimeout = 30 * time.Second

	// Response statuses
	StatusSuccess = "success"
	StatusError   = "error"
)

// Fallback coordinate stored when a trigger arrives without
// geolocation (Mumbai city centre).
const (
	FallbackLatitude  = 19.0760
	FallbackLongitude = 72.8777
)

// Error Messages
const (
	ErrInternalServer   = "Internal server error"
	ErrValidationFailed = "Validation failed"
	ErrUnauthorized     = "Unauthorized access"
	ErrForbidden        = "Access forbidden"
	ErrNotFound         = "Resource not found"
)
