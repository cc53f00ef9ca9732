package services

import (
	"context"
	"errors"
	"time"

	"cleanwave/internal/models"
	"cleanwave/internal/repositories/interfaces"
	"cleanwave/internal/repositories/mongodb"
	"cleanwave/internal/utils"
	"cleanwave/pkg/logger"
	"cleanwave/pkg/oauth"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService interface {
	Register(ctx context.Context, request *models.RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *models.LoginRequest) (*AuthResponse, error)
	GoogleLogin(ctx context.Context, request *models.GoogleLoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	RegisterDevice(ctx context.Context, email string, request *models.RegisterDeviceRequest) error
	GetProfile(ctx context.Context, email string) (*models.User, error)
}

type AuthResponse struct {
	User      *models.User     `json:"user"`
	Tokens    *utils.TokenPair `json:"tokens"`
	IsNewUser bool             `json:"is_new_user,omitempty"`
}

type authService struct {
	userRepo      interfaces.UserRepository
	oauthProvider oauth.Provider
	jwtSecret     string
	logger        *logger.Logger
}

func NewAuthService(userRepo interfaces.UserRepository, oauthProvider oauth.Provider, jwtSecret string, logger *logger.Logger) AuthService {
	return &authService{
		userRepo:      userRepo,
		oauthProvider: oauthProvider,
		jwtSecret:     jwtSecret,
		logger:        logger,
	}
}

func (s *authService) Register(ctx context.Context, request *models.RegisterRequest) (*AuthResponse, error) {
	email := utils.NormalizeEmail(request.Email)

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	displayName := request.DisplayName
	if displayName == "" {
		displayName = email
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         models.UserRoleVolunteer,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := utils.GenerateTokenPair(user.ID, user.Email, string(user.Role), s.jwtSecret)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("email", utils.MaskEmail(user.Email)).Info("User registered")

	return &AuthResponse{User: user, Tokens: tokens, IsNewUser: true}, nil
}

func (s *authService) Login(ctx context.Context, request *models.LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(request.Email))
	if err != nil {
		if errors.Is(err, mongodb.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		s.logger.WithError(err).Warn("Failed to record login time")
	}
	user.LastLoginAt = &now

	tokens, err := utils.GenerateTokenPair(user.ID, user.Email, string(user.Role), s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

// GoogleLogin exchanges the OAuth code and upserts the account. A
// returning Google user keeps their existing record; a new one gets a
// verified volunteer account with no password.
func (s *authService) GoogleLogin(ctx context.Context, request *models.GoogleLoginRequest) (*AuthResponse, error) {
	tokens, err := s.oauthProvider.ExchangeCode(ctx, request.Code)
	if err != nil {
		return nil, err
	}

	info, err := s.oauthProvider.GetUserInfo(ctx, tokens.AccessToken)
	if err != nil {
		return nil, err
	}

	isNew := false
	user, err := s.userRepo.GetByGoogleID(ctx, info.ID)
	if err != nil {
		if !errors.Is(err, mongodb.ErrUserNotFound) {
			return nil, err
		}

		email := utils.NormalizeEmail(info.Email)
		user, err = s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			if !errors.Is(err, mongodb.ErrUserNotFound) {
				return nil, err
			}

			user = &models.User{
				Email:         email,
				DisplayName:   info.Name,
				Role:          models.UserRoleVolunteer,
				EmailVerified: info.EmailVerified,
				GoogleID:      info.ID,
				AvatarURL:     info.Picture,
			}
			if err := s.userRepo.Create(ctx, user); err != nil {
				return nil, err
			}
			isNew = true
		} else {
			// Existing password account, first Google sign-in.
			if err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{
				"google_id":      info.ID,
				"email_verified": true,
			}); err != nil {
				return nil, err
			}
			user.GoogleID = info.ID
			user.EmailVerified = true
		}
	}

	pair, err := utils.GenerateTokenPair(user.ID, user.Email, string(user.Role), s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user, Tokens: pair, IsNewUser: isNew}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, mongodb.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	tokens, err := utils.GenerateTokenPair(user.ID, user.Email, string(user.Role), s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *authService) RegisterDevice(ctx context.Context, email string, request *models.RegisterDeviceRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongodb.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.userRepo.AddDeviceToken(ctx, user.ID, models.DeviceToken{
		Token:    request.Token,
		Platform: request.Platform,
	})
}

func (s *authService) GetProfile(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongodb.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}
