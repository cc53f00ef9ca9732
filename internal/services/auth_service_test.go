package services

import (
	"context"
	"sort"
	"testing"

	"cleanwave/internal/models"
	"cleanwave/internal/repositories/mongodb"
	"cleanwave/internal/utils"
	"cleanwave/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, mongodb.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, mongodb.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	for _, user := range f.users {
		if user.GoogleID == googleID {
			return user, nil
		}
	}
	return nil, mongodb.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	user, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if googleID, ok := updates["google_id"].(string); ok {
		user.GoogleID = googleID
	}
	if verified, ok := updates["email_verified"].(bool); ok {
		user.EmailVerified = verified
	}
	return nil
}

func (f *fakeUserRepo) AddDeviceToken(ctx context.Context, id primitive.ObjectID, token models.DeviceToken) error {
	user, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	user.DeviceTokens = append(user.DeviceTokens, token)
	return nil
}

func (f *fakeUserRepo) RemoveDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return nil
}

func (f *fakeUserRepo) GetAllDeviceTokens(ctx context.Context) ([]models.DeviceToken, error) {
	var tokens []models.DeviceToken
	for _, user := range f.users {
		tokens = append(tokens, user.DeviceTokens...)
	}
	return tokens, nil
}

func (f *fakeUserRepo) IncrementPoints(ctx context.Context, email string, delta int64) error {
	if user, ok := f.users[email]; ok {
		user.Points += delta
	}
	return nil
}

func (f *fakeUserRepo) TopByPoints(ctx context.Context, limit int) ([]*models.User, error) {
	var users []*models.User
	for _, user := range f.users {
		if user.Points > 0 {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Points > users[j].Points })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (f *fakeUserRepo) List(ctx context.Context, params *utils.PaginationParams) ([]*models.User, int64, error) {
	var users []*models.User
	for _, user := range f.users {
		users = append(users, user)
	}
	return users, int64(len(users)), nil
}

func (f *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func TestRegisterCreatesVolunteer(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, nil, testJWTSecret, logger.Default())

	response, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:       "New@X.com",
		Password:    "hunter2hunter2",
		DisplayName: "New Volunteer",
	})

	require.NoError(t, err)
	assert.Equal(t, "new@x.com", response.User.Email, "email must be normalized on registration")
	assert.Equal(t, models.UserRoleVolunteer, response.User.Role)
	assert.True(t, response.IsNewUser)
	assert.NotEmpty(t, response.Tokens.AccessToken)

	// The stored hash must verify against the original password.
	stored := repo.users["new@x.com"]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2hunter2")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, nil, testJWTSecret, logger.Default())

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "a@x.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "a@x.com",
		Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, nil, testJWTSecret, logger.Default())

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "a@x.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		response, err := svc.Login(context.Background(), &models.LoginRequest{
			Email:    "a@x.com",
			Password: "hunter2hunter2",
		})
		require.NoError(t, err)

		claims, err := utils.ValidateToken(response.Tokens.AccessToken, testJWTSecret)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.Email)
		assert.Equal(t, string(models.UserRoleVolunteer), claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &models.LoginRequest{
			Email:    "a@x.com",
			Password: "wrong-password",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &models.LoginRequest{
			Email:    "nobody@x.com",
			Password: "hunter2hunter2",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, nil, testJWTSecret, logger.Default())

	registered, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "a@x.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), registered.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", refreshed.User.Email)
	assert.NotEmpty(t, refreshed.Tokens.AccessToken)

	_, err = svc.RefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDevice(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, nil, testJWTSecret, logger.Default())

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "a@x.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	err = svc.RegisterDevice(context.Background(), "a@x.com", &models.RegisterDeviceRequest{
		Token:    "fcm-token-1",
		Platform: "fcm",
	})
	require.NoError(t, err)

	tokens, err := repo.GetAllDeviceTokens(context.Background())
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "fcm-token-1", tokens[0].Token)
}
