package services

import (
	"context"
	"testing"

	"cleanwave/internal/models"
	"cleanwave/internal/repositories/mongodb"
	"cleanwave/internal/utils"
	"cleanwave/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeChallengeRepo struct {
	challenges map[primitive.ObjectID]*models.Challenge
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: make(map[primitive.ObjectID]*models.Challenge)}
}

func (f *fakeChallengeRepo) Create(ctx context.Context, challenge *models.Challenge) error {
	challenge.ID = primitive.NewObjectID()
	f.challenges[challenge.ID] = challenge
	return nil
}

func (f *fakeChallengeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error) {
	challenge, ok := f.challenges[id]
	if !ok {
		return nil, mongodb.ErrChallengeNotFound
	}
	return challenge, nil
}

func (f *fakeChallengeRepo) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Challenge, int64, error) {
	var out []*models.Challenge
	for _, c := range f.challenges {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeChallengeRepo) IncrementJoins(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error) {
	challenge, ok := f.challenges[id]
	if !ok {
		return nil, mongodb.ErrChallengeNotFound
	}
	challenge.Joins++
	return challenge, nil
}

func (f *fakeChallengeRepo) IncrementVotes(ctx context.Context, id primitive.ObjectID) (*models.Challenge, error) {
	challenge, ok := f.challenges[id]
	if !ok {
		return nil, mongodb.ErrChallengeNotFound
	}
	challenge.Votes++
	return challenge, nil
}

func (f *fakeChallengeRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return nil
}

func (f *fakeChallengeRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.challenges[id]; !ok {
		return mongodb.ErrChallengeNotFound
	}
	delete(f.challenges, id)
	return nil
}

func (f *fakeChallengeRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.challenges)), nil
}

type recordingChallengeBroadcaster struct {
	updates []map[string]interface{}
}

func (r *recordingChallengeBroadcaster) BroadcastChallengeUpdate(data map[string]interface{}) {
	r.updates = append(r.updates, data)
}

func TestJoinChallengeAwardsPoints(t *testing.T) {
	repo := newFakeChallengeRepo()
	userRepo := newFakeUserRepo()
	require.NoError(t, userRepo.Create(context.Background(), &models.User{Email: "a@x.com"}))

	leaderboard := NewLeaderboardService(userRepo, nil, logger.Default())
	broadcaster := &recordingChallengeBroadcaster{}
	svc := NewChallengeService(repo, leaderboard, broadcaster, logger.Default())

	challenge, err := svc.CreateChallenge(context.Background(), &models.CreateChallengeRequest{
		Name: "Bottle Cap Mosaic",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeStatusOngoing, challenge.Status)

	joined, err := svc.Join(context.Background(), challenge.ID, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), joined.Joins)
	assert.Equal(t, int64(utils.PointsPerChallengeJoin), userRepo.users["a@x.com"].Points)
	require.Len(t, broadcaster.updates, 1)
	assert.Equal(t, int64(1), broadcaster.updates[0]["joins"])
}

func TestVoteChallenge(t *testing.T) {
	repo := newFakeChallengeRepo()
	userRepo := newFakeUserRepo()
	require.NoError(t, userRepo.Create(context.Background(), &models.User{Email: "a@x.com"}))

	leaderboard := NewLeaderboardService(userRepo, nil, logger.Default())
	svc := NewChallengeService(repo, leaderboard, nil, logger.Default())

	challenge, err := svc.CreateChallenge(context.Background(), &models.CreateChallengeRequest{Name: "Eco Art"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = svc.Vote(context.Background(), challenge.ID, "a@x.com")
		require.NoError(t, err)
	}

	voted, err := svc.GetChallenge(context.Background(), challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), voted.Votes)
	assert.Equal(t, int64(3*utils.PointsPerVote), userRepo.users["a@x.com"].Points)
}

func TestJoinUnknownChallenge(t *testing.T) {
	svc := NewChallengeService(newFakeChallengeRepo(), NewLeaderboardService(newFakeUserRepo(), nil, logger.Default()), nil, logger.Default())

	_, err := svc.Join(context.Background(), primitive.NewObjectID(), "a@x.com")
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestLeaderboardFallsBackToDatabase(t *testing.T) {
	userRepo := newFakeUserRepo()
	for _, u := range []struct {
		email  string
		points int64
	}{
		{"gold@x.com", 300},
		{"silver@x.com", 200},
		{"bronze@x.com", 100},
		{"zero@x.com", 0},
	} {
		user := &models.User{Email: u.email, Points: u.points}
		require.NoError(t, userRepo.Create(context.Background(), user))
	}

	leaderboard := NewLeaderboardService(userRepo, nil, logger.Default())

	entries, err := leaderboard.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3, "zero-point users stay off the board")
	assert.Equal(t, "gold@x.com", entries[0].Email)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, int64(300), entries[0].Score)
	assert.Equal(t, "bronze@x.com", entries[2].Email)
}

func TestAwardPointsSkipsAnonymous(t *testing.T) {
	userRepo := newFakeUserRepo()
	leaderboard := NewLeaderboardService(userRepo, nil, logger.Default())

	require.NoError(t, leaderboard.AwardPoints(context.Background(), models.AnonymousSender, 10))
	require.NoError(t, leaderboard.AwardPoints(context.Background(), "", 10))
	assert.Empty(t, userRepo.users)
}
