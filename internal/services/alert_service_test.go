package services

import (
	"context"
	"errors"
	"testing"

	"cleanwave/internal/models"
	"cleanwave/internal/repositories/mongodb"
	"cleanwave/internal/utils"
	"cleanwave/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAlertRepo struct {
	latest  *models.Alert
	history []*models.AlertHistoryEntry
}

func (f *fakeAlertRepo) SetLatest(ctx context.Context, alert *models.Alert) error {
	alert.ID = utils.AlertLatestKey
	copied := *alert
	f.latest = &copied
	return nil
}

func (f *fakeAlertRepo) GetLatest(ctx context.Context) (*models.Alert, error) {
	if f.latest == nil {
		return nil, mongodb.ErrNoAlert
	}
	copied := *f.latest
	return &copied, nil
}

func (f *fakeAlertRepo) UpdateLatest(ctx context.Context, updates map[string]interface{}) error {
	if f.latest == nil {
		return mongodb.ErrNoAlert
	}
	if status, ok := updates["status"]; ok {
		f.latest.Status = status.(models.AlertStatus)
	}
	if helpedBy, ok := updates["helped_by"]; ok {
		f.latest.HelpedBy = helpedBy.(string)
	}
	if message, ok := updates["message"]; ok {
		f.latest.Message = message.(string)
	}
	if name, ok := updates["location_name"]; ok {
		f.latest.LocationName = name.(string)
	}
	return nil
}

func (f *fakeAlertRepo) AppendHistory(ctx context.Context, entry *models.AlertHistoryEntry) error {
	f.history = append(f.history, entry)
	return nil
}

func (f *fakeAlertRepo) ListHistory(ctx context.Context, params *utils.PaginationParams) ([]*models.AlertHistoryEntry, int64, error) {
	return f.history, int64(len(f.history)), nil
}

func (f *fakeAlertRepo) CountHistory(ctx context.Context) (int64, error) {
	return int64(len(f.history)), nil
}

type fakeGeocoder struct {
	name string
	err  error
}

func (f *fakeGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	return f.name, f.err
}

type recordingBroadcaster struct {
	alerts   []map[string]interface{}
	resolved []map[string]interface{}
}

func (r *recordingBroadcaster) BroadcastSOSAlert(data map[string]interface{}) {
	r.alerts = append(r.alerts, data)
}

func (r *recordingBroadcaster) BroadcastSOSResolved(data map[string]interface{}) {
	r.resolved = append(r.resolved, data)
}

func newTestAlertService(repo *fakeAlertRepo, geocoder *fakeGeocoder, broadcaster *recordingBroadcaster) AlertService {
	// A nil *recordingBroadcaster must become a nil interface, not a
	// typed-nil interface, so the service's nil check works.
	var b AlertBroadcaster
	if broadcaster != nil {
		b = broadcaster
	}
	return NewAlertService(repo, nil, nil, geocoder, nil, nil, b, nil, logger.Default())
}

func TestTriggerSOSAnonymousFallback(t *testing.T) {
	repo := &fakeAlertRepo{}
	svc := newTestAlertService(repo, &fakeGeocoder{name: "Juhu Beach, Mumbai"}, nil)

	alert, err := svc.TriggerSOS(context.Background(), "", &models.TriggerAlertRequest{
		Location: &models.GeoPoint{Latitude: 19.1, Longitude: 72.8},
	})

	require.NoError(t, err)
	assert.Equal(t, models.AnonymousSender, alert.Sender)
	assert.Equal(t, models.AlertStatusActive, alert.Status)
	assert.False(t, alert.Resolved())
}

func TestTriggerSOSFallbackCoordinate(t *testing.T) {
	repo := &fakeAlertRepo{}
	svc := newTestAlertService(repo, &fakeGeocoder{name: "Mumbai"}, nil)

	alert, err := svc.TriggerSOS(context.Background(), "a@x.com", &models.TriggerAlertRequest{})

	require.NoError(t, err)
	require.NotNil(t, alert.Location)
	assert.Equal(t, utils.FallbackLatitude, alert.Location.Latitude)
	assert.Equal(t, utils.FallbackLongitude, alert.Location.Longitude)
}

func TestTriggerSOSGeocodeFailure(t *testing.T) {
	repo := &fakeAlertRepo{}
	svc := newTestAlertService(repo, &fakeGeocoder{err: errors.New("timeout")}, nil)

	alert, err := svc.TriggerSOS(context.Background(), "a@x.com", &models.TriggerAlertRequest{
		Location: &models.GeoPoint{Latitude: 19.1, Longitude: 72.8},
	})

	require.NoError(t, err)
	assert.Equal(t, utils.UnknownLocation, alert.LocationName)
}

// orderCheckingGeocoder records whether the alert was already persisted
// when the reverse geocode ran.
type orderCheckingGeocoder struct {
	repo        *fakeAlertRepo
	alertStored bool
}

func (g *orderCheckingGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	g.alertStored = g.repo.latest != nil
	return "Juhu Beach", nil
}

func TestTriggerSOSStoresAlertBeforeGeocode(t *testing.T) {
	repo := &fakeAlertRepo{}
	geocoder := &orderCheckingGeocoder{repo: repo}
	svc := NewAlertService(repo, nil, nil, geocoder, nil, nil, nil, nil, logger.Default())

	alert, err := svc.TriggerSOS(context.Background(), "a@x.com", &models.TriggerAlertRequest{
		Location: &models.GeoPoint{Latitude: 19.1, Longitude: 72.8},
	})

	require.NoError(t, err)
	assert.True(t, geocoder.alertStored, "a slow geocoder must not delay the alert write")
	assert.Equal(t, "Juhu Beach", alert.LocationName)

	latest, err := svc.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Juhu Beach", latest.LocationName)
}

func TestTriggerSOSOverwritesPreviousAlert(t *testing.T) {
	repo := &fakeAlertRepo{}
	broadcaster := &recordingBroadcaster{}
	svc := newTestAlertService(repo, &fakeGeocoder{name: "Versova"}, broadcaster)

	_, err := svc.TriggerSOS(context.Background(), "first@x.com", &models.TriggerAlertRequest{
		Location: &models.GeoPoint{Latitude: 19.13, Longitude: 72.81},
		Message:  "injured near the rocks",
	})
	require.NoError(t, err)

	second, err := svc.TriggerSOS(context.Background(), "second@x.com", &models.TriggerAlertRequest{
		Location: &models.GeoPoint{Latitude: 18.94, Longitude: 72.82},
	})
	require.NoError(t, err)

	latest, err := svc.Latest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "second@x.com", latest.Sender)
	assert.Equal(t, second.Location.Latitude, latest.Location.Latitude)
	assert.Empty(t, latest.Message, "fields from the first alert must not leak into the second")
	assert.Equal(t, models.AlertStatusActive, latest.Status)
	assert.Len(t, broadcaster.alerts, 2)
	assert.Len(t, repo.history, 2)
}

func TestTriggerSOSOverwritesResolvedAlert(t *testing.T) {
	repo := &fakeAlertRepo{}
	svc := newTestAlertService(repo, &fakeGeocoder{name: "Marine Lines"}, nil)

	_, err := svc.TriggerSOS(context.Background(), "a@x.com", &models.TriggerAlertRequest{
		Location: &models.GeoPoint{Latitude: 19.1, Longitude: 72.8},
	})
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), "a@x.com", false, nil)
	require.NoError(t, err)

	alert, err := svc.TriggerSOS(context.Background(), "b@x.com", &models.TriggerAlertRequest{
		Location: &models.GeoPoint{Latitude: 19.2, Longitude: 72.9},
	})
	require.NoError(t, err)

	assert.Equal(t, models.AlertStatusActive, alert.Status)
	assert.Empty(t, alert.HelpedBy, "resolution fields must not survive an overwrite")
}

func TestResolveRequiresExactSenderMatch(t *testing.T) {
	tests := []struct {
		name     string
		sender   string
		resolver string
		isAdmin  bool
		wantErr  error
	}{
		{"exact match", "a@x.com", "a@x.com", false, nil},
		{"different user", "a@x.com", "b@x.com", false, ErrNotAlertSender},
		{"case differs", "a@x.com", "A@x.com", false, ErrNotAlertSender},
		{"admin override", "a@x.com", "admin@x.com", true, nil},
		{"anonymous sender, other volunteer", "Anonymous", "b@x.com", false, ErrNotAlertSender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAlertRepo{}
			svc := newTestAlertService(repo, &fakeGeocoder{name: "Juhu"}, nil)

			_, err := svc.TriggerSOS(context.Background(), tt.sender, &models.TriggerAlertRequest{
				Location: &models.GeoPoint{Latitude: 19.1, Longitude: 72.8},
			})
			require.NoError(t, err)

			alert, err := svc.Resolve(context.Background(), tt.resolver, tt.isAdmin, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				latest, _ := svc.Latest(context.Background())
				assert.Equal(t, models.AlertStatusActive, latest.Status, "failed resolve must not change the alert")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, models.AlertStatusResolved, alert.Status)
			assert.True(t, alert.Resolved())
			assert.Equal(t, tt.resolver, alert.HelpedBy)
		})
	}
}

func TestResolvePreservesAlertFields(t *testing.T) {
	repo := &fakeAlertRepo{}
	broadcaster := &recordingBroadcaster{}
	svc := newTestAlertService(repo, &fakeGeocoder{name: "Versova Beach"}, broadcaster)

	triggered, err := svc.TriggerSOS(context.Background(), "a@x.com", &models.TriggerAlertRequest{
		Location: &models.GeoPoint{Latitude: 19.13, Longitude: 72.81},
	})
	require.NoError(t, err)

	resolved, err := svc.Resolve(context.Background(), "a@x.com", false, nil)
	require.NoError(t, err)

	// Resolution is a merge, not an overwrite.
	assert.Equal(t, triggered.Sender, resolved.Sender)
	assert.Equal(t, triggered.Location.Latitude, resolved.Location.Latitude)
	assert.Equal(t, triggered.Timestamp, resolved.Timestamp)
	assert.NotNil(t, resolved.HelpedAt)
	assert.Len(t, broadcaster.resolved, 1)
	assert.Equal(t, true, broadcaster.resolved[0]["resolved"])
}

func TestResolveWithoutAlert(t *testing.T) {
	svc := newTestAlertService(&fakeAlertRepo{}, &fakeGeocoder{}, nil)

	_, err := svc.Resolve(context.Background(), "a@x.com", false, nil)
	assert.ErrorIs(t, err, ErrNoActiveAlert)
}

func TestResolveAlreadyResolved(t *testing.T) {
	repo := &fakeAlertRepo{}
	svc := newTestAlertService(repo, &fakeGeocoder{name: "Juhu"}, nil)

	_, err := svc.TriggerSOS(context.Background(), "a@x.com", &models.TriggerAlertRequest{
		Location: &models.GeoPoint{Latitude: 19.1, Longitude: 72.8},
	})
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), "a@x.com", false, nil)
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), "a@x.com", false, nil)
	assert.ErrorIs(t, err, ErrAlertAlreadyResolved)
}

func TestLatestWithoutAlert(t *testing.T) {
	svc := newTestAlertService(&fakeAlertRepo{}, &fakeGeocoder{}, nil)

	_, err := svc.Latest(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveAlert)
}
