package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cleanwave/internal/models"
	"cleanwave/internal/services"
	"cleanwave/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAlertService struct {
	latest *models.Alert
}

func (s *stubAlertService) TriggerSOS(ctx context.Context, sender string, request *models.TriggerAlertRequest) (*models.Alert, error) {
	if sender == "" {
		sender = models.AnonymousSender
	}
	location := request.Location
	if location == nil {
		location = &models.GeoPoint{Latitude: utils.FallbackLatitude, Longitude: utils.FallbackLongitude}
	}
	s.latest = &models.Alert{
		ID:        utils.AlertLatestKey,
		Sender:    sender,
		Location:  location,
		Status:    models.AlertStatusActive,
		Message:   request.Message,
		Timestamp: time.Now(),
	}
	return s.latest, nil
}

func (s *stubAlertService) Resolve(ctx context.Context, resolver string, isAdmin bool, request *models.ResolveAlertRequest) (*models.Alert, error) {
	if s.latest == nil {
		return nil, services.ErrNoActiveAlert
	}
	if s.latest.Resolved() {
		return nil, services.ErrAlertAlreadyResolved
	}
	if resolver != s.latest.Sender && !isAdmin {
		return nil, services.ErrNotAlertSender
	}
	now := time.Now()
	s.latest.Status = models.AlertStatusResolved
	s.latest.HelpedBy = resolver
	s.latest.HelpedAt = &now
	return s.latest, nil
}

func (s *stubAlertService) Latest(ctx context.Context) (*models.Alert, error) {
	if s.latest == nil {
		return nil, services.ErrNoActiveAlert
	}
	return s.latest, nil
}

func (s *stubAlertService) History(ctx context.Context, params *utils.PaginationParams) ([]*models.AlertHistoryEntry, int64, error) {
	return nil, 0, nil
}

func setupAlertRouter(svc services.AlertService, identity string, admin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	identityMiddleware := func(c *gin.Context) {
		if identity != "" {
			c.Set("email", identity)
			if admin {
				c.Set("role", string(models.UserRoleAdmin))
			} else {
				c.Set("role", string(models.UserRoleVolunteer))
			}
		}
		c.Next()
	}

	handler := NewAlertHandler(svc)
	router.POST("/sos", identityMiddleware, handler.TriggerSOS)
	router.POST("/sos/resolve", identityMiddleware, handler.Resolve)
	router.GET("/sos/latest", handler.GetLatest)

	return router
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()

	var response utils.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func TestTriggerSOSEndpoint(t *testing.T) {
	stub := &stubAlertService{}
	router := setupAlertRouter(stub, "a@x.com", false)

	body := bytes.NewBufferString(`{"location":{"lat":19.1,"lng":72.8},"message":"help"}`)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/sos", body)
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusCreated, recorder.Code)

	response := decodeResponse(t, recorder)
	assert.Equal(t, utils.StatusSuccess, response.Status)

	data := response.Data.(map[string]interface{})
	assert.Equal(t, "a@x.com", data["sender"])
	assert.Equal(t, "active", data["status"])
	assert.Equal(t, false, data["resolved"])
}

func TestTriggerSOSEmptyBody(t *testing.T) {
	stub := &stubAlertService{}
	router := setupAlertRouter(stub, "", false)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/sos", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusCreated, recorder.Code)

	data := decodeResponse(t, recorder).Data.(map[string]interface{})
	assert.Equal(t, models.AnonymousSender, data["sender"])

	location := data["location"].(map[string]interface{})
	assert.InDelta(t, utils.FallbackLatitude, location["lat"].(float64), 1e-9)
	assert.InDelta(t, utils.FallbackLongitude, location["lng"].(float64), 1e-9)
}

func TestResolveEndpointForbiddenForOtherUser(t *testing.T) {
	stub := &stubAlertService{}
	triggerRouter := setupAlertRouter(stub, "a@x.com", false)

	recorder := httptest.NewRecorder()
	triggerRouter.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/sos", nil))
	require.Equal(t, http.StatusCreated, recorder.Code)

	resolveRouter := setupAlertRouter(stub, "b@x.com", false)
	recorder = httptest.NewRecorder()
	resolveRouter.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/sos/resolve", nil))

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestResolveEndpointAdminOverride(t *testing.T) {
	stub := &stubAlertService{}
	triggerRouter := setupAlertRouter(stub, "a@x.com", false)

	recorder := httptest.NewRecorder()
	triggerRouter.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/sos", nil))
	require.Equal(t, http.StatusCreated, recorder.Code)

	adminRouter := setupAlertRouter(stub, "admin@x.com", true)
	recorder = httptest.NewRecorder()
	adminRouter.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/sos/resolve", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	data := decodeResponse(t, recorder).Data.(map[string]interface{})
	assert.Equal(t, "resolved", data["status"])
	assert.Equal(t, true, data["resolved"])
	assert.Equal(t, "admin@x.com", data["helped_by"])
}

func TestResolveEndpointNoAlert(t *testing.T) {
	router := setupAlertRouter(&stubAlertService{}, "a@x.com", false)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/sos/resolve", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestLatestEndpointNoAlert(t *testing.T) {
	router := setupAlertRouter(&stubAlertService{}, "", false)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/sos/latest", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
