package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cleanwave/internal/models"
	"cleanwave/internal/repositories/interfaces"
	"cleanwave/internal/repositories/mongodb"
	"cleanwave/internal/utils"
	"cleanwave/pkg/geocode"
	"cleanwave/pkg/logger"
	"cleanwave/pkg/push"
	"cleanwave/pkg/sms"
)

var (
	ErrNoActiveAlert        = errors.New("no active alert")
	ErrAlertAlreadyResolved = errors.New("alert already resolved")
	ErrNotAlertSender       = errors.New("only the sender can resolve this alert")
)

// AlertBroadcaster is the live-delivery side of the SOS pipeline.
type AlertBroadcaster interface {
	BroadcastSOSAlert(data map[string]interface{})
	BroadcastSOSResolved(data map[string]interface{})
}

type AlertService interface {
	// TriggerSOS writes the shared alert slot. Every call is a full
	// overwrite; when two volunteers trigger at once the later write
	// is the one everyone sees.
	TriggerSOS(ctx context.Context, sender string, request *models.TriggerAlertRequest) (*models.Alert, error)

	// Resolve marks the current alert resolved. Only the exact sender
	// string may resolve it, except for admins.
	Resolve(ctx context.Context, resolver string, isAdmin bool, request *models.ResolveAlertRequest) (*models.Alert, error)

	Latest(ctx context.Context) (*models.Alert, error)
	History(ctx context.Context, params *utils.PaginationParams) ([]*models.AlertHistoryEntry, int64, error)
}

type alertService struct {
	alertRepo        interfaces.AlertRepository
	userRepo         interfaces.UserRepository
	notificationRepo interfaces.NotificationRepository
	geocoder         geocode.Provider
	pushProvider     push.Provider
	smsProvider      sms.Provider
	broadcaster      AlertBroadcaster
	escalationPhones []string
	logger           *logger.Logger
}

func NewAlertService(
	alertRepo interfaces.AlertRepository,
	userRepo interfaces.UserRepository,
	notificationRepo interfaces.NotificationRepository,
	geocoder geocode.Provider,
	pushProvider push.Provider,
	smsProvider sms.Provider,
	broadcaster AlertBroadcaster,
	escalationPhones []string,
	logger *logger.Logger,
) AlertService {
	return &alertService{
		alertRepo:        alertRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		geocoder:         geocoder,
		pushProvider:     pushProvider,
		smsProvider:      smsProvider,
		broadcaster:      broadcaster,
		escalationPhones: escalationPhones,
		logger:           logger,
	}
}

func (s *alertService) TriggerSOS(ctx context.Context, sender string, request *models.TriggerAlertRequest) (*models.Alert, error) {
	if sender == "" {
		sender = models.AnonymousSender
	}

	location := request.Location
	if location == nil {
		location = &models.GeoPoint{
			Latitude:  utils.FallbackLatitude,
			Longitude: utils.FallbackLongitude,
		}
	}

	alert := &models.Alert{
		Sender:    sender,
		Location:  location,
		Status:    models.AlertStatusActive,
		Message:   request.Message,
		Timestamp: time.Now(),
	}

	if err := s.alertRepo.SetLatest(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to store alert: %w", err)
	}

	if err := s.alertRepo.AppendHistory(ctx, &models.AlertHistoryEntry{
		Sender:    alert.Sender,
		Location:  alert.Location,
		Status:    alert.Status,
		Timestamp: alert.Timestamp,
	}); err != nil {
		s.logger.WithError(err).Error("Failed to append alert history")
	}

	// Reverse geocoding is display enrichment only; it runs after the
	// write so a hung provider cannot delay the alert being stored.
	alert.LocationName = s.resolveLocationName(ctx, location)
	if err := s.alertRepo.UpdateLatest(ctx, map[string]interface{}{
		"location_name": alert.LocationName,
	}); err != nil {
		s.logger.WithError(err).Warn("Failed to store alert location name")
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastSOSAlert(alertPayload(alert))
	}

	// Push and SMS escalation are best effort; a dead provider must
	// never block the trigger.
	go s.escalate(alert)

	s.logger.WithFields(map[string]interface{}{
		"sender":   alert.Sender,
		"lat":      alert.Location.Latitude,
		"lng":      alert.Location.Longitude,
		"location": alert.LocationName,
	}).Info("SOS alert triggered")

	return alert, nil
}

func (s *alertService) Resolve(ctx context.Context, resolver string, isAdmin bool, request *models.ResolveAlertRequest) (*models.Alert, error) {
	alert, err := s.alertRepo.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, mongodb.ErrNoAlert) {
			return nil, ErrNoActiveAlert
		}
		return nil, err
	}

	if alert.Resolved() {
		return nil, ErrAlertAlreadyResolved
	}

	// Identity gate is an exact byte comparison against the stored
	// sender. "A@x.com" does not resolve an alert raised by "a@x.com".
	if resolver != alert.Sender && !isAdmin {
		return nil, ErrNotAlertSender
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":    models.AlertStatusResolved,
		"helped_by": resolver,
		"helped_at": now,
	}
	if request != nil && request.Note != "" {
		updates["message"] = request.Note
	}

	if err := s.alertRepo.UpdateLatest(ctx, updates); err != nil {
		if errors.Is(err, mongodb.ErrNoAlert) {
			return nil, ErrNoActiveAlert
		}
		return nil, fmt.Errorf("failed to resolve alert: %w", err)
	}

	alert.Status = models.AlertStatusResolved
	alert.HelpedBy = resolver
	alert.HelpedAt = &now
	if request != nil && request.Note != "" {
		alert.Message = request.Note
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastSOSResolved(alertPayload(alert))
	}

	s.logger.WithFields(map[string]interface{}{
		"sender":   alert.Sender,
		"resolver": resolver,
		"admin":    isAdmin && resolver != alert.Sender,
	}).Info("SOS alert resolved")

	return alert, nil
}

func (s *alertService) Latest(ctx context.Context) (*models.Alert, error) {
	alert, err := s.alertRepo.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, mongodb.ErrNoAlert) {
			return nil, ErrNoActiveAlert
		}
		return nil, err
	}

	return alert, nil
}

func (s *alertService) History(ctx context.Context, params *utils.PaginationParams) ([]*models.AlertHistoryEntry, int64, error) {
	return s.alertRepo.ListHistory(ctx, params)
}

// resolveLocationName reverse-geocodes the alert position. Geocoding
// failures degrade to a fixed placeholder rather than failing the
// trigger.
func (s *alertService) resolveLocationName(ctx context.Context, location *models.GeoPoint) string {
	if s.geocoder == nil {
		return utils.UnknownLocation
	}

	geocodeCtx, cancel := context.WithTimeout(ctx, utils.GeocodeTimeout)
	defer cancel()

	name, err := s.geocoder.ReverseGeocode(geocodeCtx, location.Latitude, location.Longitude)
	if err != nil || name == "" {
		if err != nil {
			s.logger.WithError(err).Warn("Reverse geocoding failed")
		}
		return utils.UnknownLocation
	}

	return name
}

func (s *alertService) escalate(alert *models.Alert) {
	ctx, cancel := context.WithTimeout(context.Background(), utils.EscalationTimeout)
	defer cancel()

	s.sendPushFanout(ctx, alert)
	s.sendSMSEscalation(ctx, alert)
	s.persistNotifications(ctx, alert)
}

func (s *alertService) sendPushFanout(ctx context.Context, alert *models.Alert) {
	if s.pushProvider == nil {
		return
	}

	tokens, err := s.userRepo.GetAllDeviceTokens(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load device tokens for SOS fan-out")
		return
	}
	if len(tokens) == 0 {
		return
	}

	requests := make([]*push.NotificationRequest, 0, len(tokens))
	for _, token := range tokens {
		requests = append(requests, &push.NotificationRequest{
			Token: token.Token,
			Title: "SOS Alert",
			Body:  fmt.Sprintf("%s needs help near %s", alert.Sender, alert.LocationName),
			Data: map[string]string{
				"type":   string(models.AlertStatusActive),
				"sender": alert.Sender,
			},
			Sound: "default",
		})
	}

	if _, err := s.pushProvider.SendBulkNotifications(ctx, requests); err != nil {
		s.logger.WithError(err).Error("SOS push fan-out failed")
	}
}

func (s *alertService) sendSMSEscalation(ctx context.Context, alert *models.Alert) {
	if s.smsProvider == nil || len(s.escalationPhones) == 0 {
		return
	}

	message := fmt.Sprintf(
		"SOS: %s needs help near %s (%.4f, %.4f)",
		alert.Sender, alert.LocationName,
		alert.Location.Latitude, alert.Location.Longitude,
	)

	for _, phone := range s.escalationPhones {
		if _, err := s.smsProvider.SendSMS(ctx, &sms.SMSRequest{
			To:      phone,
			Message: message,
		}); err != nil {
			s.logger.WithError(err).WithField("phone", utils.MaskPhone(phone)).Error("SOS SMS escalation failed")
		}
	}
}

// persistNotifications writes the unread-badge records for everyone
// except the sender.
func (s *alertService) persistNotifications(ctx context.Context, alert *models.Alert) {
	if s.notificationRepo == nil {
		return
	}

	users, _, err := s.userRepo.List(ctx, &utils.PaginationParams{
		Page:     1,
		PageSize: utils.MaxPageSize,
		Sort:     "created_at",
		Order:    "desc",
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to list users for SOS notifications")
		return
	}

	notifications := make([]*models.Notification, 0, len(users))
	for _, user := range users {
		if user.Email == alert.Sender {
			continue
		}
		notifications = append(notifications, &models.Notification{
			UserEmail: user.Email,
			Type:      models.NotificationTypeSOSAlert,
			Title:     "SOS Alert",
			Body:      fmt.Sprintf("%s needs help near %s", alert.Sender, alert.LocationName),
			Data: map[string]interface{}{
				"lat": alert.Location.Latitude,
				"lng": alert.Location.Longitude,
			},
		})
	}

	if err := s.notificationRepo.CreateMany(ctx, notifications); err != nil {
		s.logger.WithError(err).Error("Failed to persist SOS notifications")
	}
}

func alertPayload(alert *models.Alert) map[string]interface{} {
	wire := alert.Wire()

	payload := map[string]interface{}{
		"id":        wire.ID,
		"sender":    wire.Sender,
		"location":  wire.Location,
		"status":    wire.Status,
		"resolved":  wire.Resolved,
		"timestamp": wire.Timestamp,
	}
	if wire.LocationName != "" {
		payload["location_name"] = wire.LocationName
	}
	if wire.Message != "" {
		payload["message"] = wire.Message
	}
	if wire.HelpedBy != "" {
		payload["helped_by"] = wire.HelpedBy
		payload["helped_at"] = wire.HelpedAt
	}

	return payload
}
