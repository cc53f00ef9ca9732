package services

import (
	"context"
	"errors"

	"cleanwave/internal/models"
	"cleanwave/internal/repositories/interfaces"
	"cleanwave/internal/repositories/mongodb"
	"cleanwave/internal/utils"
	"cleanwave/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrEventNotFound = errors.New("event not found")

// fixedMapPins are always present on the community map, independent of
// what events exist in the database.
var fixedMapPins = []models.MapPin{
	{Name: "Juhu Beach Cleanup Drive", Location: models.GeoPoint{Latitude: 19.0968, Longitude: 72.8265}},
	{Name: "Versova Beach Cleanup Drive", Location: models.GeoPoint{Latitude: 19.1354, Longitude: 72.8122}},
	{Name: "Marine Lines Cleanup Drive", Location: models.GeoPoint{Latitude: 18.9430, Longitude: 72.8238}},
}

type EventService interface {
	CreateEvent(ctx context.Context, createdBy string, request *models.CreateEventRequest) (*models.Event, error)
	GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	ListEvents(ctx context.Context, params *utils.PaginationParams) ([]*models.Event, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.EventStatus) error
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error

	// MapPins merges the fixed markers with stored upcoming events.
	MapPins(ctx context.Context) ([]models.MapPin, error)
}

type eventService struct {
	eventRepo interfaces.EventRepository
	logger    *logger.Logger
}

func NewEventService(eventRepo interfaces.EventRepository, logger *logger.Logger) EventService {
	return &eventService{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, createdBy string, request *models.CreateEventRequest) (*models.Event, error) {
	event := &models.Event{
		Name:        request.Name,
		Description: request.Description,
		Location:    request.Location,
		PlaceName:   request.PlaceName,
		Status:      models.EventStatusUpcoming,
		StartsAt:    request.StartsAt,
		CreatedBy:   createdBy,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, params *utils.PaginationParams) ([]*models.Event, int64, error) {
	return s.eventRepo.List(ctx, params)
}

func (s *eventService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.EventStatus) error {
	err := s.eventRepo.Update(ctx, id, map[string]interface{}{"status": status})
	if errors.Is(err, mongodb.ErrEventNotFound) {
		return ErrEventNotFound
	}

	return err
}

func (s *eventService) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	err := s.eventRepo.Delete(ctx, id)
	if errors.Is(err, mongodb.ErrEventNotFound) {
		return ErrEventNotFound
	}

	return err
}

func (s *eventService) MapPins(ctx context.Context) ([]models.MapPin, error) {
	pins := make([]models.MapPin, len(fixedMapPins))
	copy(pins, fixedMapPins)

	events, err := s.eventRepo.ListByStatus(ctx, models.EventStatusUpcoming)
	if err != nil {
		// Fixed pins still render when the database is down.
		s.logger.WithError(err).Warn("Failed to load event pins")
		return pins, nil
	}

	for _, event := range events {
		pins = append(pins, models.MapPin{
			Name:     event.Name,
			Location: event.Location,
		})
	}

	return pins, nil
}
