package handlers

import (
	"errors"
	"net/http"

	"cleanwave/internal/middleware"
	"cleanwave/internal/models"
	"cleanwave/internal/services"
	"cleanwave/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventHandler struct {
	eventService services.EventService
}

func NewEventHandler(eventService services.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var request models.CreateEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), middleware.UserEmail(c), &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "EVENT_CREATE_FAILED", "Failed to create event: "+err.Error())
		return
	}

	utils.CreatedResponse(c, "Event created", event)
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	events, total, err := h.eventService.ListEvents(c.Request.Context(), params)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Events", events, &utils.Meta{
		Pagination: utils.NewPaginationMeta(params, total),
	})
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid event ID")
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			utils.NotFoundResponse(c, "Event not found")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Event", event)
}

func (h *EventHandler) UpdateStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid event ID")
		return
	}

	var request struct {
		Status models.EventStatus `json:"status" binding:"required,oneof=upcoming ongoing completed"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.eventService.UpdateStatus(c.Request.Context(), id, request.Status); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			utils.NotFoundResponse(c, "Event not found")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Event status updated", nil)
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid event ID")
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			utils.NotFoundResponse(c, "Event not found")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Event deleted", nil)
}

// GetMapPins returns the markers for the community map, fixed pins
// included.
func (h *EventHandler) GetMapPins(c *gin.Context) {
	pins, err := h.eventService.MapPins(c.Request.Context())
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Map pins", pins)
}
