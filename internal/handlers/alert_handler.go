package handlers

import (
	"errors"
	"net/http"

	"cleanwave/internal/middleware"
	"cleanwave/internal/models"
	"cleanwave/internal/services"
	"cleanwave/internal/utils"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	alertService services.AlertService
}

func NewAlertHandler(alertService services.AlertService) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
	}
}

// TriggerSOS raises the shared alert. The endpoint accepts anonymous
// callers; an empty body is valid and falls back to the default
// coordinate.
func (h *AlertHandler) TriggerSOS(c *gin.Context) {
	var request models.TriggerAlertRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			utils.BadRequestResponse(c, "Invalid request: "+err.Error())
			return
		}
	}

	alert, err := h.alertService.TriggerSOS(c.Request.Context(), middleware.UserEmail(c), &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "SOS_TRIGGER_FAILED", "Failed to trigger alert: "+err.Error())
		return
	}

	utils.CreatedResponse(c, "SOS alert triggered", alert.Wire())
}

func (h *AlertHandler) Resolve(c *gin.Context) {
	var request models.ResolveAlertRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			utils.BadRequestResponse(c, "Invalid request: "+err.Error())
			return
		}
	}

	alert, err := h.alertService.Resolve(c.Request.Context(), middleware.UserEmail(c), middleware.IsAdmin(c), &request)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoActiveAlert):
			utils.NotFoundResponse(c, "No active alert")
		case errors.Is(err, services.ErrAlertAlreadyResolved):
			utils.ErrorResponse(c, http.StatusConflict, "ALREADY_RESOLVED", "Alert is already resolved")
		case errors.Is(err, services.ErrNotAlertSender):
			utils.ForbiddenResponse(c, "Only the sender can resolve this alert")
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "SOS_RESOLVE_FAILED", "Failed to resolve alert: "+err.Error())
		}
		return
	}

	utils.SuccessResponse(c, "SOS alert resolved", alert.Wire())
}

func (h *AlertHandler) GetLatest(c *gin.Context) {
	alert, err := h.alertService.Latest(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoActiveAlert) {
			utils.NotFoundResponse(c, "No alert")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Latest alert", alert.Wire())
}

func (h *AlertHandler) GetHistory(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	entries, total, err := h.alertService.History(c.Request.Context(), params)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Alert history", entries, &utils.Meta{
		Pagination: utils.NewPaginationMeta(params, total),
	})
}
