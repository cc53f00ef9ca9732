package handlers

import (
	"errors"
	"net/http"

	"cleanwave/internal/middleware"
	"cleanwave/internal/services"
	"cleanwave/internal/utils"

	"github.com/gin-gonic/gin"
)

type ClassifierHandler struct {
	classifierService services.ClassifierService
}

func NewClassifierHandler(classifierService services.ClassifierService) *ClassifierHandler {
	return &ClassifierHandler{
		classifierService: classifierService,
	}
}

// Classify proxies an uploaded image to the waste classification
// model and returns its label and confidence.
func (h *ClassifierHandler) Classify(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Image file required")
		return
	}
	defer file.Close()

	result, err := h.classifierService.Classify(c.Request.Context(), middleware.UserEmail(c), header.Filename, file)
	if err != nil {
		if errors.Is(err, services.ErrClassifierUnavailable) {
			utils.ErrorResponse(c, http.StatusBadGateway, "CLASSIFIER_UNAVAILABLE", "Classification service unavailable")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "CLASSIFY_FAILED", "Failed to classify image: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Image classified", result)
}

func (h *ClassifierHandler) History(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	params.Sort = "created_at"

	records, total, err := h.classifierService.History(c.Request.Context(), middleware.UserEmail(c), params)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Classification history", records, &utils.Meta{
		Pagination: utils.NewPaginationMeta(params, total),
	})
}
