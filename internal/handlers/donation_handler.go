package handlers

import (
	"errors"
	"io"
	"net/http"

	"cleanwave/internal/middleware"
	"cleanwave/internal/models"
	"cleanwave/internal/services"
	"cleanwave/internal/utils"

	"github.com/gin-gonic/gin"
)

type DonationHandler struct {
	donationService services.DonationService
}

func NewDonationHandler(donationService services.DonationService) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
	}
}

func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var request models.CreateDonationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	donor := middleware.UserEmail(c)
	if donor == "" {
		donor = models.AnonymousSender
	}

	response, err := h.donationService.CreateDonation(c.Request.Context(), donor, &request)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			utils.BadRequestResponse(c, "Donation amount out of range")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "DONATION_CREATE_FAILED", "Failed to create donation: "+err.Error())
		return
	}

	utils.CreatedResponse(c, "Donation order created", response)
}

func (h *DonationHandler) ListDonations(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	donations, total, err := h.donationService.ListDonations(c.Request.Context(), params)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Donations", donations, &utils.Meta{
		Pagination: utils.NewPaginationMeta(params, total),
	})
}

func (h *DonationHandler) GetTotalRaised(c *gin.Context) {
	total, err := h.donationService.TotalRaised(c.Request.Context())
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Total raised", gin.H{"total_paise": total})
}

// HandleWebhook receives payment provider callbacks. The body must be
// the raw payload: the signature is computed over the exact bytes.
func (h *DonationHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read webhook body")
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if signature == "" {
		signature = c.GetHeader("Stripe-Signature")
	}

	if err := h.donationService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, services.ErrInvalidSignature) {
			utils.ErrorResponse(c, http.StatusUnauthorized, "INVALID_SIGNATURE", "Webhook signature verification failed")
			return
		}
		if errors.Is(err, services.ErrDonationNotFound) {
			utils.NotFoundResponse(c, "Donation not found")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Webhook processed", nil)
}
