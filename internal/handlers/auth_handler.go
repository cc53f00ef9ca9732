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

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var request models.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			utils.ErrorResponse(c, http.StatusConflict, "EMAIL_TAKEN", "Email already registered")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "REGISTER_FAILED", "Failed to register: "+err.Error())
		return
	}

	utils.CreatedResponse(c, "Registered successfully", response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var request models.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.ErrorResponse(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Logged in successfully", response)
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var request models.GoogleLoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	response, err := h.authService.GoogleLogin(c.Request.Context(), &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "GOOGLE_LOGIN_FAILED", "Google sign-in failed: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Logged in with Google", response)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var request struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	response, err := h.authService.RefreshToken(c.Request.Context(), request.RefreshToken)
	if err != nil {
		utils.UnauthorizedResponse(c)
		return
	}

	utils.SuccessResponse(c, "Token refreshed", response)
}

func (h *AuthHandler) RegisterDevice(c *gin.Context) {
	var request models.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.authService.RegisterDevice(c.Request.Context(), middleware.UserEmail(c), &request); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "DEVICE_REGISTER_FAILED", "Failed to register device: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Device registered", nil)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.authService.GetProfile(c.Request.Context(), middleware.UserEmail(c))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.NotFoundResponse(c, "User not found")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Profile", user)
}
