package auth

import (
	"errors"
	"net/http"

	"hoaxify/internal/middleware"
	"hoaxify/internal/pkg/response"
	"hoaxify/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.POST("/users", h.Register)
	v1.POST("/auth", h.Login)
	v1.POST("/logout", h.Logout)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation Failure", errs)
		return
	}

	_, err := h.service.Register(c.Request.Context(), req)
	switch {
	case err == nil:
		response.Message(c, http.StatusOK, "User created")
	case errors.Is(err, ErrWeakPassword):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation Failure",
			map[string]string{"password": err.Error()})
	case errors.Is(err, ErrEmailAlreadyExists):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation Failure",
			map[string]string{"email": "E-mail in use"})
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register user")
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Incorrect credentials")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, res)
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Incorrect credentials")
	case errors.Is(err, ErrAccountInactive):
		response.Error(c, http.StatusForbidden, "ACCOUNT_INACTIVE", "Account is inactive")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
	}
}

func (h *Handler) Logout(c *gin.Context) {
	tokenID := c.GetString(middleware.ContextTokenID)
	if tokenID != "" {
		if err := h.service.Logout(c.Request.Context(), tokenID); err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "LOGOUT_FAILED", "Failed to logout")
			return
		}
	}
	response.Message(c, http.StatusOK, "Logged out")
}
