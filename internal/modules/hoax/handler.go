package hoax

import (
	"errors"
	"net/http"
	"strconv"

	"hoaxify/internal/middleware"
	"hoaxify/internal/pkg/response"
	"hoaxify/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/hoaxes", h.List)
	v1.GET("/users/:userId/hoaxes", h.ListByUser)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/hoaxes", h.Create)
	protected.DELETE("/hoaxes/:hoaxId", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation Failure", errs)
		return
	}

	created, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create hoax")
		return
	}
	response.Success(c, http.StatusOK, created)
}

func (h *Handler) List(c *gin.Context) {
	h.list(c, nil)
}

func (h *Handler) ListByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user id")
		return
	}
	h.list(c, &userID)
}

func (h *Handler) list(c *gin.Context, userID *int64) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid paging parameters")
		return
	}

	page, err := h.service.List(c.Request.Context(), userID, q)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to load hoaxes")
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) Delete(c *gin.Context) {
	hoaxID, err := strconv.ParseInt(c.Param("hoaxId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid hoax id")
		return
	}

	err = h.service.Delete(c.Request.Context(), middleware.UserID(c), hoaxID)
	switch {
	case err == nil:
		response.Message(c, http.StatusOK, "Hoax is removed")
	case errors.Is(err, ErrHoaxNotFound), errors.Is(err, ErrNotOwner):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not allowed to delete this hoax")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete hoax")
	}
}
