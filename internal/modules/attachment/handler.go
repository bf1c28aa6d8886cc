package attachment

import (
	"errors"
	"net/http"
	"os"

	"hoaxify/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const cacheControl = "max-age=31536000"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the upload endpoint on the authenticated API group.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/hoaxes/attachments", h.Upload)
}

// RegisterPublicRoutes mounts blob serving at the router root.
func (h *Handler) RegisterPublicRoutes(r gin.IRouter) {
	r.GET("/attachments/:filename", h.Serve)
}

func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "no file provided")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "failed to read file")
		return
	}
	defer file.Close()

	att, err := h.service.Save(c.Request.Context(), file, fileHeader.Size)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, att)
	case errors.Is(err, ErrEmptyFile):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "upload failed")
	}
}

func (h *Handler) Serve(c *gin.Context) {
	path, att, err := h.service.Locate(c.Request.Context(), c.Param("filename"))
	if err != nil {
		if !errors.Is(err, ErrAttachmentNotFound) {
			_ = c.Error(err)
		}
		c.Status(http.StatusNotFound)
		return
	}
	if _, err := os.Stat(path); err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("Cache-Control", cacheControl)
	if att.FileType != nil {
		c.Header("Content-Type", *att.FileType)
	}
	c.File(path)
}
