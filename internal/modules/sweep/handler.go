package sweep

import (
	"net/http"

	"hoaxify/internal/lifecycle"
	"hoaxify/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler lets an operator run a sweep pass on demand. Passes started here
// may overlap a scheduled one; both sweeps only delete through conditional
// statements, so the second pass sees the rows as raced.
type Handler struct {
	sweepers []lifecycle.Sweeper
}

func NewHandler(sweepers ...lifecycle.Sweeper) *Handler {
	return &Handler{sweepers: sweepers}
}

func (h *Handler) RegisterRoutes(internal *gin.RouterGroup) {
	internal.POST("/sweeps/:kind", h.Run)
}

func (h *Handler) Run(c *gin.Context) {
	kind := c.Param("kind")

	var selected []lifecycle.Sweeper
	for _, s := range h.sweepers {
		if kind == "all" || string(s.Kind()) == kind {
			selected = append(selected, s)
		}
	}
	if len(selected) == 0 {
		response.Error(c, http.StatusNotFound, "UNKNOWN_SWEEP", "No sweep named "+kind)
		return
	}

	reports := make([]ReportResponse, 0, len(selected))
	for _, s := range selected {
		report := s.Run(c.Request.Context())
		report.Log()
		reports = append(reports, toResponse(report))
	}
	response.Success(c, http.StatusOK, reports)
}
