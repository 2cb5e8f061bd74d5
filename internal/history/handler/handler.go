package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruiting_portal_backend/internal/history/service"
	"recruiting_portal_backend/platform/httpkit"
)

// Handler handles HTTP requests for the audit trail.
type Handler struct {
	svc *service.Service
}

// New creates a new history handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers history routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/candidates/:id", h.CandidateHistory)
	rg.GET("/interviews/:id", h.InterviewHistory)
	rg.GET("/recent", h.Recent)
	rg.GET("/stages/average-durations", h.AverageStageDurations)
}

func (h *Handler) CandidateHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Invalid candidate id", nil)
		return
	}

	result, err := h.svc.CandidateHistory(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) InterviewHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Invalid interview id", nil)
		return
	}

	result, err := h.svc.InterviewHistory(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Recent returns pipeline activity since the optional "since" query
// parameter (RFC 3339), defaulting to the last 7 days.
func (h *Handler) Recent(c *gin.Context) {
	since := time.Now().AddDate(0, 0, -7)
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "since must be an RFC 3339 timestamp", nil)
			return
		}
		since = parsed
	}

	result, err := h.svc.RecentActivity(c.Request.Context(), since)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) AverageStageDurations(c *gin.Context) {
	result, err := h.svc.AverageStageDurations(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
