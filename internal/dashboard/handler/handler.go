package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recruiting_portal_backend/internal/dashboard/service"
	"recruiting_portal_backend/platform/httpkit"
)

// Handler handles HTTP requests for the dashboard.
type Handler struct {
	svc *service.Service
}

// New creates a new dashboard handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers dashboard routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Overview)
	rg.GET("/candidates/by-stage", h.CandidatesByStage)
	rg.GET("/candidates/top-scored", h.TopScoredCandidates)
	rg.GET("/candidates/recent", h.RecentCandidates)
	rg.GET("/activity/recent", h.RecentActivity)
	rg.GET("/interviews/statistics", h.InterviewStatistics)
	rg.GET("/interviews/upcoming", h.UpcomingInterviews)
	rg.GET("/screenings/statistics", h.ScreeningStatistics)
	rg.GET("/feedback/statistics", h.FeedbackStatistics)
	rg.GET("/hiring-funnel", h.HiringFunnel)
}

func (h *Handler) Overview(c *gin.Context) {
	result, err := h.svc.Overview(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CandidatesByStage(c *gin.Context) {
	result, err := h.svc.CandidatesByStage(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) TopScoredCandidates(c *gin.Context) {
	minScore, ok := intQuery(c, "minScore", 80)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", 10)
	if !ok {
		return
	}

	result, err := h.svc.TopScoredCandidates(c.Request.Context(), minScore, limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) RecentCandidates(c *gin.Context) {
	days, ok := intQuery(c, "days", 7)
	if !ok {
		return
	}

	result, err := h.svc.RecentCandidates(c.Request.Context(), days)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) RecentActivity(c *gin.Context) {
	days, ok := intQuery(c, "days", 7)
	if !ok {
		return
	}

	result, err := h.svc.RecentActivity(c.Request.Context(), days)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) InterviewStatistics(c *gin.Context) {
	result, err := h.svc.InterviewStatistics(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) UpcomingInterviews(c *gin.Context) {
	days, ok := intQuery(c, "days", 7)
	if !ok {
		return
	}

	result, err := h.svc.UpcomingInterviews(c.Request.Context(), days)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ScreeningStatistics(c *gin.Context) {
	result, err := h.svc.ScreeningStatistics(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) FeedbackStatistics(c *gin.Context) {
	result, err := h.svc.FeedbackStatistics(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) HiringFunnel(c *gin.Context) {
	result, err := h.svc.HiringFunnel(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, name+" must be an integer", nil)
		return 0, false
	}
	return v, true
}
