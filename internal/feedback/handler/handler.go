package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruiting_portal_backend/internal/feedback/service"
	"recruiting_portal_backend/internal/feedback/transport"
	"recruiting_portal_backend/platform/httpkit"
	"recruiting_portal_backend/platform/validator"
)

// Handler handles HTTP requests for feedback.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new feedback handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers feedback routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Submit)
	rg.GET("/positive", h.Positive)
	rg.GET("/interview/:interviewId", h.ByInterview)
	rg.GET("/interviewer/:interviewerId", h.ByInterviewer)
	rg.GET("/interviewer/:interviewerId/stats", h.InterviewerStats)
	rg.GET("/candidate/:candidateId/averages", h.CandidateAverages)
	rg.GET("/:id", h.GetByID)
}

func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Invalid request", nil)
		return
	}
	if err := h.val.StructTyped(req); httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid feedback id")
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ByInterview(c *gin.Context) {
	id, ok := parseID(c, "interviewId", "Invalid interview id")
	if !ok {
		return
	}

	result, err := h.svc.ByInterview(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ByInterviewer(c *gin.Context) {
	id, ok := parseID(c, "interviewerId", "Invalid interviewer id")
	if !ok {
		return
	}

	result, err := h.svc.ByInterviewer(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) InterviewerStats(c *gin.Context) {
	id, ok := parseID(c, "interviewerId", "Invalid interviewer id")
	if !ok {
		return
	}

	result, err := h.svc.InterviewerStats(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CandidateAverages(c *gin.Context) {
	id, ok := parseID(c, "candidateId", "Invalid candidate id")
	if !ok {
		return
	}

	result, err := h.svc.CandidateAverages(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Positive(c *gin.Context) {
	result, err := h.svc.Positive(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func parseID(c *gin.Context, param, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, message, nil)
		return uuid.Nil, false
	}
	return id, true
}
