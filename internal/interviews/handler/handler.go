package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruiting_portal_backend/internal/interviews/service"
	"recruiting_portal_backend/internal/interviews/transport"
	"recruiting_portal_backend/platform/httpkit"
	"recruiting_portal_backend/platform/validator"
)

const msgInvalidRequest = "Invalid request"

// Handler handles HTTP requests for interviews.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new interviews handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers interview routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Schedule)
	rg.GET("/today", h.Today)
	rg.GET("/overdue", h.Overdue)
	rg.GET("/without-feedback", h.CompletedWithoutFeedback)
	rg.GET("/available", h.FindAvailable)
	rg.GET("/candidate/:candidateId", h.ByCandidate)
	rg.GET("/interviewer/:interviewerId", h.ByInterviewer)
	rg.GET("/interviewer/:interviewerId/availability", h.IsAvailable)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id/reschedule", h.Reschedule)
	rg.PUT("/:id/cancel", h.Cancel)
	rg.PUT("/:id/status", h.UpdateStatus)
}

func (h *Handler) Schedule(c *gin.Context) {
	var req transport.ScheduleInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.StructTyped(req); httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.Schedule(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid interview id")
	if !ok {
		return
	}

	var q transport.RescheduleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.StructTyped(q); httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.Reschedule(c.Request.Context(), id, q)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid interview id")
	if !ok {
		return
	}

	var q transport.CancelQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.StructTyped(q); httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.Cancel(c.Request.Context(), id, q)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid interview id")
	if !ok {
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.StructTyped(req); httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.UpdateStatus(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid interview id")
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ByCandidate(c *gin.Context) {
	id, ok := parseID(c, "candidateId", "Invalid candidate id")
	if !ok {
		return
	}

	result, err := h.svc.ByCandidate(c.Request.Context(), id)
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

func (h *Handler) Today(c *gin.Context) {
	result, err := h.svc.Today(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Overdue(c *gin.Context) {
	result, err := h.svc.Overdue(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) CompletedWithoutFeedback(c *gin.Context) {
	result, err := h.svc.CompletedWithoutFeedback(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) FindAvailable(c *gin.Context) {
	var q transport.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.StructTyped(q); httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.FindAvailable(c.Request.Context(), q.Start, q.End)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) IsAvailable(c *gin.Context) {
	id, ok := parseID(c, "interviewerId", "Invalid interviewer id")
	if !ok {
		return
	}

	var q transport.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.StructTyped(q); httpkit.HandleError(c, err) {
		return
	}

	available, err := h.svc.IsAvailable(c.Request.Context(), id, q.Start, q.End)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.AvailabilityResponse{
		InterviewerID: id,
		Start:         q.Start,
		End:           q.End,
		Available:     available,
	})
}

func parseID(c *gin.Context, param, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, message, nil)
		return uuid.Nil, false
	}
	return id, true
}
