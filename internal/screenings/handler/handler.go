package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruiting_portal_backend/internal/screenings/service"
	"recruiting_portal_backend/platform/httpkit"
	"recruiting_portal_backend/platform/validator"
)

// Handler handles HTTP requests for screenings.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new screenings handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// BulkRequest enqueues screening for a batch of candidates.
type BulkRequest struct {
	CandidateIDs   []uuid.UUID `json:"candidateIds" validate:"required,min=1,dive,required"`
	JobDescription string      `json:"jobDescription" validate:"omitempty,max=4000"`
}

// RegisterRoutes registers screening routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidate/:candidateId", h.Screen)
	rg.POST("/candidate/:candidateId/async", h.ScreenAsync)
	rg.POST("/bulk", h.BulkAsync)
	rg.GET("/candidate/:candidateId", h.ByCandidate)
	rg.GET("/candidate/:candidateId/latest", h.LatestForCandidate)
	rg.GET("/high-scores", h.HighScores)
	rg.GET("/range", h.InDateRange)
	rg.GET("/stats/average-by-stage", h.AverageScoreByStage)
	rg.GET("/:id", h.GetByID)
}

func (h *Handler) Screen(c *gin.Context) {
	id, ok := parseID(c, "candidateId", "Invalid candidate id")
	if !ok {
		return
	}

	result, err := h.svc.Screen(c.Request.Context(), id, c.Query("jobDescription"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

func (h *Handler) ScreenAsync(c *gin.Context) {
	id, ok := parseID(c, "candidateId", "Invalid candidate id")
	if !ok {
		return
	}

	if err := h.svc.ScreenAsync(c.Request.Context(), id, c.Query("jobDescription")); httpkit.HandleError(c, err) {
		return
	}
	httpkit.Accepted(c, gin.H{
		"candidateId": id,
		"status":      "PROCESSING",
	})
}

func (h *Handler) BulkAsync(c *gin.Context) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Invalid request", nil)
		return
	}
	if err := h.val.StructTyped(req); httpkit.HandleError(c, err) {
		return
	}

	total, err := h.svc.BulkAsync(c.Request.Context(), req.CandidateIDs, req.JobDescription)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Accepted(c, gin.H{
		"totalCandidates": total,
		"status":          "PROCESSING",
	})
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid screening id")
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

func (h *Handler) LatestForCandidate(c *gin.Context) {
	id, ok := parseID(c, "candidateId", "Invalid candidate id")
	if !ok {
		return
	}

	result, err := h.svc.LatestForCandidate(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) HighScores(c *gin.Context) {
	minScore := 80
	if raw := c.Query("minScore"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "minScore must be an integer", nil)
			return
		}
		minScore = parsed
	}

	result, err := h.svc.HighScores(c.Request.Context(), minScore)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) InDateRange(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "start must be an RFC 3339 timestamp", nil)
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "end must be an RFC 3339 timestamp", nil)
		return
	}

	result, err := h.svc.InDateRange(c.Request.Context(), start, end)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) AverageScoreByStage(c *gin.Context) {
	result, err := h.svc.AverageScoreByStage(c.Request.Context())
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
