package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruiting_portal_backend/internal/candidates/service"
	"recruiting_portal_backend/internal/candidates/transport"
	"recruiting_portal_backend/platform/httpkit"
	"recruiting_portal_backend/platform/validator"
)

const msgInvalidRequest = "Invalid request"

// Handler handles HTTP requests for candidates.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new candidates handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers candidate routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/search", h.Search)
	rg.GET("/without-screening", h.WithoutScreening)
	rg.GET("/stage/:stage", h.ByStage)
	rg.GET("/email/:email", h.GetByEmail)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.PUT("/:id/stage", h.UpdateStage)
	rg.POST("/:id/resume", h.UploadResume)
	rg.GET("/:id/resume", h.DownloadResume)
}

// Create registers a candidate from a multipart form. The resume part is
// optional.
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateCandidateRequest
	if err := c.ShouldBind(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.StructTyped(req); httpkit.HandleError(c, err) {
		return
	}

	var upload *service.ResumeUpload
	file, err := c.FormFile("resume")
	if err == nil && file != nil {
		f, err := file.Open()
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "Could not read resume file", nil)
			return
		}
		defer f.Close()
		upload = &service.ResumeUpload{
			FileName:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Size:        file.Size,
			Reader:      f,
		}
	}

	result, err := h.svc.Create(c.Request.Context(), req, upload)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

func (h *Handler) List(c *gin.Context) {
	var q transport.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.StructTyped(q); httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.List(c.Request.Context(), q)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Search(c *gin.Context) {
	var q transport.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.StructTyped(q); httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.Search(c.Request.Context(), q)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) WithoutScreening(c *gin.Context) {
	result, err := h.svc.WithoutScreening(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ByStage(c *gin.Context) {
	result, err := h.svc.ByStage(c.Request.Context(), c.Param("stage"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetByEmail(c *gin.Context) {
	result, err := h.svc.GetByEmail(c.Request.Context(), c.Param("email"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.StructTyped(req); httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.UpdateProfile(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) UpdateStage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateStageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.StructTyped(req); httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.UpdateStage(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) UploadResume(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("resume")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Resume file is required", nil)
		return
	}
	f, err := file.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Could not read resume file", nil)
		return
	}
	defer f.Close()

	result, err := h.svc.UploadResume(c.Request.Context(), id, service.ResumeUpload{
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Reader:      f,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) DownloadResume(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rc, fileName, err := h.svc.OpenResume(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Invalid candidate id", nil)
		return uuid.Nil, false
	}
	return id, true
}
