// Package interviews provides the scheduling bounded context module.
package interviews

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "recruiting_portal_backend/internal/http"
	"recruiting_portal_backend/internal/interviews/handler"
	"recruiting_portal_backend/internal/interviews/repository"
	"recruiting_portal_backend/internal/interviews/service"
	"recruiting_portal_backend/platform/logger"
	"recruiting_portal_backend/platform/validator"
)

// Module is the interviews bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the interviews module.
func NewModule(
	pool *pgxpool.Pool,
	candidates service.CandidateGate,
	history service.StatusRecorder,
	directory service.InterviewerDirectory,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, candidates, history, directory, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "interviews"
}

// Service returns the service layer for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts interview routes on the /api group.
func (m *Module) RegisterRoutes(api *gin.RouterGroup) {
	m.handler.RegisterRoutes(api.Group("/interviews"))
}

var _ apphttp.Module = (*Module)(nil)
