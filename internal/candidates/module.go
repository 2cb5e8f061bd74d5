// Package candidates provides the candidates bounded context module.
package candidates

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"recruiting_portal_backend/internal/adapters/storage"
	"recruiting_portal_backend/internal/candidates/handler"
	"recruiting_portal_backend/internal/candidates/repository"
	"recruiting_portal_backend/internal/candidates/service"
	apphttp "recruiting_portal_backend/internal/http"
	"recruiting_portal_backend/platform/logger"
	"recruiting_portal_backend/platform/validator"
)

// Module is the candidates bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the candidates module with all its
// dependencies.
func NewModule(
	pool *pgxpool.Pool,
	history service.StageRecorder,
	store storage.ResumeStore,
	maxResumeSize int64,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, history, store, maxResumeSize, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "candidates"
}

// Service returns the service layer for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts candidate routes on the /api group.
func (m *Module) RegisterRoutes(api *gin.RouterGroup) {
	m.handler.RegisterRoutes(api.Group("/candidates"))
}

var _ apphttp.Module = (*Module)(nil)
