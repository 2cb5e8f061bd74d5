// Package screenings provides the AI screening bounded context module.
package screenings

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"recruiting_portal_backend/internal/adapters/storage"
	apphttp "recruiting_portal_backend/internal/http"
	"recruiting_portal_backend/internal/screenings/extract"
	"recruiting_portal_backend/internal/screenings/handler"
	"recruiting_portal_backend/internal/screenings/pool"
	"recruiting_portal_backend/internal/screenings/repository"
	"recruiting_portal_backend/internal/screenings/service"
	"recruiting_portal_backend/platform/config"
	"recruiting_portal_backend/platform/logger"
	"recruiting_portal_backend/platform/validator"
)

// Module is the screenings bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	workers *pool.Pool
}

// NewModule creates and initializes the screenings module, including its
// worker pool.
func NewModule(
	dbPool *pgxpool.Pool,
	candidates service.CandidatePipeline,
	store storage.ResumeStore,
	llm service.ChatModel,
	poolCfg config.ScreeningPoolConfig,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	workers := pool.New("screening",
		poolCfg.GetScreeningPoolCore(),
		poolCfg.GetScreeningPoolMax(),
		poolCfg.GetScreeningPoolQueue(),
		log,
	)

	repo := repository.New(dbPool)
	svc := service.New(repo, candidates, store, extract.New(), llm, workers, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, workers: workers}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "screenings"
}

// Service returns the service layer for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// Shutdown drains the worker pool, bounded by the context deadline.
func (m *Module) Shutdown(ctx context.Context) error {
	return m.workers.Shutdown(ctx)
}

// RegisterRoutes mounts screening routes on the /api group.
func (m *Module) RegisterRoutes(api *gin.RouterGroup) {
	m.handler.RegisterRoutes(api.Group("/screenings"))
}

var _ apphttp.Module = (*Module)(nil)
