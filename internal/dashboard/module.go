// Package dashboard provides the read-only analytics module.
package dashboard

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"recruiting_portal_backend/internal/dashboard/handler"
	"recruiting_portal_backend/internal/dashboard/repository"
	"recruiting_portal_backend/internal/dashboard/service"
	apphttp "recruiting_portal_backend/internal/http"
	"recruiting_portal_backend/platform/logger"
)

// Module is the dashboard module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the dashboard module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{handler: handler.New(svc)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "dashboard"
}

// RegisterRoutes mounts dashboard routes on the /api group.
func (m *Module) RegisterRoutes(api *gin.RouterGroup) {
	m.handler.RegisterRoutes(api.Group("/dashboard"))
}

var _ apphttp.Module = (*Module)(nil)
