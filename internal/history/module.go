// Package history provides the audit trail bounded context module.
package history

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"recruiting_portal_backend/internal/history/handler"
	"recruiting_portal_backend/internal/history/repository"
	"recruiting_portal_backend/internal/history/service"
	apphttp "recruiting_portal_backend/internal/http"
)

// Module is the history bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repo
}

// NewModule creates and initializes the history module.
func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc)

	return &Module{handler: h, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "history"
}

// Repo returns the audit recorder for use by other modules' transactions.
func (m *Module) Repo() *repository.Repo {
	return m.repo
}

// RegisterRoutes mounts history routes on the /api group.
func (m *Module) RegisterRoutes(api *gin.RouterGroup) {
	m.handler.RegisterRoutes(api.Group("/history"))
}

var _ apphttp.Module = (*Module)(nil)
