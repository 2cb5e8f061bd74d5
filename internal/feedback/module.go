// Package feedback provides the panel feedback bounded context module.
package feedback

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"recruiting_portal_backend/internal/feedback/handler"
	"recruiting_portal_backend/internal/feedback/repository"
	"recruiting_portal_backend/internal/feedback/service"
	apphttp "recruiting_portal_backend/internal/http"
	"recruiting_portal_backend/platform/validator"
)

// Module is the feedback bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the feedback module.
func NewModule(
	pool *pgxpool.Pool,
	interviews service.InterviewLookup,
	interviewers service.InterviewerLookup,
	val *validator.Validator,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, interviews, interviewers)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "feedback"
}

// Service returns the service layer for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts feedback routes on the /api group.
func (m *Module) RegisterRoutes(api *gin.RouterGroup) {
	m.handler.RegisterRoutes(api.Group("/feedback"))
}

var _ apphttp.Module = (*Module)(nil)
