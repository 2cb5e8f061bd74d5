// Package interviewers provides the interviewers bounded context module.
package interviewers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "recruiting_portal_backend/internal/http"
	"recruiting_portal_backend/internal/interviewers/handler"
	"recruiting_portal_backend/internal/interviewers/repository"
	"recruiting_portal_backend/internal/interviewers/service"
	"recruiting_portal_backend/platform/validator"
)

// Module is the interviewers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the interviewers module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "interviewers"
}

// Service returns the service layer for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts interviewer routes on the /api group.
func (m *Module) RegisterRoutes(api *gin.RouterGroup) {
	m.handler.RegisterRoutes(api.Group("/interviewers"))
}

var _ apphttp.Module = (*Module)(nil)
