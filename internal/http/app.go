// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"recruiting_portal_backend/platform/config"
	"recruiting_portal_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module is implemented by every HTTP-facing bounded context.
type Module interface {
	// Name returns the module identifier for logging.
	Name() string
	// RegisterRoutes mounts the module's routes on the /api group.
	RegisterRoutes(api *gin.RouterGroup)
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP settings only).
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness/health checks (DB ping).
	Health HealthChecker
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
