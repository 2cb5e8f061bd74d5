// Package router assembles the gin engine from the application modules.
package router

import (
	"net/http"

	apphttp "recruiting_portal_backend/internal/http"
	"recruiting_portal_backend/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// New builds the HTTP engine: global middleware, health endpoint and
// per-module route registration under /api.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(app.Logger))
	engine.Use(middleware.RateLimit(app.Logger, 50, 100))

	corsCfg := cors.DefaultConfig()
	if app.Config.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
	} else if origins := app.Config.GetCORSOrigins(); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	engine.Use(cors.New(corsCfg))

	engine.GET("/api/health", func(c *gin.Context) {
		if err := app.Health.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	for _, m := range app.Modules {
		m.RegisterRoutes(api)
		app.Logger.Debug("module routes registered", "module", m.Name())
	}

	return engine
}
