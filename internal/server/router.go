package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bewerbung-gateway/internal/applications"
	"bewerbung-gateway/internal/auth"
	"bewerbung-gateway/internal/generator"
	"bewerbung-gateway/internal/shared/config"
	"bewerbung-gateway/internal/shared/server/middleware"
	"bewerbung-gateway/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router exposes.
type RouterDeps struct {
	Config      config.Config
	FlowHandler *generator.Handler
	AppsHandler *applications.Handler
	AuthHandler *auth.Handler
}

// NewRouter constructs the gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = deps.Config.CORSAllowOrigins
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"}
	corsCfg.ExposeHeaders = []string{"X-Request-Id", "Content-Disposition"}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		cors.New(corsCfg),
		middleware.Auth(),
		middleware.RateLimit(deps.Config.RateLimitPerSec, deps.Config.RateLimitBurst),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, gin.H{"status": "online"})
	})

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterRoutes(api)
	}
	if deps.FlowHandler != nil {
		deps.FlowHandler.RegisterRoutes(api)
	}
	if deps.AppsHandler != nil {
		deps.AppsHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
