// Package router assembles the Gin engine: global middleware, health checks,
// and route registration for every domain module.
package router

import (
	"context"
	"net/http"
	"time"

	apphttp "orghub_backend/internal/http"
	"orghub_backend/platform/config"
	"orghub_backend/platform/httpkit"
	"orghub_backend/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RouterConfig combines the config interfaces the router needs.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// New builds the engine and mounts every module's routes.
func New(cfg RouterConfig, log *logger.Logger, health HealthChecker, modules ...apphttp.Module) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(log))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(corsMiddleware(cfg))

	rateLimiter := httpkit.NewIPRateLimiter(rate.Limit(100.0/60.0), 100, log)
	engine.Use(rateLimiter.RateLimit())

	engine.GET("/api/health", func(c *gin.Context) {
		if health != nil {
			if err := health.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := httpkit.AuthRequired(cfg)

	api := engine.Group("/api")
	protected := engine.Group("/api")
	protected.Use(authMiddleware)

	ctx := &apphttp.RouterContext{
		Engine:          engine,
		API:             api,
		Protected:       protected,
		Config:          cfg,
		AuthMiddleware:  authMiddleware,
		AuthRateLimiter: httpkit.NewAuthRateLimiter(log),
	}

	for _, module := range modules {
		module.RegisterRoutes(ctx)
		log.Info("routes registered", "module", module.Name())
	}

	return engine
}

func corsMiddleware(cfg config.HTTPConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}

	if cfg.GetCORSAllowAll() {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = cfg.GetCORSOrigins()
	}

	return cors.New(corsConfig)
}
