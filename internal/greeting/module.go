// Package greeting provides the geolocation/weather greeting module.
package greeting

import (
	"orghub_backend/internal/greeting/client"
	"orghub_backend/internal/greeting/handler"
	"orghub_backend/internal/greeting/service"
	apphttp "orghub_backend/internal/http"
	"orghub_backend/platform/config"
	"orghub_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Module is the greeting module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the greeting module. cache may be nil
// when Redis is not configured.
func NewModule(cfg config.GreetingConfig, cache *redis.Client, log *logger.Logger) *Module {
	c := client.New(cfg.GetGeolocationAPIURL(), cfg.GetWeatherAPIURL(), cfg.GetWeatherAPIKey(), log)
	svc := service.New(c, cache, cfg.GetGreetingCacheTTL(), log)

	return &Module{handler: handler.New(svc, log)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "greeting"
}

// RegisterRoutes mounts the greeting routes on the public API group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.API)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
