// Package identity provides the user/organisation bounded context module:
// membership, organisation management, and the shared-organisation
// visibility rule.
package identity

import (
	"orghub_backend/internal/events"
	apphttp "orghub_backend/internal/http"
	"orghub_backend/internal/identity/handler"
	"orghub_backend/internal/identity/repository"
	"orghub_backend/internal/identity/service"
	"orghub_backend/platform/logger"
	"orghub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the identity module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "identity"
}

// Service returns the identity service for use by other composition-root wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts identity routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
