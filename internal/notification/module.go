// Package notification provides event handlers for sending notifications in
// response to domain events. Domain modules publish events and never talk to
// email providers or templates directly.
package notification

import (
	"context"

	"orghub_backend/internal/email"
	"orghub_backend/internal/events"
	"orghub_backend/internal/scheduler"
	"orghub_backend/platform/logger"
)

// Module reacts to domain events with user-facing notifications.
type Module struct {
	sender   email.Sender
	enqueuer scheduler.WelcomeEmailEnqueuer
	log      *logger.Logger
}

// NewModule creates the notification module. sender is used for inline
// delivery when no task queue is configured.
func NewModule(sender email.Sender, log *logger.Logger) *Module {
	return &Module{sender: sender, log: log}
}

// SetEnqueuer routes welcome emails through the task queue instead of
// sending them inline.
func (m *Module) SetEnqueuer(enqueuer scheduler.WelcomeEmailEnqueuer) {
	m.enqueuer = enqueuer
}

// RegisterHandlers subscribes this module to the events it reacts to.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.UserRegistered{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.UserRegistered:
		return m.handleUserRegistered(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleUserRegistered(ctx context.Context, e events.UserRegistered) error {
	if m.enqueuer != nil {
		err := m.enqueuer.EnqueueWelcomeEmail(ctx, scheduler.WelcomeEmailPayload{
			UserID:           e.UserID.String(),
			Email:            e.Email,
			FirstName:        e.FirstName,
			OrganisationName: e.OrganisationName,
		})
		if err != nil {
			m.log.Error("welcome email enqueue failed", "user_id", e.UserID, "error", err)
			return err
		}
		return nil
	}

	if err := m.sender.SendWelcomeEmail(ctx, e.Email, e.FirstName, e.OrganisationName); err != nil {
		m.log.Error("welcome email send failed", "user_id", e.UserID, "error", err)
		return err
	}
	return nil
}

// Compile-time check that Module implements events.Handler
var _ events.Handler = (*Module)(nil)
