// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"orghub_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserRegistered is published when a new user successfully registers.
type UserRegistered struct {
	BaseEvent
	UserID           uuid.UUID `json:"userId"`
	Email            string    `json:"email"`
	FirstName        string    `json:"firstName"`
	OrganisationID   uuid.UUID `json:"organisationId"`
	OrganisationName string    `json:"organisationName"`
}

func (e UserRegistered) EventName() string { return "auth.user.registered" }

// =============================================================================
// Identity Domain Events
// =============================================================================

// OrganisationCreated is published when a user explicitly creates an organisation.
type OrganisationCreated struct {
	BaseEvent
	OrganisationID uuid.UUID `json:"organisationId"`
	Name           string    `json:"name"`
	CreatedBy      uuid.UUID `json:"createdBy"`
}

func (e OrganisationCreated) EventName() string { return "identity.organisation.created" }

// MemberAdded is published when a user is added to an organisation.
type MemberAdded struct {
	BaseEvent
	OrganisationID uuid.UUID `json:"organisationId"`
	UserID         uuid.UUID `json:"userId"`
	AddedBy        uuid.UUID `json:"addedBy"`
}

func (e MemberAdded) EventName() string { return "identity.organisation.member_added" }
