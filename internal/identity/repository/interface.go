package repository

import (
	"context"

	"github.com/google/uuid"
)

// IdentityRepository defines the interface for user/organisation data operations.
// This allows services to depend on an abstraction rather than concrete implementation,
// improving testability and modularity.
type IdentityRepository interface {
	CreateOrganisationWithOwner(ctx context.Context, name string, description *string, ownerID uuid.UUID) (Organisation, error)
	GetOrganisation(ctx context.Context, organisationID uuid.UUID) (Organisation, error)
	ListUserOrganisations(ctx context.Context, userID uuid.UUID) ([]Organisation, error)
	AddMember(ctx context.Context, q DBTX, organisationID, userID uuid.UUID) error
	IsMember(ctx context.Context, userID, organisationID uuid.UUID) (bool, error)
	SharedOrganisationIDs(ctx context.Context, userA, userB uuid.UUID) ([]uuid.UUID, error)
	GetUser(ctx context.Context, userID uuid.UUID) (User, error)
}

// Ensure Repository implements IdentityRepository
var _ IdentityRepository = (*Repository)(nil)
