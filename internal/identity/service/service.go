package service

import (
	"context"
	"errors"

	"orghub_backend/internal/events"
	"orghub_backend/internal/identity/repository"
	"orghub_backend/platform/apperr"
	"orghub_backend/platform/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo repository.IdentityRepository
	bus  events.Bus
	log  *logger.Logger
}

func New(repo repository.IdentityRepository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// SharedOrganisations returns the organisation ids both users belong to.
// An empty set means the users have no shared context.
func (s *Service) SharedOrganisations(ctx context.Context, userA, userB uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.SharedOrganisationIDs(ctx, userA, userB)
}

// CanViewUser is the sole authorization predicate for single-user retrieval:
// a user may view themselves, or any user they share at least one
// organisation with. Unresolvable users are never viewable.
func (s *Service) CanViewUser(ctx context.Context, requesterID, targetID uuid.UUID) (bool, error) {
	if _, err := s.repo.GetUser(ctx, requesterID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if _, err := s.repo.GetUser(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if requesterID == targetID {
		return true, nil
	}

	shared, err := s.repo.SharedOrganisationIDs(ctx, requesterID, targetID)
	if err != nil {
		return false, err
	}
	return len(shared) > 0, nil
}

// GetUser returns the target user if the requester may view them.
func (s *Service) GetUser(ctx context.Context, requesterID, targetID uuid.UUID) (repository.User, error) {
	user, err := s.repo.GetUser(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.User{}, apperr.NotFound("user not found")
		}
		s.log.DatabaseError("get user", err)
		return repository.User{}, apperr.Wrap(apperr.KindInternal, "could not load user", err)
	}

	if requesterID != targetID {
		shared, err := s.repo.SharedOrganisationIDs(ctx, requesterID, targetID)
		if err != nil {
			s.log.DatabaseError("shared organisations", err)
			return repository.User{}, apperr.Wrap(apperr.KindInternal, "could not load user", err)
		}
		if len(shared) == 0 {
			return repository.User{}, apperr.Forbidden("you do not share an organisation with this user")
		}
	}

	return user, nil
}

// ListOrganisations returns every organisation the user belongs to.
func (s *Service) ListOrganisations(ctx context.Context, userID uuid.UUID) ([]repository.Organisation, error) {
	orgs, err := s.repo.ListUserOrganisations(ctx, userID)
	if err != nil {
		s.log.DatabaseError("list organisations", err)
		return nil, apperr.Wrap(apperr.KindInternal, "could not load organisations", err)
	}
	return orgs, nil
}

// GetOrganisation returns the organisation if the requester is a member.
func (s *Service) GetOrganisation(ctx context.Context, requesterID, organisationID uuid.UUID) (repository.Organisation, error) {
	org, err := s.repo.GetOrganisation(ctx, organisationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Organisation{}, apperr.NotFound("organisation not found")
		}
		s.log.DatabaseError("get organisation", err)
		return repository.Organisation{}, apperr.Wrap(apperr.KindInternal, "could not load organisation", err)
	}

	member, err := s.repo.IsMember(ctx, requesterID, organisationID)
	if err != nil {
		s.log.DatabaseError("membership check", err)
		return repository.Organisation{}, apperr.Wrap(apperr.KindInternal, "could not load organisation", err)
	}
	if !member {
		return repository.Organisation{}, apperr.Forbidden("you are not a member of this organisation")
	}

	return org, nil
}

// CreateOrganisation creates an organisation with the requester as its first
// member, in one transaction.
func (s *Service) CreateOrganisation(ctx context.Context, creatorID uuid.UUID, name string, description *string) (repository.Organisation, error) {
	org, err := s.repo.CreateOrganisationWithOwner(ctx, name, description, creatorID)
	if err != nil {
		s.log.DatabaseError("create organisation", err)
		return repository.Organisation{}, apperr.Wrap(apperr.KindBadRequest, "Client error", err)
	}

	s.bus.Publish(ctx, events.OrganisationCreated{
		BaseEvent:      events.NewBaseEvent(),
		OrganisationID: org.ID,
		Name:           org.Name,
		CreatedBy:      creatorID,
	})

	return org, nil
}

// AddMember links a user to an organisation. Both sides must exist, and the
// edge must not already be present.
func (s *Service) AddMember(ctx context.Context, requesterID, organisationID, userID uuid.UUID) error {
	if _, err := s.repo.GetOrganisation(ctx, organisationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("organisation not found")
		}
		s.log.DatabaseError("get organisation", err)
		return apperr.Wrap(apperr.KindInternal, "could not add user", err)
	}

	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		s.log.DatabaseError("get user", err)
		return apperr.Wrap(apperr.KindInternal, "could not add user", err)
	}

	if err := s.repo.AddMember(ctx, nil, organisationID, userID); err != nil {
		if errors.Is(err, repository.ErrDuplicateMember) {
			return apperr.Conflict("user is already a member of this organisation")
		}
		s.log.DatabaseError("add member", err)
		return apperr.Wrap(apperr.KindInternal, "could not add user", err)
	}

	s.bus.Publish(ctx, events.MemberAdded{
		BaseEvent:      events.NewBaseEvent(),
		OrganisationID: organisationID,
		UserID:         userID,
		AddedBy:        requesterID,
	})

	return nil
}
