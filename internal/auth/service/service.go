package service

import (
	"context"
	"errors"
	"fmt"

	"orghub_backend/internal/auth/password"
	"orghub_backend/internal/auth/repository"
	"orghub_backend/internal/auth/token"
	"orghub_backend/internal/events"
	"orghub_backend/platform/apperr"
	"orghub_backend/platform/logger"
	"orghub_backend/platform/phone"
)

type Service struct {
	repo   repository.AuthRepository
	issuer *token.Issuer
	bus    events.Bus
	log    *logger.Logger
}

func New(repo repository.AuthRepository, issuer *token.Issuer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, issuer: issuer, bus: bus, log: log}
}

// RegisterInput is the validated registration payload. The password is still
// plaintext here and must never be logged or persisted as-is.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
}

// Result pairs a user with a freshly issued access token.
type Result struct {
	User        repository.User
	AccessToken string
}

// Register runs the onboarding flow: hash the password, create the user with
// their default organisation and membership in one transaction, then issue a
// token. A duplicate email fails the whole flow with a conflict; nothing
// partial stays visible.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Result, error) {
	hash, err := password.Hash(input.Password)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindInternal, "Registration unsuccessful", err)
	}

	params := repository.CreateUserParams{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if input.Phone != "" {
		normalized := phone.NormalizeE164(input.Phone)
		params.Phone = &normalized
	}

	orgName := fmt.Sprintf("%s's Organisation", input.FirstName)

	onboarding, err := s.repo.CreateUserWithOrganisation(ctx, params, orgName)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.log.AuthEvent("register", input.Email, false, "duplicate email")
			return Result{}, apperr.Conflict("email already exists")
		}
		s.log.DatabaseError("create user", err)
		return Result{}, apperr.Wrap(apperr.KindBadRequest, "Registration unsuccessful", err)
	}

	accessToken, err := s.issuer.Issue(onboarding.User.ID)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindInternal, "Registration unsuccessful", err)
	}

	s.log.AuthEvent("register", input.Email, true, "")
	s.bus.Publish(ctx, events.UserRegistered{
		BaseEvent:        events.NewBaseEvent(),
		UserID:           onboarding.User.ID,
		Email:            onboarding.User.Email,
		FirstName:        onboarding.User.FirstName,
		OrganisationID:   onboarding.OrganisationID,
		OrganisationName: onboarding.OrganisationName,
	})

	return Result{User: onboarding.User, AccessToken: accessToken}, nil
}

// Login verifies credentials and issues a token. An unknown email and a bad
// password fail differently on this API: 404 versus 401.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (Result, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.AuthEvent("login", email, false, "unknown email")
			return Result{}, apperr.NotFound("user not found")
		}
		s.log.DatabaseError("get user by email", err)
		return Result{}, apperr.Wrap(apperr.KindInternal, "Authentication failed", err)
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", email, false, "bad password")
		return Result{}, apperr.Unauthorized("Authentication failed")
	}

	accessToken, err := s.issuer.Issue(user.ID)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindInternal, "Authentication failed", err)
	}

	s.log.AuthEvent("login", email, true, "")
	return Result{User: user, AccessToken: accessToken}, nil
}
