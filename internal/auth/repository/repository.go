package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")
var ErrDuplicateEmail = errors.New("email already registered")

const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Phone        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUserParams carries the validated, already-hashed registration input.
type CreateUserParams struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Phone        *string
}

// Onboarding is the result of a successful registration transaction.
type Onboarding struct {
	User             User
	OrganisationID   uuid.UUID
	OrganisationName string
}

// CreateUserWithOrganisation inserts the user, their default organisation,
// and the linking membership in a single transaction. The unique index on
// users.email settles concurrent registrations with the same address; the
// loser sees ErrDuplicateEmail and nothing is persisted.
func (r *Repository) CreateUserWithOrganisation(ctx context.Context, params CreateUserParams, orgName string) (Onboarding, error) {
	var result Onboarding

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Onboarding{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, first_name, last_name, email, password_hash, phone, created_at, updated_at
	`, params.FirstName, params.LastName, params.Email, params.PasswordHash, params.Phone).Scan(
		&result.User.ID,
		&result.User.FirstName,
		&result.User.LastName,
		&result.User.Email,
		&result.User.PasswordHash,
		&result.User.Phone,
		&result.User.CreatedAt,
		&result.User.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			err = ErrDuplicateEmail
		}
		return Onboarding{}, err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO organisations (name)
		VALUES ($1)
		RETURNING id, name
	`, orgName).Scan(&result.OrganisationID, &result.OrganisationName)
	if err != nil {
		return Onboarding{}, err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO organisation_members (organisation_id, user_id)
		VALUES ($1, $2)
	`, result.OrganisationID, result.User.ID); err != nil {
		return Onboarding{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return Onboarding{}, err
	}

	return result, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, password_hash, phone, created_at, updated_at
		FROM users WHERE email = $1
	`, email).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func (r *Repository) GetUserByID(ctx context.Context, userID uuid.UUID) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, password_hash, phone, created_at, updated_at
		FROM users WHERE id = $1
	`, userID).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
