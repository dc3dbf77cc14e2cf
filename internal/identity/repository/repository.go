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
var ErrDuplicateMember = errors.New("membership already exists")

const uniqueViolation = "23505"

// DBTX is the subset of pgx querying shared by the pool and transactions,
// letting writes join a caller-owned transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Organisation struct {
	ID          uuid.UUID
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// User is the read-only user view this module serves; the password hash is
// deliberately not selected.
type User struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Phone     *string
}

func (r *Repository) CreateOrganisation(ctx context.Context, q DBTX, name string, description *string) (Organisation, error) {
	var org Organisation
	err := q.QueryRow(ctx, `
		INSERT INTO organisations (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description, created_at, updated_at
	`, name, description).Scan(&org.ID, &org.Name, &org.Description, &org.CreatedAt, &org.UpdatedAt)
	return org, err
}

// CreateOrganisationWithOwner creates an organisation and its first
// membership in one transaction.
func (r *Repository) CreateOrganisationWithOwner(ctx context.Context, name string, description *string, ownerID uuid.UUID) (Organisation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Organisation{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	org, err := r.CreateOrganisation(ctx, tx, name, description)
	if err != nil {
		return Organisation{}, err
	}

	if err = r.AddMember(ctx, tx, org.ID, ownerID); err != nil {
		return Organisation{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return Organisation{}, err
	}

	return org, nil
}

func (r *Repository) GetOrganisation(ctx context.Context, organisationID uuid.UUID) (Organisation, error) {
	var org Organisation
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM organisations
		WHERE id = $1
	`, organisationID).Scan(&org.ID, &org.Name, &org.Description, &org.CreatedAt, &org.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Organisation{}, ErrNotFound
	}
	return org, err
}

func (r *Repository) ListUserOrganisations(ctx context.Context, userID uuid.UUID) ([]Organisation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT o.id, o.name, o.description, o.created_at, o.updated_at
		FROM organisations o
		JOIN organisation_members om ON om.organisation_id = o.id
		WHERE om.user_id = $1
		ORDER BY o.created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orgs := make([]Organisation, 0)
	for rows.Next() {
		var org Organisation
		if err := rows.Scan(&org.ID, &org.Name, &org.Description, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return orgs, nil
}

// AddMember inserts a membership edge. The composite primary key on
// (organisation_id, user_id) settles concurrent inserts of the same edge;
// the loser sees ErrDuplicateMember.
func (r *Repository) AddMember(ctx context.Context, q DBTX, organisationID, userID uuid.UUID) error {
	if q == nil {
		q = r.pool
	}
	_, err := q.Exec(ctx, `
		INSERT INTO organisation_members (organisation_id, user_id)
		VALUES ($1, $2)
	`, organisationID, userID)
	if isUniqueViolation(err) {
		return ErrDuplicateMember
	}
	return err
}

func (r *Repository) IsMember(ctx context.Context, userID, organisationID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM organisation_members
			WHERE user_id = $1 AND organisation_id = $2
		)
	`, userID, organisationID).Scan(&exists)
	return exists, err
}

// SharedOrganisationIDs returns the intersection of both users' membership
// org-id sets.
func (r *Repository) SharedOrganisationIDs(ctx context.Context, userA, userB uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT organisation_id FROM organisation_members WHERE user_id = $1
		INTERSECT
		SELECT organisation_id FROM organisation_members WHERE user_id = $2
	`, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return ids, nil
}

func (r *Repository) GetUser(ctx context.Context, userID uuid.UUID) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, phone
		FROM users
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
