package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/bookstore-service/internal/domain"
)

// UserRepository is the user directory.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

type userRepository struct {
	db    DB
	roles domain.RoleNames
}

// NewUserRepository returns a Postgres-backed implementation. Roles are
// stored using their configured names.
func NewUserRepository(db DB, roles domain.RoleNames) UserRepository {
	return &userRepository{db: db, roles: roles}
}

const emailConstraint = "users_email_key"

const userColumns = `id, name, surname, email, picture, role, created_at, updated_at`

// Create inserts the user and assigns its identifier. Email uniqueness is
// enforced by the users_email_key index.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	role := r.roles.Name(user.Role)
	if role == "" {
		return fmt.Errorf("create user: %w", domain.ErrUnknownRole)
	}

	const query = `
        INSERT INTO users (id, name, surname, email, picture, role)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at`

	id := uuid.NewString()
	err := r.db.QueryRow(ctx, query,
		id,
		user.Name,
		user.Surname,
		user.Email,
		user.Picture,
		role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == emailConstraint {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = id
	return nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	name := r.roles.Name(role)
	if name == "" {
		return nil, fmt.Errorf("update role: %w", domain.ErrUnknownRole)
	}

	const query = `
        UPDATE users SET role=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + userColumns

	return r.scanUser(r.db.QueryRow(ctx, query, name, id))
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Surname,
		&user.Email,
		&user.Picture,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}

	parsed, err := r.roles.Parse(role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", user.ID, err)
	}
	user.Role = parsed
	return &user, nil
}
