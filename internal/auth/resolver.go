package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/spec-kit/bookstore-service/internal/domain"
	"github.com/spec-kit/bookstore-service/internal/repository"
)

// UserDirectory looks users up by email.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Resolver turns a RequestAuth into a verified user and enforces roles.
type Resolver struct {
	users UserDirectory
	roles domain.RoleNames
}

// NewResolver constructs a resolver.
func NewResolver(users UserDirectory, roles domain.RoleNames) *Resolver {
	return &Resolver{users: users, roles: roles}
}

// RequireAuthenticated returns the current directory record for the session
// user. The record must match the token snapshot exactly, so a role change
// after issuance invalidates the session.
func (r *Resolver) RequireAuthenticated(ctx context.Context, ra RequestAuth) (*domain.User, error) {
	if !ra.Authenticated {
		return nil, ErrAuthenticationRequired
	}

	user, err := r.users.FindByEmail(ctx, ra.Snapshot.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("resolve session user: %w", err)
	}
	if ProjectUser(*user, r.roles) != ra.Snapshot {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// RequireAdmin is RequireAuthenticated plus an admin role check.
func (r *Resolver) RequireAdmin(ctx context.Context, ra RequestAuth) (*domain.User, error) {
	user, err := r.RequireAuthenticated(ctx, ra)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, ErrInsufficientRole
	}
	return user, nil
}
