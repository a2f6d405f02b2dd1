package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/bookstore-service/internal/domain"
	"github.com/spec-kit/bookstore-service/internal/events"
	"github.com/spec-kit/bookstore-service/internal/repository"
	apperrors "github.com/spec-kit/bookstore-service/pkg/util"
)

// UserService handles administrative user operations.
type UserService struct {
	users  repository.UserRepository
	roles  domain.RoleNames
	events events.Dispatcher
	logger *zap.Logger
}

// NewUserService creates the service.
func NewUserService(users repository.UserRepository, roles domain.RoleNames, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, roles: roles, events: dispatcher, logger: logger}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// UpdateRole changes the role of a user. Sessions issued before the change
// stop resolving because their snapshot no longer matches.
func (s *UserService) UpdateRole(ctx context.Context, actor *domain.User, userID, roleName string) (*domain.User, error) {
	role, err := s.roles.Parse(roleName)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": roleName})
	}

	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return nil, err
	}
	if current.Role == role {
		return current, nil
	}

	updated, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	event := events.NewEvent(events.EventUserRoleChanged, updated.ID, actorID(actor), events.UserRoleChangedPayload{
		OldRole: s.roles.Name(current.Role),
		NewRole: s.roles.Name(updated.Role),
	})
	if s.events != nil {
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}
	return updated, nil
}

func actorID(actor *domain.User) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}
