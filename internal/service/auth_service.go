package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/bookstore-service/internal/auth"
	"github.com/spec-kit/bookstore-service/internal/config"
	"github.com/spec-kit/bookstore-service/internal/domain"
	"github.com/spec-kit/bookstore-service/internal/events"
	"github.com/spec-kit/bookstore-service/internal/observability"
	"github.com/spec-kit/bookstore-service/internal/repository"
)

// IdentityVerifier validates identity provider tokens.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (domain.Claims, error)
}

// LoginInput is a login request. Role is only consulted for first logins.
type LoginInput struct {
	IdentityToken string
	Role          *string
}

// LoginResult is a completed login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
	Created   bool
}

// AuthService coordinates the login flow.
type AuthService struct {
	users    repository.UserRepository
	verifier IdentityVerifier
	sessions *auth.SessionIssuer
	roles    domain.RoleNames
	events   events.Dispatcher
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Verifier IdentityVerifier
	Events   events.Dispatcher
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

// NewAuthService builds the service and its session issuer.
func NewAuthService(cfg config.Config, deps AuthDependencies) (*AuthService, error) {
	roles := cfg.Auth.RoleNames()
	sessions, err := auth.NewSessionIssuer(cfg.Auth.HashSecretKey, cfg.Auth.HashAlgorithm, roles)
	if err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AuthService{
		users:    deps.UserRepo,
		verifier: deps.Verifier,
		sessions: sessions,
		roles:    roles,
		events:   deps.Events,
		metrics:  deps.Metrics,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Login verifies the identity token, provisions the user on first login and
// issues a session token. Each step fails with its own error kind.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if in.IdentityToken == "" {
		s.metrics.RecordLogin("invalid_token")
		return nil, fmt.Errorf("%w: missing identity token", auth.ErrTokenVerificationFailed)
	}

	claims, err := s.verifier.Verify(ctx, in.IdentityToken)
	if err != nil {
		s.metrics.RecordLogin("invalid_token")
		return nil, err
	}
	if claims.Email == "" {
		s.metrics.RecordLogin("invalid_token")
		return nil, fmt.Errorf("%w: token carries no email", auth.ErrTokenVerificationFailed)
	}

	user, created, err := s.lookupOrCreate(ctx, claims, in.Role)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRoleForNewUser) {
			s.metrics.RecordLogin("invalid_role")
		} else {
			s.metrics.RecordLogin("error")
		}
		return nil, err
	}

	token, expiresAt, err := s.sessions.Issue(*user, s.now())
	if err != nil {
		s.metrics.RecordLogin("error")
		return nil, fmt.Errorf("issue session: %w", err)
	}

	if created {
		s.metrics.RecordLogin("new_user")
	} else {
		s.metrics.RecordLogin("success")
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user, Created: created}, nil
}

func (s *AuthService) lookupOrCreate(ctx context.Context, claims domain.Claims, requestedRole *string) (*domain.User, bool, error) {
	user, err := s.users.FindByEmail(ctx, claims.Email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("find user: %w", err)
	}

	if requestedRole == nil {
		return nil, false, fmt.Errorf("%w: role is required", auth.ErrInvalidRoleForNewUser)
	}
	role, err := s.roles.Parse(*requestedRole)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", auth.ErrInvalidRoleForNewUser, err)
	}

	user = &domain.User{
		Name:    claims.GivenName,
		Surname: claims.FamilyName,
		Email:   claims.Email,
		Picture: claims.Picture,
		Role:    role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrEmailTaken) {
			return nil, false, fmt.Errorf("create user: %w", err)
		}
		// A concurrent first login created the record; use it.
		existing, findErr := s.users.FindByEmail(ctx, claims.Email)
		if findErr != nil {
			return nil, false, fmt.Errorf("find user after conflict: %w", findErr)
		}
		return existing, false, nil
	}

	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", user.Role.String()))
	s.publish(ctx, events.NewEvent(events.EventUserProvisioned, user.ID, user.ID, events.UserProvisionedPayload{
		Email: user.Email,
		Role:  s.roles.Name(user.Role),
	}))
	return user, true, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// Sessions exposes the session issuer for the session stage middleware.
func (s *AuthService) Sessions() *auth.SessionIssuer {
	return s.sessions
}
