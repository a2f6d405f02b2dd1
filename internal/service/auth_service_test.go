package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bookstore-service/internal/auth"
	"github.com/spec-kit/bookstore-service/internal/config"
	"github.com/spec-kit/bookstore-service/internal/domain"
	"github.com/spec-kit/bookstore-service/internal/events"
	"github.com/spec-kit/bookstore-service/internal/observability"
	"github.com/spec-kit/bookstore-service/internal/repository"
)

var adaClaims = domain.Claims{
	Subject:    "1122334455",
	Email:      "ada@example.com",
	Name:       "Ada Lovelace",
	GivenName:  "Ada",
	FamilyName: "Lovelace",
	Picture:    "https://pic",
}

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		GoogleClientID: "client",
		HashSecretKey:  "test-secret",
		HashAlgorithm:  "HS256",
		AdminRole:      "admin",
		UserRole:       "user",
	}}
}

type authFixture struct {
	svc        *AuthService
	users      *mockUserRepository
	metrics    *observability.Metrics
	dispatcher events.Dispatcher
	now        time.Time
}

func newAuthFixture(t *testing.T, verifier IdentityVerifier) *authFixture {
	t.Helper()
	f := &authFixture{
		users:      &mockUserRepository{},
		metrics:    observability.NewMetrics(),
		dispatcher: events.NewInMemoryDispatcher(),
		now:        time.Unix(1_750_000_000, 0),
	}
	svc, err := NewAuthService(testConfig(), AuthDependencies{
		UserRepo: f.users,
		Verifier: verifier,
		Events:   f.dispatcher,
		Metrics:  f.metrics,
	})
	require.NoError(t, err)
	svc.now = func() time.Time { return f.now }
	f.svc = svc
	return f
}

func strPtr(s string) *string { return &s }

func TestNewAuthService_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.HashSecretKey = ""
	_, err := NewAuthService(cfg, AuthDependencies{})
	assert.Error(t, err)
}

func TestLogin_NewUser(t *testing.T) {
	f := newAuthFixture(t, stubVerifier{claims: adaClaims})

	var provisioned []events.Event
	f.dispatcher.Subscribe(events.EventUserProvisioned, func(_ context.Context, e events.Event) error {
		provisioned = append(provisioned, e)
		return nil
	})

	f.users.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, repository.ErrNotFound).Once()
	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "Ada" && u.Surname == "Lovelace" && u.Email == "ada@example.com" &&
			u.Picture == "https://pic" && u.Role == domain.RoleUser
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = "u-new"
	}).Return(nil).Once()

	result, err := f.svc.Login(context.Background(), LoginInput{IdentityToken: "google-token", Role: strPtr("user")})
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Equal(t, "u-new", result.User.ID)
	assert.Equal(t, f.now.Unix()+86400, result.ExpiresAt.Unix())

	claims, err := f.svc.Sessions().Decode(result.Token)
	require.NoError(t, err)
	assert.InDelta(t, f.now.Unix()+86400, claims.Expires, 1)
	assert.Equal(t, "user", claims.User.Role.Name)
	assert.Equal(t, "User", claims.User.Role.NameTranslated)
	assert.Equal(t, "Ada", claims.User.Name)
	assert.Equal(t, "Lovelace", claims.User.Surname)

	f.users.AssertNumberOfCalls(t, "Create", 1)
	f.users.AssertExpectations(t)
	require.Len(t, provisioned, 1)
	assert.Equal(t, "u-new", provisioned[0].SubjectID)
	assert.Equal(t, int64(1), f.metrics.LoginCount("new_user"))
}

func TestLogin_NewUserInvalidRole(t *testing.T) {
	tests := []struct {
		name string
		role *string
	}{
		{name: "absent role", role: nil},
		{name: "unknown role", role: strPtr("superuser")},
		{name: "empty role", role: strPtr("")},
		{name: "identity name instead of configured string", role: strPtr("ADMIN")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t, stubVerifier{claims: adaClaims})
			f.users.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, repository.ErrNotFound)

			result, err := f.svc.Login(context.Background(), LoginInput{IdentityToken: "google-token", Role: tt.role})
			assert.Nil(t, result)
			assert.ErrorIs(t, err, auth.ErrInvalidRoleForNewUser)
			f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			assert.Equal(t, int64(1), f.metrics.LoginCount("invalid_role"))
		})
	}
}

func TestLogin_ExistingUserIgnoresRequestedRole(t *testing.T) {
	f := newAuthFixture(t, stubVerifier{claims: adaClaims})
	existing := &domain.User{ID: "u-1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleUser}
	f.users.On("FindByEmail", mock.Anything, "ada@example.com").Return(existing, nil)

	for _, role := range []*string{strPtr("admin"), strPtr("garbage"), nil} {
		result, err := f.svc.Login(context.Background(), LoginInput{IdentityToken: "google-token", Role: role})
		require.NoError(t, err)
		assert.False(t, result.Created)

		claims, err := f.svc.Sessions().Decode(result.Token)
		require.NoError(t, err)
		assert.Equal(t, "user", claims.User.Role.Name)
		assert.Equal(t, "u-1", claims.User.ID)
	}
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Equal(t, int64(3), f.metrics.LoginCount("success"))
}

func TestLogin_VerificationFailure(t *testing.T) {
	verifyErr := fmt.Errorf("%w: bad audience", auth.ErrTokenVerificationFailed)
	f := newAuthFixture(t, stubVerifier{err: verifyErr})

	_, err := f.svc.Login(context.Background(), LoginInput{IdentityToken: "google-token", Role: strPtr("user")})
	assert.ErrorIs(t, err, auth.ErrTokenVerificationFailed)

	_, err = f.svc.Login(context.Background(), LoginInput{Role: strPtr("user")})
	assert.ErrorIs(t, err, auth.ErrTokenVerificationFailed)

	f.users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	assert.Equal(t, int64(2), f.metrics.LoginCount("invalid_token"))
}

func TestLogin_TokenWithoutEmail(t *testing.T) {
	claims := adaClaims
	claims.Email = ""
	f := newAuthFixture(t, stubVerifier{claims: claims})

	_, err := f.svc.Login(context.Background(), LoginInput{IdentityToken: "google-token", Role: strPtr("user")})
	assert.ErrorIs(t, err, auth.ErrTokenVerificationFailed)
	f.users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestLogin_ConcurrentFirstLogin(t *testing.T) {
	f := newAuthFixture(t, stubVerifier{claims: adaClaims})
	winner := &domain.User{ID: "u-first", Email: "ada@example.com", Role: domain.RoleAdmin}

	f.users.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, repository.ErrNotFound).Once()
	f.users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrEmailTaken).Once()
	f.users.On("FindByEmail", mock.Anything, "ada@example.com").Return(winner, nil).Once()

	result, err := f.svc.Login(context.Background(), LoginInput{IdentityToken: "google-token", Role: strPtr("user")})
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, winner, result.User)
	f.users.AssertExpectations(t)
}

func TestLogin_DirectoryErrors(t *testing.T) {
	boom := errors.New("connection reset")

	t.Run("lookup", func(t *testing.T) {
		f := newAuthFixture(t, stubVerifier{claims: adaClaims})
		f.users.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, boom)

		_, err := f.svc.Login(context.Background(), LoginInput{IdentityToken: "t", Role: strPtr("user")})
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, auth.ErrInvalidRoleForNewUser)
		assert.Equal(t, int64(1), f.metrics.LoginCount("error"))
	})

	t.Run("create", func(t *testing.T) {
		f := newAuthFixture(t, stubVerifier{claims: adaClaims})
		f.users.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, repository.ErrNotFound)
		f.users.On("Create", mock.Anything, mock.Anything).Return(boom)

		_, err := f.svc.Login(context.Background(), LoginInput{IdentityToken: "t", Role: strPtr("admin")})
		assert.ErrorIs(t, err, boom)
	})
}
