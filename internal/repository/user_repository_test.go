package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bookstore-service/internal/domain"
	"github.com/spec-kit/bookstore-service/internal/repository"
)

var userCols = []string{"id", "name", "surname", "email", "picture", "role", "created_at", "updated_at"}

func TestUserRepository_Create(t *testing.T) {
	t.Run("assigns id and timestamps", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := repository.NewUserRepository(mockPool, domain.DefaultRoleNames())
		now := time.Now()
		user := &domain.User{Name: "Ada", Surname: "Lovelace", Email: "ada@example.com", Role: domain.RoleUser}

		mockPool.ExpectQuery("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "Ada", "Lovelace", "ada@example.com", "", "user").
			WillReturnRows(mockPool.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		require.NoError(t, repo.Create(context.Background(), user))
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, now, user.CreatedAt)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("maps unique violation to ErrEmailTaken", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := repository.NewUserRepository(mockPool, domain.DefaultRoleNames())
		user := &domain.User{Email: "ada@example.com", Role: domain.RoleAdmin}

		mockPool.ExpectQuery("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "", "", "ada@example.com", "", "admin").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})

		err = repo.Create(context.Background(), user)
		assert.ErrorIs(t, err, repository.ErrEmailTaken)
		assert.Empty(t, user.ID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("other unique violations are not email conflicts", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := repository.NewUserRepository(mockPool, domain.DefaultRoleNames())
		user := &domain.User{Email: "ada@example.com", Role: domain.RoleAdmin}

		pkErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_pkey"}
		mockPool.ExpectQuery("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "", "", "ada@example.com", "", "admin").
			WillReturnError(pkErr)

		err = repo.Create(context.Background(), user)
		require.Error(t, err)
		assert.NotErrorIs(t, err, repository.ErrEmailTaken)
		assert.ErrorIs(t, err, pkErr)
		assert.Empty(t, user.ID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("rejects invalid role without touching the database", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := repository.NewUserRepository(mockPool, domain.DefaultRoleNames())
		err = repo.Create(context.Background(), &domain.User{Email: "x@example.com"})
		assert.ErrorIs(t, err, domain.ErrUnknownRole)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestUserRepository_FindByEmail(t *testing.T) {
	t.Run("decodes configured role names", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		roles := domain.RoleNames{Admin: "staff", User: "reader"}
		repo := repository.NewUserRepository(mockPool, roles)
		now := time.Now()

		mockPool.ExpectQuery("SELECT (.+) FROM users WHERE email=\\$1").
			WithArgs("ada@example.com").
			WillReturnRows(mockPool.NewRows(userCols).
				AddRow("u-1", "Ada", "Lovelace", "ada@example.com", "https://pic", "staff", now, now))

		user, err := repo.FindByEmail(context.Background(), "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u-1", user.ID)
		assert.Equal(t, domain.RoleAdmin, user.Role)
		assert.Equal(t, "https://pic", user.Picture)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when absent", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := repository.NewUserRepository(mockPool, domain.DefaultRoleNames())
		mockPool.ExpectQuery("SELECT (.+) FROM users WHERE email=\\$1").
			WithArgs("ghost@example.com").
			WillReturnError(pgx.ErrNoRows)

		user, err := repo.FindByEmail(context.Background(), "ghost@example.com")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("fails on unknown stored role", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()

		repo := repository.NewUserRepository(mockPool, domain.DefaultRoleNames())
		now := time.Now()
		mockPool.ExpectQuery("SELECT (.+) FROM users WHERE email=\\$1").
			WithArgs("ada@example.com").
			WillReturnRows(mockPool.NewRows(userCols).
				AddRow("u-1", "Ada", "", "ada@example.com", "", "superuser", now, now))

		_, err = repo.FindByEmail(context.Background(), "ada@example.com")
		assert.ErrorIs(t, err, domain.ErrUnknownRole)
	})
}

func TestUserRepository_UpdateRole(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := repository.NewUserRepository(mockPool, domain.DefaultRoleNames())
	now := time.Now()

	mockPool.ExpectQuery("UPDATE users SET role=\\$1").
		WithArgs("admin", "u-1").
		WillReturnRows(mockPool.NewRows(userCols).
			AddRow("u-1", "Ada", "Lovelace", "ada@example.com", "", "admin", now, now))

	user, err := repo.UpdateRole(context.Background(), "u-1", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUserRepository_List(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := repository.NewUserRepository(mockPool, domain.DefaultRoleNames())
	now := time.Now()

	mockPool.ExpectQuery("SELECT (.+) FROM users ORDER BY created_at").
		WillReturnRows(mockPool.NewRows(userCols).
			AddRow("u-1", "Ada", "", "ada@example.com", "", "admin", now, now).
			AddRow("u-2", "Alan", "", "alan@example.com", "", "user", now, now))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)
	assert.Equal(t, domain.RoleUser, users[1].Role)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
