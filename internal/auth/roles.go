package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookstore-service/internal/domain"
)

// Authenticated requires a valid, current session.
func (r *Resolver) Authenticated() fiber.Handler {
	return r.guard(r.RequireAuthenticated)
}

// Admin requires a valid, current session of an admin.
func (r *Resolver) Admin() fiber.Handler {
	return r.guard(r.RequireAdmin)
}

func (r *Resolver) guard(check func(context.Context, RequestAuth) (*domain.User, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := check(c.UserContext(), RequestAuthFromContext(c))
		if err != nil {
			return ToDomainError(err)
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

// UserFromContext returns the user admitted by a guard.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(userKey).(*domain.User)
	return user, ok && user != nil
}
