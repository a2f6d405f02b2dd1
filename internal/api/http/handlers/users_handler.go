package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookstore-service/internal/api/dto"
	"github.com/spec-kit/bookstore-service/internal/auth"
	"github.com/spec-kit/bookstore-service/internal/domain"
	"github.com/spec-kit/bookstore-service/internal/service"
	apperrors "github.com/spec-kit/bookstore-service/pkg/util"
)

// UsersHandler exposes user endpoints.
type UsersHandler struct {
	users *service.UserService
	roles domain.RoleNames
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, roles domain.RoleNames) *UsersHandler {
	return &UsersHandler{users: users, roles: roles}
}

// Me GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return auth.ToDomainError(auth.ErrAuthenticationRequired)
	}
	return c.JSON(fiber.Map{"data": dto.NewUserGetResponse(user, h.roles)})
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.UserGetResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserGetResponse(u, h.roles))
	}
	return c.JSON(fiber.Map{"data": out})
}

// UpdateRole PUT /users/:id/role.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	actor, _ := auth.UserFromContext(c)
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Role == "" {
		return apperrors.NewValidationError("role required", nil)
	}

	user, err := h.users.UpdateRole(c.UserContext(), actor, c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserGetResponse(user, h.roles)})
}
