package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookstore-service/internal/api/dto"
	"github.com/spec-kit/bookstore-service/internal/auth"
	"github.com/spec-kit/bookstore-service/internal/service"
	apperrors "github.com/spec-kit/bookstore-service/pkg/util"
)

// OrdersHandler exposes order endpoints.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// Mine GET /orders/me.
func (h *OrdersHandler) Mine(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return auth.ToDomainError(auth.ErrAuthenticationRequired)
	}
	orders, err := h.orders.ListForUser(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrderList(orders)})
}

// List GET /orders.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	orders, err := h.orders.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrderList(orders)})
}

// UpdateStatus PUT /orders/:id/status.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, _ := auth.UserFromContext(c)
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	order, err := h.orders.UpdateStatus(c.UserContext(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrderGetResponse(order)})
}
