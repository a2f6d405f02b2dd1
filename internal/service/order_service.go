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

// OrderService exposes order reads and admin status changes.
type OrderService struct {
	orders repository.OrderRepository
	events events.Dispatcher
	logger *zap.Logger
}

// NewOrderService creates the service.
func NewOrderService(orders repository.OrderRepository, dispatcher events.Dispatcher, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{orders: orders, events: dispatcher, logger: logger}
}

// ListForUser returns the orders owned by user.
func (s *OrderService) ListForUser(ctx context.Context, user *domain.User) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, user.ID)
}

// ListAll returns every order.
func (s *OrderService) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.List(ctx)
}

// UpdateStatus moves an order to the named status.
func (s *OrderService) UpdateStatus(ctx context.Context, actor *domain.User, orderID, statusName string) (*domain.Order, error) {
	status, err := domain.ParseStatus(statusName)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": statusName})
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("order", map[string]any{"id": orderID})
		}
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	previous := order.Status
	order.Status = status

	event := events.NewEvent(events.EventOrderStatusChanged, order.ID, actorID(actor), events.OrderStatusChangedPayload{
		OldStatus: previous.Name(),
		NewStatus: status.Name(),
	})
	if s.events != nil {
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}
	return order, nil
}
