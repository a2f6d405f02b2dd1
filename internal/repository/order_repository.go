package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bookstore-service/internal/domain"
)

// OrderRepository provides read access to orders and admin status changes.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
}

type orderRepository struct {
	db DB
}

// NewOrderRepository returns a Postgres-backed implementation.
func NewOrderRepository(db DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, user_id, book_id, quantity, status, created_at, updated_at`

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.db.QueryRow(ctx, query, id))
}

func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	if !status.Valid() {
		return fmt.Errorf("update order: %w", domain.ErrUnknownStatus)
	}

	const query = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.db.Exec(ctx, query, status.Name(), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order  domain.Order
		status string
	)
	if err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.BookID,
		&order.Quantity,
		&status,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}

	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", order.ID, err)
	}
	order.Status = parsed
	return &order, nil
}
