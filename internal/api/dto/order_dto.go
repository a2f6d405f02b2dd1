package dto

import (
	"github.com/spec-kit/bookstore-service/internal/domain"
)

// StatusResponse is an order status in its stored and display forms.
type StatusResponse struct {
	Name           string `json:"name"`
	NameTranslated string `json:"name_translated"`
}

// OrderGetResponse is the public view of an order.
type OrderGetResponse struct {
	ID       string         `json:"id"`
	User     string         `json:"user"`
	Book     string         `json:"book"`
	Quantity int            `json:"quantity"`
	Status   StatusResponse `json:"status"`
}

// UpdateStatusRequest payload for PUT /orders/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func NewOrderGetResponse(order *domain.Order) OrderGetResponse {
	return OrderGetResponse{
		ID:       order.ID,
		User:     order.UserID,
		Book:     order.BookID,
		Quantity: order.Quantity,
		Status: StatusResponse{
			Name:           order.Status.Name(),
			NameTranslated: order.Status.DisplayName(),
		},
	}
}

func NewOrderList(orders []*domain.Order) []OrderGetResponse {
	out := make([]OrderGetResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderGetResponse(o))
	}
	return out
}
