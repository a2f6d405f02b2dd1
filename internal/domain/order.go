package domain

import "time"

// Order is a book purchase placed by a user.
type Order struct {
	ID        string
	UserID    string
	BookID    string
	Quantity  int
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
