package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownStatus is returned when a string does not name an order status.
var ErrUnknownStatus = errors.New("unknown order status")

// Status is the lifecycle state of an order. The set is closed.
type Status int

const (
	StatusPending Status = iota + 1
	StatusApproved
	StatusRejected
)

// Statuses lists every order status.
func Statuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusRejected}
}

// Valid reports whether s is a member of the status set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Name returns the stored form of the status. Approved orders are stored
// as "confirmed".
func (s Status) Name() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "confirmed"
	case StatusRejected:
		return "rejected"
	default:
		return ""
	}
}

// DisplayName returns the human label for the status.
func (s Status) DisplayName() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	default:
		return ""
	}
}

// Equals reports whether value is the stored form of s.
func (s Status) Equals(value string) bool {
	return s.Valid() && s.Name() == value
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusApproved:
		return "APPROVED"
	case StatusRejected:
		return "REJECTED"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ParseStatus maps a stored status string to its Status.
func ParseStatus(value string) (Status, error) {
	for _, s := range Statuses() {
		if s.Equals(value) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, value)
}
