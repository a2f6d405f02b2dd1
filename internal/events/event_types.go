package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserProvisioned    EventType = "user_provisioned"
	EventUserRoleChanged    EventType = "user_role_changed"
	EventOrderStatusChanged EventType = "order_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, subjectID, actorID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// UserProvisionedPayload payload.
type UserProvisionedPayload struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	OldRole string `json:"old_role"`
	NewRole string `json:"new_role"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}
