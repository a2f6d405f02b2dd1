package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/bookstore-service/internal/events"
)

// AuditService writes an audit log line for security relevant events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserProvisioned, a.handle)
	a.dispatcher.Subscribe(events.EventUserRoleChanged, a.handle)
	a.dispatcher.Subscribe(events.EventOrderStatusChanged, a.handle)
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("subject_id", event.SubjectID),
		zap.String("actor_id", event.ActorID),
		zap.Time("timestamp", event.Timestamp),
		zap.Any("payload", event.Payload),
	)
	return nil
}
