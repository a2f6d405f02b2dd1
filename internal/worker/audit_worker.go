package worker

import (
	"github.com/spec-kit/bookstore-service/internal/service"
)

// StartAuditWorker registers the audit log subscribers.
func StartAuditWorker(audit *service.AuditService) {
	if audit == nil {
		return
	}
	audit.RegisterHandlers()
}
