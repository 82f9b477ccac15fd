package audit

import (
	"context"

	"invest/internal/domain"
)

// Repository defines persistence operations for audit logs.
type Repository interface {
	WriteAuditLog(ctx context.Context, actorID int, action, target string, metadata map[string]string) error
	// ListAuditLogs and CountAuditLogs cover every actor when actorID is 0.
	ListAuditLogs(ctx context.Context, actorID, limit, offset int) ([]domain.AuditLog, error)
	CountAuditLogs(ctx context.Context, actorID int) (int, error)
}
