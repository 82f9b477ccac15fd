package wiring

import (
	"context"

	"invest/internal/domain"
)

// Audit.
func (d Deps) ListAuditLogs(ctx context.Context, actorID, limit, offset int) ([]domain.AuditLog, error) {
	return d.repos.Audit.ListAuditLogs(ctx, actorID, limit, offset)
}

func (d Deps) CountAuditLogs(ctx context.Context, actorID int) (int, error) {
	return d.repos.Audit.CountAuditLogs(ctx, actorID)
}

// AuditAttempt records attempt as an audit event.
func (d Deps) AuditAttempt(ctx context.Context, actorID int, action, target string, meta map[string]string) {
	d.srv.AuditAttempt(ctx, actorID, action, target, meta)
}

// AuditOutcome records outcome as an audit event.
func (d Deps) AuditOutcome(ctx context.Context, actorID int, action, target string, err error, meta map[string]string) {
	d.srv.AuditOutcome(ctx, actorID, action, target, err, meta)
}
