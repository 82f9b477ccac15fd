package server

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// auditStatus maps an outcome error to the stored status label.
func auditStatus(err error) string {
	if err == nil {
		return "success"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "failure"
}

// mergeAuditMeta copies meta and overlays extra so callers can reuse their map.
func mergeAuditMeta(meta map[string]string, extra map[string]string) map[string]string {
	out := make(map[string]string, len(meta)+len(extra))
	for key, value := range meta {
		out[key] = value
	}
	for key, value := range extra {
		out[key] = value
	}
	return out
}

// auditAttempt records attempt as an audit event.
func (s *Server) auditAttempt(ctx context.Context, actorID int, action, target string, meta map[string]string) {
	meta = mergeAuditMeta(meta, map[string]string{"status": "attempt"})
	s.writeAudit(ctx, actorID, action, target, meta)
}

// auditOutcome records outcome as an audit event.
func (s *Server) auditOutcome(ctx context.Context, actorID int, action, target string, err error, meta map[string]string) {
	status := auditStatus(err)
	meta = mergeAuditMeta(meta, map[string]string{"status": status})
	if err != nil {
		meta["error"] = err.Error()
	}
	s.writeAudit(ctx, actorID, action, target, meta)
}

// writeAudit persists the entry; audit failures are logged and never fail the request.
func (s *Server) writeAudit(ctx context.Context, actorID int, action, target string, meta map[string]string) {
	if err := s.repos.Audit.WriteAuditLog(ctx, actorID, action, target, meta); err != nil {
		s.logger.Warn("audit write failed",
			zap.String("action", action),
			zap.String("status", meta["status"]),
			zap.Error(err),
		)
	}
}
