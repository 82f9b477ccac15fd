package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"invest/internal/domain"
	"invest/internal/platform/core"
)

var errNotLoggedIn = errors.New("not logged in")

// EnsureCSRF ensures CSRF is initialized and available.
func (s *Server) EnsureCSRF(session *sessions.Session) string {
	return s.ensureCSRF(session)
}

// ValidateCSRF validates CSRF and returns an error on failure.
func (s *Server) ValidateCSRF(session *sessions.Session, token string) bool {
	return s.validateCSRF(session, token)
}

// RenderTemplate renders a named template with the provided data.
func (s *Server) RenderTemplate(w http.ResponseWriter, name string, data interface{}) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.tmpl.ExecuteTemplate(w, name, data)
}

// Session returns the credential session. A cookie that fails to decode
// yields a fresh session, which the caller may save to replace it.
func (s *Server) Session(r *http.Request) (*sessions.Session, error) {
	return s.store.Get(r, s.cfg.SessionCookie)
}

// CurrentUser returns the authenticated user from the session.
func (s *Server) CurrentUser(r *http.Request) (domain.User, error) {
	session, _ := s.store.Get(r, s.cfg.SessionCookie)
	id, ok := core.SessionUserID(session)
	if !ok {
		return domain.User{}, errNotLoggedIn
	}
	return s.repos.Users.GetUserByID(r.Context(), id)
}

// AuditAttempt records attempt as an audit event.
func (s *Server) AuditAttempt(ctx context.Context, actorID int, action, target string, meta map[string]string) {
	s.auditAttempt(ctx, actorID, action, target, meta)
}

// AuditOutcome records outcome as an audit event.
func (s *Server) AuditOutcome(ctx context.Context, actorID int, action, target string, err error, meta map[string]string) {
	s.auditOutcome(ctx, actorID, action, target, err, meta)
}
