package wiring

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"invest/internal/domain"
)

// Session returns the credential session by delegating to the server.
func (d Deps) Session(r *http.Request) (*sessions.Session, error) {
	return d.srv.Session(r)
}

// EnsureCSRF ensures CSRF is initialized and available by delegating to configured services.
func (d Deps) EnsureCSRF(session *sessions.Session) string {
	return d.srv.EnsureCSRF(session)
}

// ValidateCSRF validates CSRF and returns an error on failure.
func (d Deps) ValidateCSRF(session *sessions.Session, token string) bool {
	return d.srv.ValidateCSRF(session, token)
}

// RenderTemplate renders a named template with the provided data.
func (d Deps) RenderTemplate(w http.ResponseWriter, name string, data interface{}) error {
	return d.srv.RenderTemplate(w, name, data)
}

// CurrentUser returns the authenticated user from the request.
func (d Deps) CurrentUser(r *http.Request) (domain.User, error) {
	return d.srv.CurrentUser(r)
}

func (d Deps) Logger() *zap.Logger {
	return d.srv.Logger()
}

// PingDB checks that the database answers.
func (d Deps) PingDB(ctx context.Context) error {
	return d.srv.DB().PingContext(ctx)
}
