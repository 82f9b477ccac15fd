package auth

import (
	"net/http"
	"strings"

	"invest/internal/platform/ratelimit"
	"invest/internal/platform/transport"
)

// Register registers routes and handlers.
func Register(mux *http.ServeMux, reg transport.Registrar, deps Dependencies, loginPath, landingPath string, limiter *ratelimit.Limiter) {
	if i := strings.IndexByte(loginPath, '?'); i >= 0 {
		loginPath = loginPath[:i]
	}
	if loginPath == "" {
		loginPath = "/login"
	}
	handler := NewHandler(deps, landingPath)
	var login http.Handler = http.HandlerFunc(handler.Login)
	if limiter != nil {
		login = ratelimit.Middleware(limiter, login)
	}
	reg.RegisterRoute(mux, loginPath, login)
	reg.RegisterRoute(mux, "/logout", http.HandlerFunc(handler.Logout))
}
