package registration

import (
	"net/http"

	"invest/internal/platform/ratelimit"
	"invest/internal/platform/transport"
)

// Register wires the signup route behind a per-IP throttle on submissions.
func Register(mux *http.ServeMux, reg transport.Registrar, deps Dependencies, cfg Config, limiter *ratelimit.Limiter) {
	handler := NewHandler(deps, cfg)
	var h http.Handler = http.HandlerFunc(handler.Register)
	if limiter != nil {
		h = ratelimit.Middleware(limiter, h)
	}
	reg.RegisterRoute(mux, "/register", h)
}
