package dashboard

import (
	"net/http"

	"invest/internal/platform/transport"
)

// Register wires the signed-in pages. The guard in front of the mux keeps
// anonymous visitors out; the handlers re-check the session user.
func Register(mux *http.ServeMux, reg transport.Registrar, deps Dependencies, landingPath string, cfg Config) {
	if landingPath == "" {
		landingPath = "/user/dashboard"
	}
	handler := NewHandler(deps, cfg)
	reg.RegisterRoute(mux, landingPath, http.HandlerFunc(handler.Dashboard))
	reg.RegisterRoute(mux, "/user/security", http.HandlerFunc(handler.Security))
}
