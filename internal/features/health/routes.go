package health

import (
	"net/http"

	"invest/internal/platform/transport"
)

// Register wires health check endpoints.
func Register(mux *http.ServeMux, reg transport.Registrar, deps Dependencies) {
	handler := NewHandler(deps)
	reg.RegisterRoute(mux, "/healthz", http.HandlerFunc(handler.Health))
}
