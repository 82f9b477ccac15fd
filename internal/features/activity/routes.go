package activity

import (
	"net/http"

	"invest/internal/platform/transport"
)

// Register wires the account activity export.
func Register(mux *http.ServeMux, reg transport.Registrar, deps Dependencies) {
	handler := NewHandler(deps)
	reg.RegisterRoute(mux, "/user/activity", http.HandlerFunc(handler.Download))
}
