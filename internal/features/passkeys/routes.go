package passkeys

import (
	"net/http"

	"invest/internal/platform/transport"
)

// Register wires passkey routes. Enrollment lives under /user and sits behind
// the credential guard; the sign-in ceremony is public.
func Register(mux *http.ServeMux, reg transport.Registrar, deps Dependencies, cfg Config) {
	handler := NewHandler(deps, cfg)
	reg.RegisterRoute(mux, "/user/passkeys/register/options", http.HandlerFunc(handler.RegisterOptions))
	reg.RegisterRoute(mux, "/user/passkeys/register/finish", http.HandlerFunc(handler.RegisterFinish))
	reg.RegisterRoute(mux, "/user/passkeys/delete", http.HandlerFunc(handler.Delete))
	reg.RegisterRoute(mux, "/passkeys/login/options", http.HandlerFunc(handler.LoginOptions))
	reg.RegisterRoute(mux, "/passkeys/login/finish", http.HandlerFunc(handler.LoginFinish))
}
