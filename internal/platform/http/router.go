package http

import (
	"net/http"

	"invest/internal/features/activity"
	"invest/internal/features/auth"
	"invest/internal/features/dashboard"
	"invest/internal/features/health"
	"invest/internal/features/passkeys"
	"invest/internal/features/registration"
	"invest/internal/platform/logging"
	"invest/internal/platform/ratelimit"
	investserver "invest/internal/platform/server"
	"invest/internal/platform/wiring"
)

// Routes builds the HTTP mux. Protected paths go through the credential
// guard before reaching their handlers.
func Routes(s *investserver.Server) http.Handler {
	mux := http.NewServeMux()
	register := func(pattern string, handler http.Handler) {
		s.RegisterRoute(mux, pattern, handler)
	}

	cfg := s.Config()
	deps := wiring.NewDeps(s)
	register("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))

	registration.Register(mux, s, deps, registration.Config{
		LandingPath:   cfg.LandingPath,
		LoginPath:     cfg.LoginPath,
		RedirectDelay: cfg.RedirectDelay,
		Policy:        registration.Policy{BlankIsMissing: cfg.BlankIsMissing},
	}, ratelimit.New(cfg.RegisterRate, cfg.RegisterBurst))
	auth.Register(mux, s, deps, cfg.LoginPath, cfg.LandingPath, ratelimit.New(cfg.LoginRate, cfg.LoginBurst))
	dashboard.Register(mux, s, deps, cfg.LandingPath, dashboard.Config{
		LoginPath:  cfg.LoginPath,
		TOTPIssuer: cfg.TOTPIssuer,
	})
	passkeys.Register(mux, s, deps, passkeys.Config{
		BaseURL:     cfg.BaseURL,
		RPName:      cfg.TOTPIssuer,
		LandingPath: cfg.LandingPath,
	})
	activity.Register(mux, s, deps)
	health.Register(mux, s, deps)
	register("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, landingOrDefault(cfg.LandingPath), http.StatusFound)
	}))

	return logging.WithRequestLog(s.Logger(), s.WithSecurityHeaders(s.Guard().Wrap(mux)))
}

func landingOrDefault(path string) string {
	if path == "" {
		return "/user/dashboard"
	}
	return path
}
