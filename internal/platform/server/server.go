package server

import (
	"database/sql"
	"html/template"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"invest/internal/config"
	"invest/internal/contracts"
	"invest/internal/features/guard"
	"invest/internal/platform/core"
	sqlitestore "invest/internal/platform/storage/sqlite"
)

// Server bundles dependencies for HTTP handlers.
type Server struct {
	cfg    config.Config
	db     *sql.DB
	store  *sessions.CookieStore
	tmpl   *template.Template
	repos  contracts.Repos
	logger *zap.Logger
}

// NewServer configures dependencies and templates for handlers using the default SQLite-backed repositories.
func NewServer(cfg config.Config, db *sql.DB, logger *zap.Logger) (*Server, error) {
	return NewServerWithRepos(cfg, db, sqlitestore.NewRepos(db), logger)
}

// NewServerWithRepos constructs a new server with repos.
func NewServerWithRepos(cfg config.Config, db *sql.DB, repos contracts.Repos, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionCookie == "" {
		cfg.SessionCookie = "invest_session"
	}
	maxAge := cfg.SessionMaxAge
	if maxAge == 0 {
		maxAge = 86400 * 30
	}
	store := sessions.NewCookieStore(cfg.SecretKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
	}

	tmpl, err := loadTemplates("templates")
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:    cfg,
		db:     db,
		store:  store,
		tmpl:   tmpl,
		repos:  repos,
		logger: logger,
	}, nil
}

// RegisterRoute registers routes and handlers for route.
func (s *Server) RegisterRoute(mux *http.ServeMux, pattern string, handler http.Handler) {
	mux.Handle(pattern, handler)
}

// WithSecurityHeaders wraps the handler with additional behavior.
func (s *Server) WithSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'")
		next.ServeHTTP(w, r)
	})
}

// Guard returns the credential-cookie guard for the configured protected paths.
func (s *Server) Guard() guard.Guard {
	return guard.New(
		s.cfg.SessionCookie,
		s.cfg.ProtectedPaths,
		guard.WithLoginPath(s.cfg.LoginPath),
		guard.WithLogger(s.logger.Named("guard")),
	)
}

// Config returns a copy of the server configuration.
func (s *Server) Config() config.Config {
	return s.cfg
}

// Repos returns the repository bundle for storage access.
func (s *Server) Repos() contracts.Repos {
	return s.repos
}

// DB returns the underlying database handle.
func (s *Server) DB() *sql.DB {
	return s.db
}

// Logger returns the server logger.
func (s *Server) Logger() *zap.Logger {
	return s.logger
}

// ensureCSRF ensures CSRF is initialized and available.
func (s *Server) ensureCSRF(session *sessions.Session) string {
	if token, ok := session.Values["csrf_token"].(string); ok && token != "" {
		return token
	}
	token := core.RandomToken(32)
	session.Values["csrf_token"] = token
	return token
}

// validateCSRF checks the submitted CSRF token unless disabled by config.
func (s *Server) validateCSRF(session *sessions.Session, token string) bool {
	if s.cfg.DisableCSRF {
		return true
	}
	stored, _ := session.Values["csrf_token"].(string)
	if stored == "" || token == "" {
		return false
	}
	return core.SubtleCompare(stored, token)
}
