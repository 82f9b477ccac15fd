// Package guard decides whether a request may reach a protected path based
// only on the presence of the session credential cookie.
package guard

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// Decision is the outcome of an access check: allow, or redirect to a path.
type Decision struct {
	redirect string
}

// Allow lets the request proceed.
func Allow() Decision {
	return Decision{}
}

// RedirectTo sends the request elsewhere.
func RedirectTo(path string) Decision {
	return Decision{redirect: path}
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.redirect == ""
}

// Location returns the redirect target, empty for Allow.
func (d Decision) Location() string {
	return d.redirect
}

// Authorize maps credential presence to a decision.
func Authorize(hasCredentialToken bool) Decision {
	if !hasCredentialToken {
		return RedirectTo(LoginPath)
	}
	return Allow()
}

// Guard applies Authorize to requests under its protected path patterns.
type Guard struct {
	cookieName string
	prefixes   []string
	loginPath  string
	loginRoute string
	logger     *zap.Logger
}

type Option func(*Guard)

// WithLoginPath overrides the redirect target for unauthenticated requests.
func WithLoginPath(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.loginPath = path
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New builds a guard for the named cookie. Patterns are path prefixes; a
// trailing "/:path*" segment (e.g. "/user/:path*") matches the prefix itself
// and everything below it.
func New(cookieName string, patterns []string, opts ...Option) Guard {
	g := Guard{
		cookieName: cookieName,
		loginPath:  LoginPath,
		logger:     zap.NewNop(),
	}
	for _, pattern := range patterns {
		if prefix := normalizePattern(pattern); prefix != "" {
			g.prefixes = append(g.prefixes, prefix)
		}
	}
	for _, opt := range opts {
		opt(&g)
	}
	g.loginRoute = g.loginPath
	if i := strings.IndexByte(g.loginRoute, '?'); i >= 0 {
		g.loginRoute = g.loginRoute[:i]
	}
	return g
}

// Protects reports whether path falls under one of the guarded prefixes.
func (g Guard) Protects(path string) bool {
	for _, prefix := range g.prefixes {
		if prefix == "/" {
			return true
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// HasCredential reports whether the request carries the credential cookie.
// The value is not inspected.
func (g Guard) HasCredential(r *http.Request) bool {
	_, err := r.Cookie(g.cookieName)
	return err == nil
}

// Check returns the decision for r. Unprotected paths and the login page
// itself are always allowed.
func (g Guard) Check(r *http.Request) Decision {
	if r.URL.Path == g.loginRoute || !g.Protects(r.URL.Path) {
		return Allow()
	}
	decision := Authorize(g.HasCredential(r))
	if !decision.Allowed() && g.loginPath != LoginPath {
		decision = RedirectTo(g.loginPath)
	}
	return decision
}

// Wrap redirects unauthenticated requests for protected paths to the login
// page, carrying the original path in the "next" query parameter.
func (g Guard) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := g.Check(r)
		if decision.Allowed() {
			next.ServeHTTP(w, r)
			return
		}
		g.logger.Debug("guard redirect",
			zap.String("path", r.URL.Path),
			zap.String("location", decision.Location()),
		)
		http.Redirect(w, r, withNext(decision.Location(), r.URL.RequestURI()), http.StatusFound)
	})
}

func withNext(location, next string) string {
	if next == "" || next == "/" {
		return location
	}
	sep := "?"
	if strings.Contains(location, "?") {
		sep = "&"
	}
	return location + sep + "next=" + url.QueryEscape(next)
}

func normalizePattern(pattern string) string {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return ""
	}
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}
	pattern = strings.TrimSuffix(pattern, "/:path*")
	pattern = strings.TrimSuffix(pattern, "*")
	if pattern != "/" {
		pattern = strings.TrimRight(pattern, "/")
	}
	if pattern == "" {
		return "/"
	}
	return pattern
}
