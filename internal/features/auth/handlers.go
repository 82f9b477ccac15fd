package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"invest/internal/domain"
	"invest/internal/platform/core"
)

type Dependencies interface {
	Session(r *http.Request) (*sessions.Session, error)
	EnsureCSRF(session *sessions.Session) string
	ValidateCSRF(session *sessions.Session, token string) bool
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	RenderTemplate(w http.ResponseWriter, name string, data interface{}) error
	AuditAttempt(ctx context.Context, actorID int, action, target string, meta map[string]string)
	AuditOutcome(ctx context.Context, actorID int, action, target string, err error, meta map[string]string)
	Logger() *zap.Logger
}

type Handler struct {
	deps        Dependencies
	landingPath string
}

func NewHandler(deps Dependencies, landingPath string) Handler {
	if landingPath == "" {
		landingPath = "/user/dashboard"
	}
	return Handler{deps: deps, landingPath: landingPath}
}

// Login renders the login form and authenticates by email and password,
// plus a one-time code when the account enrolled TOTP.
func (h Handler) Login(w http.ResponseWriter, r *http.Request) {
	session, _ := h.deps.Session(r)
	next := r.URL.Query().Get("next")
	if !core.IsSafeRedirect(r, next) {
		next = h.landingPath
	}

	data := map[string]interface{}{
		"Error":     "",
		"Email":     "",
		"Next":      next,
		"CSRFToken": h.deps.EnsureCSRF(session),
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		if !h.deps.ValidateCSRF(session, r.FormValue("csrf_token")) {
			http.Error(w, "Invalid CSRF token", http.StatusBadRequest)
			return
		}
		if formNext := r.FormValue("next"); core.IsSafeRedirect(r, formNext) {
			next = formNext
			data["Next"] = next
		}
		email := strings.TrimSpace(r.FormValue("email"))
		data["Email"] = email
		user, msg := h.authenticate(r.Context(), email, r.FormValue("password"), strings.TrimSpace(r.FormValue("totp")))
		if msg == "" {
			session.Values["user_id"] = user.ID
			if err := session.Save(r, w); err != nil {
				http.Error(w, "Session error", http.StatusInternalServerError)
				return
			}
			http.Redirect(w, r, next, http.StatusFound)
			return
		}
		data["Error"] = msg
	}

	if err := session.Save(r, w); err != nil {
		http.Error(w, "Session error", http.StatusInternalServerError)
		return
	}
	if err := h.deps.RenderTemplate(w, "login.html", data); err != nil {
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// authenticate returns the user or a user-facing error message.
func (h Handler) authenticate(ctx context.Context, email, password, code string) (domain.User, string) {
	if email == "" || password == "" {
		return domain.User{}, "Email and password are required"
	}
	h.deps.AuditAttempt(ctx, 0, "user.login", email, nil)
	user, err := h.deps.GetUserByEmail(ctx, email)
	if err != nil {
		h.deps.AuditOutcome(ctx, 0, "user.login", email, err, nil)
		return domain.User{}, "Invalid email or password"
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		h.deps.AuditOutcome(ctx, user.ID, "user.login", email, err, nil)
		return domain.User{}, "Invalid email or password"
	}
	if user.HasTOTP() && !totp.Validate(code, user.TOTPSecret) {
		h.deps.AuditOutcome(ctx, user.ID, "user.login", email, errInvalidCode, nil)
		return domain.User{}, "Invalid one-time code"
	}
	h.deps.AuditOutcome(ctx, user.ID, "user.login", email, nil, nil)
	h.deps.Logger().Info("user signed in", zap.Int("user_id", user.ID))
	return user, ""
}

// Logout clears the session and redirects to the home page.
func (h Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.deps.Session(r)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	_ = session.Save(r, w)
	http.Redirect(w, r, "/", http.StatusFound)
}
