package dashboard

import (
	"context"
	"encoding/base64"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"invest/internal/domain"
)

const pendingTOTPKey = "totp_pending"

type Dependencies interface {
	Session(r *http.Request) (*sessions.Session, error)
	CurrentUser(r *http.Request) (domain.User, error)
	EnsureCSRF(session *sessions.Session) string
	ValidateCSRF(session *sessions.Session, token string) bool
	UpdateUserTOTP(ctx context.Context, userID int, secret string) error
	ListPasskeys(ctx context.Context, userID int) ([]domain.Passkey, error)
	RenderTemplate(w http.ResponseWriter, name string, data interface{}) error
	AuditAttempt(ctx context.Context, actorID int, action, target string, meta map[string]string)
	AuditOutcome(ctx context.Context, actorID int, action, target string, err error, meta map[string]string)
	Logger() *zap.Logger
}

type Config struct {
	LoginPath  string
	TOTPIssuer string
}

type Handler struct {
	deps   Dependencies
	cfg    Config
	logger *zap.Logger
}

func NewHandler(deps Dependencies, cfg Config) Handler {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.TOTPIssuer == "" {
		cfg.TOTPIssuer = "Global Invest"
	}
	return Handler{deps: deps, cfg: cfg, logger: deps.Logger().Named("dashboard")}
}

// Dashboard renders the signed-in landing page.
func (h Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, _ := h.deps.Session(r)
	user, ok := h.requireUser(w, r, session)
	if !ok {
		return
	}
	data := map[string]interface{}{
		"User":      user,
		"CSRFToken": h.deps.EnsureCSRF(session),
	}
	if err := session.Save(r, w); err != nil {
		http.Error(w, "Session error", http.StatusInternalServerError)
		return
	}
	if err := h.deps.RenderTemplate(w, "dashboard.html", data); err != nil {
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// Security handles TOTP enrollment and removal for the signed-in user and
// lists the passkeys they enrolled.
func (h Handler) Security(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, _ := h.deps.Session(r)
	user, ok := h.requireUser(w, r, session)
	if !ok {
		return
	}
	message := ""

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		if !h.deps.ValidateCSRF(session, r.FormValue("csrf_token")) {
			http.Error(w, "Invalid CSRF token", http.StatusBadRequest)
			return
		}
		code := strings.TrimSpace(r.FormValue("totp"))
		switch r.FormValue("action") {
		case "enable":
			key := pendingKey(session)
			if key == nil || !totp.Validate(code, key.Secret()) {
				message = "Invalid one-time code."
				break
			}
			pending := key.Secret()
			if err := h.setTOTP(r.Context(), user, "totp.enable", pending); err != nil {
				http.Error(w, "Failed to update security settings", http.StatusInternalServerError)
				return
			}
			delete(session.Values, pendingTOTPKey)
			user.TOTPSecret = pending
			message = "Two-factor authentication enabled."
		case "disable":
			if !user.HasTOTP() || !totp.Validate(code, user.TOTPSecret) {
				message = "Invalid one-time code."
				break
			}
			if err := h.setTOTP(r.Context(), user, "totp.disable", ""); err != nil {
				http.Error(w, "Failed to update security settings", http.StatusInternalServerError)
				return
			}
			user.TOTPSecret = ""
			message = "Two-factor authentication disabled."
		default:
			message = "Unknown action."
		}
	}

	data := map[string]interface{}{
		"User":        user,
		"Enabled":     user.HasTOTP(),
		"Message":     message,
		"CSRFToken":   h.deps.EnsureCSRF(session),
		"TOTPSecret":  "",
		"TOTPQRCode":  template.URL(""),
		"TOTPAccount": user.Email,
	}
	if !user.HasTOTP() {
		secret, qr, err := h.pendingEnrollment(session, user)
		if err != nil {
			h.logger.Error("totp enrollment failed", zap.Int("user_id", user.ID), zap.Error(err))
			http.Error(w, "Failed to prepare enrollment", http.StatusInternalServerError)
			return
		}
		data["TOTPSecret"] = secret
		data["TOTPQRCode"] = qr
	}
	keys, err := h.deps.ListPasskeys(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("list passkeys", zap.Int("user_id", user.ID), zap.Error(err))
		http.Error(w, "Failed to load passkeys", http.StatusInternalServerError)
		return
	}
	data["Passkeys"] = keys

	if err := session.Save(r, w); err != nil {
		http.Error(w, "Session error", http.StatusInternalServerError)
		return
	}
	if err := h.deps.RenderTemplate(w, "security.html", data); err != nil {
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// requireUser resolves the session user. A credential cookie that no longer
// maps to an account is cleared and the visitor is sent to the login page.
func (h Handler) requireUser(w http.ResponseWriter, r *http.Request, session *sessions.Session) (domain.User, bool) {
	user, err := h.deps.CurrentUser(r)
	if err == nil {
		return user, true
	}
	h.logger.Debug("stale credential cookie", zap.Error(err))
	if session != nil {
		session.Values = map[interface{}]interface{}{}
		session.Options.MaxAge = -1
		_ = session.Save(r, w)
	}
	http.Redirect(w, r, h.cfg.LoginPath+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
	return domain.User{}, false
}

func (h Handler) setTOTP(ctx context.Context, user domain.User, action, secret string) error {
	h.deps.AuditAttempt(ctx, user.ID, action, user.Username, nil)
	err := h.deps.UpdateUserTOTP(ctx, user.ID, secret)
	h.deps.AuditOutcome(ctx, user.ID, action, user.Username, err, nil)
	return err
}

// pendingKey returns the enrollment key parked in the session, if any.
func pendingKey(session *sessions.Session) *otp.Key {
	raw, _ := session.Values[pendingTOTPKey].(string)
	if raw == "" {
		return nil
	}
	key, err := otp.NewKeyFromURL(raw)
	if err != nil {
		return nil
	}
	return key
}

// pendingEnrollment reuses the key parked in the session or generates a new one,
// returning its secret with a PNG QR code as a data URI.
func (h Handler) pendingEnrollment(session *sessions.Session, user domain.User) (string, template.URL, error) {
	key := pendingKey(session)
	if key == nil {
		generated, err := totp.Generate(totp.GenerateOpts{Issuer: h.cfg.TOTPIssuer, AccountName: user.Email})
		if err != nil {
			return "", "", err
		}
		key = generated
		session.Values[pendingTOTPKey] = key.URL()
	}
	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 200)
	if err != nil {
		return "", "", err
	}
	return key.Secret(), template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}
