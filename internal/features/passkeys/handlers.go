package passkeys

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"invest/internal/domain"
	"invest/internal/platform/core"
)

const (
	registerSessionKey = "webauthn_register"
	registerNameKey    = "webauthn_register_name"
	loginSessionKey    = "webauthn_login"
	loginUserKey       = "webauthn_login_user"
	loginNextKey       = "webauthn_login_next"
	defaultName        = "Passkey"
)

var errMissingCeremony = errors.New("no passkey ceremony in session")

type Dependencies interface {
	Session(r *http.Request) (*sessions.Session, error)
	ValidateCSRF(session *sessions.Session, token string) bool
	CurrentUser(r *http.Request) (domain.User, error)
	GetUserByID(ctx context.Context, id int) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	LoadPasskeyCredentials(ctx context.Context, userID int) ([]webauthn.Credential, error)
	InsertPasskey(ctx context.Context, userID int, name string, credential webauthn.Credential) error
	UpdatePasskeyCredential(ctx context.Context, userID int, credentialID string, credential webauthn.Credential) error
	DeletePasskey(ctx context.Context, userID, id int) error
	AuditAttempt(ctx context.Context, actorID int, action, target string, meta map[string]string)
	AuditOutcome(ctx context.Context, actorID int, action, target string, err error, meta map[string]string)
	Logger() *zap.Logger
}

// Config sets the relying party. BaseURL pins the origin; when empty it is
// derived from the request.
type Config struct {
	BaseURL     string
	RPName      string
	LandingPath string
}

type Handler struct {
	deps   Dependencies
	cfg    Config
	logger *zap.Logger
}

func NewHandler(deps Dependencies, cfg Config) Handler {
	if cfg.RPName == "" {
		cfg.RPName = "Global Invest"
	}
	if cfg.LandingPath == "" {
		cfg.LandingPath = "/user/dashboard"
	}
	return Handler{deps: deps, cfg: cfg, logger: deps.Logger().Named("passkeys")}
}

// webauthnUser exposes an account to the webauthn library.
type webauthnUser struct {
	user        domain.User
	credentials []webauthn.Credential
}

func (u webauthnUser) WebAuthnID() []byte {
	return []byte(strconv.Itoa(u.user.ID))
}

func (u webauthnUser) WebAuthnName() string {
	return u.user.Email
}

func (u webauthnUser) WebAuthnDisplayName() string {
	if u.user.DisplayName != "" {
		return u.user.DisplayName
	}
	return u.user.Email
}

func (u webauthnUser) WebAuthnCredentials() []webauthn.Credential {
	return u.credentials
}

// RegisterOptions starts enrollment of a new passkey for the signed-in user.
func (h Handler) RegisterOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, _ := h.deps.Session(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if !h.deps.ValidateCSRF(session, r.FormValue("csrf_token")) {
		http.Error(w, "Invalid CSRF token", http.StatusBadRequest)
		return
	}
	current, err := h.deps.CurrentUser(r)
	if err != nil {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	user, err := h.loadUser(r.Context(), current)
	if err != nil {
		http.Error(w, "Failed to load passkeys", http.StatusInternalServerError)
		return
	}
	wa, err := h.relyingParty(r)
	if err != nil {
		h.logger.Error("relying party config", zap.Error(err))
		http.Error(w, "Passkey unavailable", http.StatusInternalServerError)
		return
	}
	options, ceremony, err := wa.BeginRegistration(
		user,
		webauthn.WithAuthenticatorSelection(protocol.AuthenticatorSelection{
			ResidentKey:      protocol.ResidentKeyRequirementPreferred,
			UserVerification: protocol.VerificationPreferred,
		}),
		webauthn.WithConveyancePreference(protocol.PreferNoAttestation),
	)
	if err != nil {
		http.Error(w, "Failed to start passkey registration", http.StatusBadRequest)
		return
	}
	if err := storeCeremony(session, registerSessionKey, ceremony); err != nil {
		http.Error(w, "Session error", http.StatusInternalServerError)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = defaultName
	}
	session.Values[registerNameKey] = name
	if err := session.Save(r, w); err != nil {
		http.Error(w, "Session error", http.StatusInternalServerError)
		return
	}
	core.WriteJSON(w, http.StatusOK, options)
}

// RegisterFinish verifies the authenticator response and stores the credential.
func (h Handler) RegisterFinish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, _ := h.deps.Session(r)
	current, err := h.deps.CurrentUser(r)
	if err != nil {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	ceremony, err := loadCeremony(session, registerSessionKey)
	if err != nil {
		http.Error(w, "Passkey session expired", http.StatusBadRequest)
		return
	}
	user, err := h.loadUser(r.Context(), current)
	if err != nil {
		http.Error(w, "Failed to load passkeys", http.StatusInternalServerError)
		return
	}
	wa, err := h.relyingParty(r)
	if err != nil {
		http.Error(w, "Passkey unavailable", http.StatusInternalServerError)
		return
	}
	credential, err := wa.FinishRegistration(user, *ceremony, r)
	if err != nil {
		h.logger.Info("passkey registration rejected", zap.Int("user_id", current.ID), zap.Error(err))
		http.Error(w, "Passkey registration failed", http.StatusBadRequest)
		return
	}
	name, _ := session.Values[registerNameKey].(string)
	if name == "" {
		name = defaultName
	}
	h.deps.AuditAttempt(r.Context(), current.ID, "passkey.register", name, nil)
	err = h.deps.InsertPasskey(r.Context(), current.ID, name, *credential)
	h.deps.AuditOutcome(r.Context(), current.ID, "passkey.register", name, err, nil)
	if err != nil {
		http.Error(w, "Failed to save passkey", http.StatusInternalServerError)
		return
	}
	delete(session.Values, registerSessionKey)
	delete(session.Values, registerNameKey)
	_ = session.Save(r, w)
	core.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// LoginOptions starts a passkey sign-in for the account with the given email.
func (h Handler) LoginOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		http.Error(w, "Email required", http.StatusBadRequest)
		return
	}
	account, err := h.deps.GetUserByEmail(r.Context(), email)
	if err != nil {
		http.Error(w, "No passkeys enrolled", http.StatusBadRequest)
		return
	}
	user, err := h.loadUser(r.Context(), account)
	if err != nil || len(user.credentials) == 0 {
		http.Error(w, "No passkeys enrolled", http.StatusBadRequest)
		return
	}
	wa, err := h.relyingParty(r)
	if err != nil {
		http.Error(w, "Passkey unavailable", http.StatusInternalServerError)
		return
	}
	options, ceremony, err := wa.BeginLogin(user)
	if err != nil {
		http.Error(w, "Failed to start passkey login", http.StatusBadRequest)
		return
	}

	session, _ := h.deps.Session(r)
	if err := storeCeremony(session, loginSessionKey, ceremony); err != nil {
		http.Error(w, "Session error", http.StatusInternalServerError)
		return
	}
	session.Values[loginUserKey] = account.ID
	next := r.URL.Query().Get("next")
	if !core.IsSafeRedirect(r, next) {
		next = h.cfg.LandingPath
	}
	session.Values[loginNextKey] = next
	if err := session.Save(r, w); err != nil {
		http.Error(w, "Session error", http.StatusInternalServerError)
		return
	}
	core.WriteJSON(w, http.StatusOK, options)
}

// LoginFinish verifies the assertion, records the new sign count and signs
// the user in.
func (h Handler) LoginFinish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, _ := h.deps.Session(r)
	ceremony, err := loadCeremony(session, loginSessionKey)
	if err != nil {
		http.Error(w, "Passkey session expired", http.StatusBadRequest)
		return
	}
	userID, _ := session.Values[loginUserKey].(int)
	if userID <= 0 {
		http.Error(w, "Passkey session expired", http.StatusBadRequest)
		return
	}
	account, err := h.deps.GetUserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Passkey session expired", http.StatusBadRequest)
		return
	}
	user, err := h.loadUser(r.Context(), account)
	if err != nil || len(user.credentials) == 0 {
		http.Error(w, "No passkeys enrolled", http.StatusBadRequest)
		return
	}
	wa, err := h.relyingParty(r)
	if err != nil {
		http.Error(w, "Passkey unavailable", http.StatusInternalServerError)
		return
	}
	meta := map[string]string{"method": "passkey"}
	h.deps.AuditAttempt(r.Context(), account.ID, "user.login", account.Email, meta)
	credential, err := wa.FinishLogin(user, *ceremony, r)
	if err != nil {
		h.deps.AuditOutcome(r.Context(), account.ID, "user.login", account.Email, err, meta)
		http.Error(w, "Passkey login failed", http.StatusBadRequest)
		return
	}
	credentialID := base64.RawURLEncoding.EncodeToString(credential.ID)
	if err := h.deps.UpdatePasskeyCredential(r.Context(), account.ID, credentialID, *credential); err != nil {
		h.deps.AuditOutcome(r.Context(), account.ID, "user.login", account.Email, err, meta)
		http.Error(w, "Failed to update passkey", http.StatusInternalServerError)
		return
	}
	h.deps.AuditOutcome(r.Context(), account.ID, "user.login", account.Email, nil, meta)

	next, _ := session.Values[loginNextKey].(string)
	if next == "" {
		next = h.cfg.LandingPath
	}
	session.Values["user_id"] = account.ID
	delete(session.Values, loginSessionKey)
	delete(session.Values, loginUserKey)
	delete(session.Values, loginNextKey)
	if err := session.Save(r, w); err != nil {
		http.Error(w, "Session error", http.StatusInternalServerError)
		return
	}
	h.logger.Info("user signed in", zap.Int("user_id", account.ID), zap.String("method", "passkey"))
	core.WriteJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "redirect": next})
}

// Delete removes one of the signed-in user's passkeys.
func (h Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, _ := h.deps.Session(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if !h.deps.ValidateCSRF(session, r.FormValue("csrf_token")) {
		http.Error(w, "Invalid CSRF token", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(strings.TrimSpace(r.FormValue("id")))
	if err != nil || id <= 0 {
		http.Error(w, "Invalid passkey", http.StatusBadRequest)
		return
	}
	current, err := h.deps.CurrentUser(r)
	if err != nil {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	target := strconv.Itoa(id)
	h.deps.AuditAttempt(r.Context(), current.ID, "passkey.delete", target, nil)
	err = h.deps.DeletePasskey(r.Context(), current.ID, id)
	h.deps.AuditOutcome(r.Context(), current.ID, "passkey.delete", target, err, nil)
	if err != nil {
		http.Error(w, "Failed to delete passkey", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/user/security", http.StatusSeeOther)
}

func (h Handler) loadUser(ctx context.Context, account domain.User) (webauthnUser, error) {
	creds, err := h.deps.LoadPasskeyCredentials(ctx, account.ID)
	if err != nil {
		return webauthnUser{}, err
	}
	return webauthnUser{user: account, credentials: creds}, nil
}

func (h Handler) relyingParty(r *http.Request) (*webauthn.WebAuthn, error) {
	origin := strings.TrimRight(h.cfg.BaseURL, "/")
	if origin == "" {
		origin = requestOrigin(r)
	}
	rpID := ""
	if parsed, err := url.Parse(origin); err == nil {
		rpID = parsed.Hostname()
	}
	if rpID == "" {
		rpID = stripPort(r.Host)
	}
	return webauthn.New(&webauthn.Config{
		RPDisplayName: h.cfg.RPName,
		RPID:          rpID,
		RPOrigins:     []string{origin},
	})
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
}

func storeCeremony(session *sessions.Session, key string, data *webauthn.SessionData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	session.Values[key] = string(b)
	return nil
}

func loadCeremony(session *sessions.Session, key string) (*webauthn.SessionData, error) {
	raw, _ := session.Values[key].(string)
	if raw == "" {
		return nil, errMissingCeremony
	}
	var data webauthn.SessionData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return &data, nil
}
