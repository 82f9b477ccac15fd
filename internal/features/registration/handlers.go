package registration

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"invest/internal/domain"
	"invest/internal/platform/core"
)

type Dependencies interface {
	Store
	Auditor
	Session(r *http.Request) (*sessions.Session, error)
	EnsureCSRF(session *sessions.Session) string
	ValidateCSRF(session *sessions.Session, token string) bool
	RenderTemplate(w http.ResponseWriter, name string, data interface{}) error
	Logger() *zap.Logger
}

// Config tunes the signup handler.
type Config struct {
	LandingPath   string
	LoginPath     string
	RedirectDelay time.Duration
	Policy        Policy
	Usernames     UsernameGenerator
	BcryptCost    int
}

type Handler struct {
	deps    Dependencies
	cfg     Config
	service *Service
	logger  *zap.Logger
}

// NewHandler constructs a new handler.
func NewHandler(deps Dependencies, cfg Config) Handler {
	if cfg.LandingPath == "" {
		cfg.LandingPath = "/user/dashboard"
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.Usernames == nil {
		cfg.Usernames = GenerateUsername
	}
	return Handler{
		deps:    deps,
		cfg:     cfg,
		service: NewService(deps, deps, cfg.BcryptCost),
		logger:  deps.Logger().Named("registration"),
	}
}

// Register renders the signup form and creates the account on a valid submission.
func (h Handler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, _ := h.deps.Session(r)
	if r.Method == http.MethodGet && alreadySignedIn(session) {
		http.Redirect(w, r, h.cfg.LandingPath, http.StatusFound)
		return
	}
	form := Submission{ReferralID: r.URL.Query().Get("ref")}
	notice := Notice{}
	var missing []string
	saved := false

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		if !h.deps.ValidateCSRF(session, r.FormValue("csrf_token")) {
			http.Error(w, "Invalid CSRF token", http.StatusBadRequest)
			return
		}
		sub := submissionFromForm(r)
		outcome := ValidateWithPolicy(sub, h.cfg.Usernames, h.cfg.Policy)
		if outcome.Valid() {
			user, err := h.service.Register(r.Context(), Request{
				Email:      sub.Email,
				Password:   sub.Password,
				Name:       outcome.DisplayName,
				Username:   outcome.Username,
				ReferralID: sub.ReferralID,
			})
			if err != nil {
				h.logger.Error("registration failed",
					zap.String("username", outcome.Username),
					zap.Bool("has_referral", sub.ReferralID != ""),
					zap.Error(err),
				)
				notice = Notice{Kind: NoticeFailed}
			} else {
				h.startSession(session, user)
				if err := session.Save(r, w); err != nil {
					// The account exists at this point.
					h.logger.Error("session save after registration",
						zap.Int("user_id", user.ID),
						zap.Error(err),
					)
					http.Redirect(w, r, h.cfg.LoginPath+"?next="+url.QueryEscape(h.cfg.LandingPath), http.StatusFound)
					return
				}
				saved = true
				notice = Registered(h.cfg.LandingPath, h.cfg.RedirectDelay)
			}
		} else {
			notice = NoticeFor(outcome)
			missing = outcome.Missing
		}
		form = sub
		form.Password = ""
		form.ConfirmPassword = ""
	}

	data := map[string]interface{}{
		"CSRFToken": h.deps.EnsureCSRF(session),
		"Form":      form,
		"Notice":    notice,
		"Missing":   missing,
	}
	if !saved {
		if err := session.Save(r, w); err != nil {
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}
	}
	if err := h.deps.RenderTemplate(w, "register.html", data); err != nil {
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// startSession stores the new user on the session so the credential cookie is issued on save.
func (h Handler) startSession(session *sessions.Session, user domain.User) {
	session.Values["user_id"] = user.ID
	h.logger.Info("user registered",
		zap.Int("user_id", user.ID),
		zap.String("username", user.Username),
	)
}

func submissionFromForm(r *http.Request) Submission {
	return Submission{
		FirstName:       r.FormValue("firstName"),
		LastName:        r.FormValue("lastName"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
		ReferralID:      r.FormValue("referralId"),
	}
}

// alreadySignedIn reports whether the session already carries a user.
func alreadySignedIn(session *sessions.Session) bool {
	_, ok := core.SessionUserID(session)
	return ok
}
