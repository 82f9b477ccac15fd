package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"invest/internal/contracts/users"
	"invest/internal/domain"
)

const defaultUsernameAttempts = 5

// Request is what a valid submission forwards to account creation.
type Request struct {
	Email      string
	Password   string
	Name       string
	Username   string
	ReferralID string
}

type Store interface {
	CreateUser(ctx context.Context, u domain.User) (int64, error)
}

type Auditor interface {
	AuditAttempt(ctx context.Context, actorID int, action, target string, meta map[string]string)
	AuditOutcome(ctx context.Context, actorID int, action, target string, err error, meta map[string]string)
}

// Service creates accounts from validated submissions.
type Service struct {
	store    Store
	audit    Auditor
	attempts int
	cost     int
}

// NewService builds a registration service; cost is the bcrypt cost
// (bcrypt.DefaultCost when zero).
func NewService(store Store, audit Auditor, cost int) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{store: store, audit: audit, attempts: defaultUsernameAttempts, cost: cost}
}

// Register hashes the password and stores the user. A username collision
// regenerates the suffix and tries again; any other failure is returned as is.
func (s *Service) Register(ctx context.Context, req Request) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	meta := map[string]string{"source": "signup"}
	if req.ReferralID != "" {
		meta["referral_id"] = req.ReferralID
	}

	user := domain.User{
		Username:     req.Username,
		Email:        strings.TrimSpace(req.Email),
		DisplayName:  req.Name,
		ReferralID:   strings.TrimSpace(req.ReferralID),
		PasswordHash: string(hash),
	}
	s.audit.AuditAttempt(ctx, 0, "user.create", user.Email, meta)
	for attempt := 1; ; attempt++ {
		id, err := s.store.CreateUser(ctx, user)
		if err == nil {
			user.ID = int(id)
			s.audit.AuditOutcome(ctx, user.ID, "user.create", user.Email, nil, meta)
			return user, nil
		}
		if !errors.Is(err, users.ErrUsernameTaken) || attempt >= s.attempts {
			s.audit.AuditOutcome(ctx, 0, "user.create", user.Email, err, meta)
			return domain.User{}, fmt.Errorf("create user: %w", err)
		}
		user.Username = RegenerateUsername(user.Username)
	}
}
