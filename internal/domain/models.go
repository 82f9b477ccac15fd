package domain

import (
	"database/sql"
	"time"
)

// User is a registered account.
type User struct {
	ID           int
	Username     string
	Email        string
	DisplayName  string
	ReferralID   string
	PasswordHash string
	TOTPSecret   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasTOTP reports whether the user enrolled a second factor.
func (u User) HasTOTP() bool {
	return u.TOTPSecret != ""
}

// Passkey is a WebAuthn credential enrolled by a user. CredentialJSON holds
// the serialized credential including its sign counter.
type Passkey struct {
	ID             int
	UserID         int
	Name           string
	CredentialID   string
	CredentialJSON string
	CreatedAt      time.Time
	LastUsedAt     sql.NullTime
}

type AuditLog struct {
	ID        int
	ActorID   sql.NullInt64
	ActorName string
	Action    string
	Target    string
	Metadata  string
	CreatedAt time.Time
}
