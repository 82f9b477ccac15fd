package sqlitestore

import (
	"context"
	"database/sql"

	"github.com/go-webauthn/webauthn/webauthn"
	"invest/internal/contracts"
	"invest/internal/domain"
)

type repos struct {
	db *sql.DB
}

// NewRepos wires sqlite-backed repositories for the app layer.
func NewRepos(db *sql.DB) contracts.Repos {
	r := repos{db: db}
	return contracts.Repos{
		Users:    r,
		Audit:    r,
		Passkeys: r,
	}
}

// UsersStore
func (r repos) GetUserByID(ctx context.Context, id int) (domain.User, error) {
	return GetUserByID(ctx, r.db, id)
}

func (r repos) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return GetUserByEmail(ctx, r.db, email)
}

func (r repos) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	return CreateUser(ctx, r.db, u)
}

func (r repos) UpdateUserTOTP(ctx context.Context, userID int, secret string) error {
	return UpdateUserTOTP(ctx, r.db, userID, secret)
}

// AuditStore
func (r repos) WriteAuditLog(ctx context.Context, actorID int, action, target string, metadata map[string]string) error {
	return WriteAuditLog(ctx, r.db, actorID, action, target, metadata)
}

func (r repos) ListAuditLogs(ctx context.Context, actorID, limit, offset int) ([]domain.AuditLog, error) {
	return ListAuditLogs(ctx, r.db, actorID, limit, offset)
}

func (r repos) CountAuditLogs(ctx context.Context, actorID int) (int, error) {
	return CountAuditLogs(ctx, r.db, actorID)
}

// PasskeyStore
func (r repos) ListPasskeys(ctx context.Context, userID int) ([]domain.Passkey, error) {
	return ListPasskeys(ctx, r.db, userID)
}

func (r repos) LoadPasskeyCredentials(ctx context.Context, userID int) ([]webauthn.Credential, error) {
	return LoadPasskeyCredentials(ctx, r.db, userID)
}

func (r repos) InsertPasskey(ctx context.Context, userID int, name string, credential webauthn.Credential) error {
	return InsertPasskey(ctx, r.db, userID, name, credential)
}

func (r repos) UpdatePasskeyCredential(ctx context.Context, userID int, credentialID string, credential webauthn.Credential) error {
	return UpdatePasskeyCredential(ctx, r.db, userID, credentialID, credential)
}

func (r repos) DeletePasskey(ctx context.Context, userID, id int) error {
	return DeletePasskey(ctx, r.db, userID, id)
}
