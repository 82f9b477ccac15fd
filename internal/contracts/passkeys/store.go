package passkeys

import (
	"context"
	"errors"

	"github.com/go-webauthn/webauthn/webauthn"
	"invest/internal/domain"
)

// ErrNotFound is returned when a passkey does not exist for the user.
var ErrNotFound = errors.New("passkey not found")

// Repository defines persistence operations for WebAuthn credentials.
type Repository interface {
	ListPasskeys(ctx context.Context, userID int) ([]domain.Passkey, error)
	LoadPasskeyCredentials(ctx context.Context, userID int) ([]webauthn.Credential, error)
	InsertPasskey(ctx context.Context, userID int, name string, credential webauthn.Credential) error
	UpdatePasskeyCredential(ctx context.Context, userID int, credentialID string, credential webauthn.Credential) error
	DeletePasskey(ctx context.Context, userID, id int) error
}
