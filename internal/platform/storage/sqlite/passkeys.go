package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
	"invest/internal/contracts/passkeys"
	"invest/internal/domain"
)

// ListPasskeys returns the user's passkeys in enrollment order.
func ListPasskeys(ctx context.Context, db *sql.DB, userID int) ([]domain.Passkey, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, user_id, name, credential_id, credential_json, created_at, last_used_at FROM passkey WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Passkey
	for rows.Next() {
		var pk domain.Passkey
		var created string
		var lastUsed sql.NullString
		if err := rows.Scan(&pk.ID, &pk.UserID, &pk.Name, &pk.CredentialID, &pk.CredentialJSON, &created, &lastUsed); err != nil {
			return nil, err
		}
		pk.CreatedAt, _ = time.Parse(time.RFC3339, created)
		if lastUsed.Valid {
			if parsed, err := time.Parse(time.RFC3339, lastUsed.String); err == nil {
				pk.LastUsedAt = sql.NullTime{Time: parsed, Valid: true}
			}
		}
		out = append(out, pk)
	}
	return out, rows.Err()
}

// LoadPasskeyCredentials decodes the stored credentials for a WebAuthn ceremony.
func LoadPasskeyCredentials(ctx context.Context, db *sql.DB, userID int) ([]webauthn.Credential, error) {
	rows, err := db.QueryContext(ctx, "SELECT credential_json FROM passkey WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []webauthn.Credential
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var cred webauthn.Credential
		if err := json.Unmarshal([]byte(raw), &cred); err != nil {
			return nil, fmt.Errorf("decode credential: %w", err)
		}
		out = append(out, cred)
	}
	return out, rows.Err()
}

func InsertPasskey(ctx context.Context, db *sql.DB, userID int, name string, credential webauthn.Credential) error {
	payload, err := json.Marshal(credential)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(
		ctx,
		"INSERT INTO passkey (user_id, name, credential_id, credential_json, created_at) VALUES (?, ?, ?, ?, ?)",
		userID,
		name,
		CredentialID(credential),
		string(payload),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// UpdatePasskeyCredential stores the credential after a login, which carries
// the authenticator's new sign count, and stamps last_used_at.
func UpdatePasskeyCredential(ctx context.Context, db *sql.DB, userID int, credentialID string, credential webauthn.Credential) error {
	payload, err := json.Marshal(credential)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(
		ctx,
		"UPDATE passkey SET credential_json = ?, last_used_at = ? WHERE user_id = ? AND credential_id = ?",
		string(payload),
		time.Now().UTC().Format(time.RFC3339),
		userID,
		credentialID,
	)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return passkeys.ErrNotFound
	}
	return nil
}

func DeletePasskey(ctx context.Context, db *sql.DB, userID, id int) error {
	res, err := db.ExecContext(ctx, "DELETE FROM passkey WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return passkeys.ErrNotFound
	}
	return nil
}

// CredentialID is the stored lookup key for a credential.
func CredentialID(credential webauthn.Credential) string {
	return base64.RawURLEncoding.EncodeToString(credential.ID)
}
