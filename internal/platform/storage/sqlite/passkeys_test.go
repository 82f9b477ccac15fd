package sqlitestore

import (
	"context"
	"errors"
	"testing"

	"github.com/go-webauthn/webauthn/webauthn"
	"invest/internal/contracts/passkeys"
)

func TestPasskeyLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := CreateUser(ctx, db, newUser("ada", "ada@example.com"))
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	userID := int(id)
	cred := webauthn.Credential{ID: []byte("cred-1"), PublicKey: []byte{1, 2, 3}}
	if err := InsertPasskey(ctx, db, userID, "Laptop", cred); err != nil {
		t.Fatalf("insert passkey: %v", err)
	}

	list, err := ListPasskeys(ctx, db, userID)
	if err != nil {
		t.Fatalf("list passkeys: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Laptop" || list[0].CredentialID != CredentialID(cred) {
		t.Fatalf("unexpected passkeys %+v", list)
	}
	if list[0].LastUsedAt.Valid {
		t.Fatalf("expected unused passkey")
	}

	creds, err := LoadPasskeyCredentials(ctx, db, userID)
	if err != nil {
		t.Fatalf("load credentials: %v", err)
	}
	if len(creds) != 1 || string(creds[0].ID) != "cred-1" {
		t.Fatalf("unexpected credentials %+v", creds)
	}

	cred.Authenticator.SignCount = 7
	if err := UpdatePasskeyCredential(ctx, db, userID, CredentialID(cred), cred); err != nil {
		t.Fatalf("update credential: %v", err)
	}
	creds, _ = LoadPasskeyCredentials(ctx, db, userID)
	if creds[0].Authenticator.SignCount != 7 {
		t.Fatalf("expected sign count to persist, got %d", creds[0].Authenticator.SignCount)
	}
	list, _ = ListPasskeys(ctx, db, userID)
	if !list[0].LastUsedAt.Valid {
		t.Fatalf("expected last_used_at after login")
	}

	if err := DeletePasskey(ctx, db, userID+1, list[0].ID); !errors.Is(err, passkeys.ErrNotFound) {
		t.Fatalf("expected other user delete to miss, got %v", err)
	}
	if err := DeletePasskey(ctx, db, userID, list[0].ID); err != nil {
		t.Fatalf("delete passkey: %v", err)
	}
	if err := UpdatePasskeyCredential(ctx, db, userID, CredentialID(cred), cred); !errors.Is(err, passkeys.ErrNotFound) {
		t.Fatalf("expected update of deleted passkey to miss, got %v", err)
	}
}

func TestPasskeyCredentialIDIsUnique(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	cred := webauthn.Credential{ID: []byte("shared")}
	if err := InsertPasskey(ctx, db, 1, "A", cred); err != nil {
		t.Fatalf("insert passkey: %v", err)
	}
	if err := InsertPasskey(ctx, db, 2, "B", cred); err == nil {
		t.Fatalf("expected duplicate credential id to fail")
	}
}
