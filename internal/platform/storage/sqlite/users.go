package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"invest/internal/contracts/users"
	"invest/internal/domain"
)

const userColumns = "id, username, email, display_name, COALESCE(referral_id,''), password_hash, COALESCE(totp_secret,''), created_at, COALESCE(updated_at,'')"

func GetUserByID(ctx context.Context, db *sql.DB, id int) (domain.User, error) {
	row := db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM user WHERE id = ?", id)
	return scanUser(row)
}

// GetUserByEmail looks a user up by email, ignoring case.
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (domain.User, error) {
	row := db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM user WHERE email = ? COLLATE NOCASE LIMIT 1", strings.TrimSpace(email))
	return scanUser(row)
}

// CreateUser inserts a user and maps unique index violations to the users sentinel errors.
func CreateUser(ctx context.Context, db *sql.DB, u domain.User) (int64, error) {
	if strings.TrimSpace(u.PasswordHash) == "" {
		return 0, errors.New("password hash is required")
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := db.ExecContext(
		ctx,
		`INSERT INTO user (username, email, display_name, referral_id, password_hash, totp_secret, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.DisplayName, nullString(u.ReferralID), u.PasswordHash, nullString(u.TOTPSecret), now, now,
	)
	if err != nil {
		return 0, mapConstraintError(err)
	}
	return res.LastInsertId()
}

func UpdateUserTOTP(ctx context.Context, db *sql.DB, userID int, secret string) error {
	res, err := db.ExecContext(ctx, "UPDATE user SET totp_secret = ?, updated_at = ? WHERE id = ?", nullString(secret), time.Now().UTC().Format(time.RFC3339), userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return users.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var createdAt, updatedAt string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.ReferralID, &u.PasswordHash, &u.TOTPSecret, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, users.ErrNotFound
		}
		return domain.User{}, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if parsed, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		u.UpdatedAt = parsed
	}
	return u, nil
}

// mapConstraintError translates SQLite unique violations on the user indexes.
func mapConstraintError(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return err
	}
	switch {
	case strings.Contains(msg, "user.username"):
		return users.ErrUsernameTaken
	case strings.Contains(msg, "user.email"):
		return users.ErrEmailTaken
	default:
		return err
	}
}

func nullString(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
