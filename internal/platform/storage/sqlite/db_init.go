package sqlitestore

import (
	"database/sql"
	"fmt"
	"strings"
)

// InitDB ensures the SQLite schema exists and applies lightweight migrations.
func InitDB(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user (
            id INTEGER PRIMARY KEY,
            username TEXT NOT NULL,
            email TEXT NOT NULL,
            display_name TEXT NOT NULL,
            referral_id TEXT,
            password_hash TEXT NOT NULL,
            totp_secret TEXT,
            created_at TEXT NOT NULL,
            updated_at TEXT
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_username ON user(username COLLATE NOCASE)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_email ON user(email COLLATE NOCASE)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
            id INTEGER PRIMARY KEY,
            actor_id INTEGER,
            actor_name TEXT,
            action TEXT NOT NULL,
            target TEXT,
            metadata TEXT,
            created_at TEXT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at)`,
		`CREATE TABLE IF NOT EXISTS passkey (
            id INTEGER PRIMARY KEY,
            user_id INTEGER NOT NULL,
            name TEXT NOT NULL,
            credential_id TEXT NOT NULL UNIQUE,
            credential_json TEXT NOT NULL,
            created_at TEXT NOT NULL,
            last_used_at TEXT
        )`,
		`CREATE INDEX IF NOT EXISTS idx_passkey_user ON passkey(user_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	columns := map[string]string{
		"referral_id": "TEXT",
		"totp_secret": "TEXT",
		"updated_at":  "TEXT",
	}
	for col, typ := range columns {
		if err := ensureColumn(db, "user", col, typ); err != nil {
			return err
		}
	}
	return ensureColumn(db, "audit_log", "actor_name", "TEXT")
}

func ensureColumn(db *sql.DB, table, column, columnType string) error {
	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dflt sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		if strings.EqualFold(name, column) {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, columnType))
	return err
}
