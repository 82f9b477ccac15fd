package sqlitestore

import (
	"context"
	"database/sql"
)

func deleteUser(ctx context.Context, db *sql.DB, userID int) error {
	_, err := db.ExecContext(ctx, "DELETE FROM user WHERE id = ?", userID)
	return err
}

func countUsers(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM user").Scan(&count)
	return count, err
}
