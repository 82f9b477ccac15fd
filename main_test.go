package main

import (
	"path/filepath"
	"testing"

	investhttp "invest/internal/platform/http"
	sqlitestore "invest/internal/platform/storage/sqlite"
	"invest/internal/testutil"
)

func TestMainWiring(t *testing.T) {
	testutil.ChdirRepoRoot(t)
	srv := testutil.NewServer(t)
	if handler := investhttp.Routes(srv); handler == nil {
		t.Fatalf("expected router handler")
	}
}

func TestOpenDB(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "invest.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if err := sqlitestore.InitDB(db); err != nil {
		t.Fatalf("init db: %v", err)
	}
	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("expected wal journal, got %q", mode)
	}
}
