package testutil

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"
	"invest/internal/config"
	investserver "invest/internal/platform/server"
	sqlitestore "invest/internal/platform/storage/sqlite"
	_ "modernc.org/sqlite"
)

func TestConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:            "test",
		SecretKey:      []byte("test-secret"),
		StaticDir:      t.TempDir(),
		CookieSameSite: http.SameSiteLaxMode,
		SessionCookie:  "invest_session",
		SessionMaxAge:  3600,
		ProtectedPaths: []string{"/user/:path*"},
		LoginPath:      "/login",
		LandingPath:    "/user/dashboard",
		RedirectDelay:  1500 * time.Millisecond,
		DisableCSRF:    true,
		RegisterRate:   100,
		RegisterBurst:  100,
		LoginRate:      100,
		LoginBurst:     100,
		TOTPIssuer:     "Global Invest",
	}
}

// OpenDB returns an initialized in-memory database closed at test cleanup.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := sqlitestore.InitDB(db); err != nil {
		t.Fatalf("init db: %v", err)
	}
	return db
}

func NewServer(t *testing.T) *investserver.Server {
	t.Helper()
	return NewServerWithConfig(t, TestConfig(t))
}

func NewServerWithConfig(t *testing.T, cfg config.Config) *investserver.Server {
	t.Helper()
	srv, err := investserver.NewServer(cfg, OpenDB(t), zap.NewNop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}
