package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"go.uber.org/zap"
	"invest/internal/config"
	platformhttp "invest/internal/platform/http"
	"invest/internal/platform/logging"
	platformserver "invest/internal/platform/server"
	"invest/internal/platform/storage"
	sqlitestore "invest/internal/platform/storage/sqlite"
	_ "modernc.org/sqlite"
)

// main wires dependencies and starts the HTTP server.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if len(os.Args) > 1 && os.Args[1] == "backup" {
		dest := ""
		if len(os.Args) > 2 {
			dest = os.Args[2]
		}
		path, err := storage.BackupToZip(cfg, dest)
		if err != nil {
			logger.Fatal("backup failed", zap.Error(err))
		}
		logger.Info("backup written", zap.String("path", path))
		return
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		logger.Fatal("db open", zap.Error(err))
	}
	defer db.Close()

	if err := sqlitestore.InitDB(db); err != nil {
		logger.Fatal("db init", zap.Error(err))
	}

	srv, err := platformserver.NewServer(cfg, db, logger)
	if err != nil {
		logger.Fatal("server init", zap.Error(err))
	}

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	logger.Info("listening",
		zap.String("addr", addr),
		zap.String("env", cfg.Env),
		zap.Bool("env_file", cfg.EnvFileLoaded),
	)
	if err := http.ListenAndServe(addr, platformhttp.Routes(srv)); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// openDB opens SQLite with a single connection and WAL journaling.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal_mode: %w", err)
	}
	return db, nil
}
