package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"legal-literacy-portal/pkg/logger"
)

// SQLiteDB wraps a single-connection SQLite handle. Writes are serialized by the
// single connection, so the file has exactly one writer per process.
type SQLiteDB struct {
	db     *sql.DB
	path   string
	logger *logger.Logger
}

// NewSQLite opens (creating if needed) the SQLite file at path
func NewSQLite(ctx context.Context, path string, log *logger.Logger) (*SQLiteDB, error) {
	log = log.WithComponent("sqlite")
	log.Info().Str("path", path).Msg("opening SQLite database")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return &SQLiteDB{db: db, path: path, logger: log}, nil
}

// DB returns the underlying handle
func (s *SQLiteDB) DB() *sql.DB {
	return s.db
}

// Ping checks the database file is reachable
func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *SQLiteDB) Close() error {
	s.logger.Info().Msg("closing SQLite database")
	return s.db.Close()
}
