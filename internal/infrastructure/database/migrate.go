package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"legal-literacy-portal/pkg/logger"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// MigrateSQLite brings a SQLite database up to the latest schema
func MigrateSQLite(ctx context.Context, db *SQLiteDB, log *logger.Logger) error {
	return migrate(ctx, db.DB(), goose.DialectSQLite3, "migrations/sqlite", log)
}

// MigratePostgres brings a PostgreSQL database up to the latest schema
func MigratePostgres(ctx context.Context, db *PostgresDB, log *logger.Logger) error {
	sqlDB := db.SQL()
	defer sqlDB.Close()
	return migrate(ctx, sqlDB, goose.DialectPostgres, "migrations/postgres", log)
}

func migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string, log *logger.Logger) error {
	log = log.WithComponent("migrate")

	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		log.Info().
			Int64("version", r.Source.Version).
			Str("file", r.Source.Path).
			Dur("duration", r.Duration).
			Msg("migration applied")
	}
	return nil
}
