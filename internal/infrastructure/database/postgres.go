package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"legal-literacy-portal/internal/config"
	"legal-literacy-portal/pkg/logger"
)

const (
	postgresConnectTimeout = 10 * time.Second
	postgresAppName        = "legal-literacy-portal"
)

// PostgresDB is the server-grade query store used when storage.driver is postgres.
// Sessions run in UTC so query timestamps round-trip unchanged.
type PostgresDB struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewPostgres opens a pool against cfg and waits for the first ping
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*PostgresDB, error) {
	log = log.WithComponent("postgres")

	poolConfig, err := poolConfigFor(cfg)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("dbname", cfg.DBName).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("connecting to PostgreSQL")

	connectCtx, cancel := context.WithTimeout(ctx, postgresConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresDB{pool: pool, logger: log}, nil
}

func poolConfigFor(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 && int32(cfg.MaxIdleConns) <= poolConfig.MaxConns {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	params := poolConfig.ConnConfig.RuntimeParams
	params["application_name"] = postgresAppName
	params["timezone"] = "UTC"
	return poolConfig, nil
}

// Pool returns the pgx pool repositories query through
func (db *PostgresDB) Pool() *pgxpool.Pool {
	return db.pool
}

// SQL returns a database/sql view of the pool. Closing it leaves the pool open.
func (db *PostgresDB) SQL() *sql.DB {
	return stdlib.OpenDBFromPool(db.pool)
}

// Ping checks the database and logs pool pressure when every connection is busy
func (db *PostgresDB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return err
	}
	if stat := db.pool.Stat(); stat.AcquiredConns() >= stat.MaxConns() {
		db.logger.Warn().
			Int32("acquired", stat.AcquiredConns()).
			Int32("max", stat.MaxConns()).
			Msg("connection pool exhausted")
	}
	return nil
}

// Close releases every pooled connection
func (db *PostgresDB) Close() error {
	db.logger.Info().Msg("closing PostgreSQL pool")
	db.pool.Close()
	return nil
}

// DBTX is satisfied by both the pool and a transaction
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

var (
	_ DBTX = (*pgxpool.Pool)(nil)
	_ DBTX = (pgx.Tx)(nil)
)
