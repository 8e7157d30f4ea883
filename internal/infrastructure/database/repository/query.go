package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/internal/infrastructure/database"
)

// SQLiteQueryRepository stores property queries in the embedded SQLite file.
// Writes are serialized; the file has a single writer.
type SQLiteQueryRepository struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteQueryRepository creates a repository over an opened SQLite database
func NewSQLiteQueryRepository(db *database.SQLiteDB) *SQLiteQueryRepository {
	return &SQLiteQueryRepository{db: db.DB()}
}

// Save inserts a query and returns its row id
func (r *SQLiteQueryRepository) Save(ctx context.Context, q *models.PropertyQuery) (int64, error) {
	const query = `
		INSERT INTO property_queries (
			query_id, "timestamp", name, email, phone, query_type, urgency,
			description, files, marketing_consent, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, query,
		q.QueryID, q.Timestamp, q.Name, q.Email, q.Phone, q.QueryType, q.Urgency,
		q.Description, q.Files, q.MarketingConsent, string(q.Status),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert property query: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	q.ID = id
	return id, nil
}

// LoadAll returns every stored query in insertion order
func (r *SQLiteQueryRepository) LoadAll(ctx context.Context) ([]models.PropertyQuery, error) {
	const query = `
		SELECT id, query_id, "timestamp", name, email, phone, query_type, urgency,
			description, files, marketing_consent, status
		FROM property_queries
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list property queries: %w", err)
	}
	defer rows.Close()

	out := []models.PropertyQuery{}
	for rows.Next() {
		var q models.PropertyQuery
		if err := rows.Scan(scanTargets(&q)...); err != nil {
			return nil, fmt.Errorf("failed to scan property query: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate property queries: %w", err)
	}
	return out, nil
}

// UpdateStatus changes the status of the query with the given query id
func (r *SQLiteQueryRepository) UpdateStatus(ctx context.Context, queryID string, status models.QueryStatus) error {
	const query = `UPDATE property_queries SET status = ? WHERE query_id = ?`

	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, query, string(status), queryID)
	if err != nil {
		return fmt.Errorf("failed to update property query: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// PostgresQueryRepository stores property queries in PostgreSQL
type PostgresQueryRepository struct {
	db database.DBTX
}

// NewPostgresQueryRepository creates a repository over the pool
func NewPostgresQueryRepository(db *database.PostgresDB) *PostgresQueryRepository {
	return &PostgresQueryRepository{db: db.Pool()}
}

// Save inserts a query and returns its row id
func (r *PostgresQueryRepository) Save(ctx context.Context, q *models.PropertyQuery) (int64, error) {
	const query = `
		INSERT INTO property_queries (
			query_id, "timestamp", name, email, phone, query_type, urgency,
			description, files, marketing_consent, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		q.QueryID, q.Timestamp, q.Name, q.Email, q.Phone, q.QueryType, q.Urgency,
		q.Description, q.Files, q.MarketingConsent, string(q.Status),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert property query: %w", err)
	}
	q.ID = id
	return id, nil
}

// LoadAll returns every stored query in insertion order
func (r *PostgresQueryRepository) LoadAll(ctx context.Context) ([]models.PropertyQuery, error) {
	const query = `
		SELECT id, query_id, "timestamp", name, email, phone, query_type, urgency,
			description, files, marketing_consent, status
		FROM property_queries
		ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list property queries: %w", err)
	}
	defer rows.Close()

	out := []models.PropertyQuery{}
	for rows.Next() {
		var q models.PropertyQuery
		if err := rows.Scan(scanTargets(&q)...); err != nil {
			return nil, fmt.Errorf("failed to scan property query: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate property queries: %w", err)
	}
	return out, nil
}

// UpdateStatus changes the status of the query with the given query id
func (r *PostgresQueryRepository) UpdateStatus(ctx context.Context, queryID string, status models.QueryStatus) error {
	const query = `UPDATE property_queries SET status = $1 WHERE query_id = $2`

	tag, err := r.db.Exec(ctx, query, string(status), queryID)
	if err != nil {
		return fmt.Errorf("failed to update property query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// FindByQueryID returns one query by its QRY_ id
func (r *PostgresQueryRepository) FindByQueryID(ctx context.Context, queryID string) (*models.PropertyQuery, error) {
	const query = `
		SELECT id, query_id, "timestamp", name, email, phone, query_type, urgency,
			description, files, marketing_consent, status
		FROM property_queries
		WHERE query_id = $1`

	var q models.PropertyQuery
	if err := r.db.QueryRow(ctx, query, queryID).Scan(scanTargets(&q)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get property query: %w", err)
	}
	return &q, nil
}

// FindByQueryID returns one query by its QRY_ id
func (r *SQLiteQueryRepository) FindByQueryID(ctx context.Context, queryID string) (*models.PropertyQuery, error) {
	const query = `
		SELECT id, query_id, "timestamp", name, email, phone, query_type, urgency,
			description, files, marketing_consent, status
		FROM property_queries
		WHERE query_id = ?`

	var q models.PropertyQuery
	if err := r.db.QueryRowContext(ctx, query, queryID).Scan(scanTargets(&q)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get property query: %w", err)
	}
	return &q, nil
}

func scanTargets(q *models.PropertyQuery) []any {
	return []any{
		&q.ID, &q.QueryID, &q.Timestamp, &q.Name, &q.Email, &q.Phone, &q.QueryType,
		&q.Urgency, &q.Description, &q.Files, &q.MarketingConsent, &q.Status,
	}
}
