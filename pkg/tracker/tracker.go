package tracker

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/alicanaksel/Cineseek/pkg/models"
)

// Tracker records and summarizes resolved logical operations.
type Tracker interface {
	// Record stores one request record.
	Record(ctx context.Context, rec models.RequestRecord) error
	// Summary returns per-operation aggregates over the whole log.
	Summary(ctx context.Context) ([]models.OperationSummary, error)
	// Close releases resources.
	Close() error
}

// SQLiteTracker implements Tracker with a SQLite database.
type SQLiteTracker struct {
	db *sql.DB
}

const createTable = `
CREATE TABLE IF NOT EXISTS request_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	operation TEXT NOT NULL,
	query TEXT NOT NULL,
	cache_status TEXT NOT NULL,
	outcome TEXT NOT NULL,
	latency_ms INTEGER NOT NULL,
	request_id TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_request_log_op_time ON request_log(operation, created_at);
`

// New creates a SQLiteTracker and runs auto-migration.
func New(dbPath string) (*SQLiteTracker, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open tracker db: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate tracker db: %w", err)
	}

	return &SQLiteTracker{db: db}, nil
}

// Record stores one request record.
func (t *SQLiteTracker) Record(ctx context.Context, rec models.RequestRecord) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO request_log (operation, query, cache_status, outcome, latency_ms, request_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Operation, rec.Query, rec.CacheStatus, rec.Outcome, rec.LatencyMs, rec.RequestID, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record request: %w", err)
	}
	return nil
}

// Summary returns per-operation aggregates ordered by request count.
func (t *SQLiteTracker) Summary(ctx context.Context) ([]models.OperationSummary, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT operation,
		        COUNT(*),
		        SUM(CASE WHEN cache_status = ? THEN 1 ELSE 0 END),
		        SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		        AVG(latency_ms),
		        MAX(created_at)
		 FROM request_log
		 GROUP BY operation
		 ORDER BY COUNT(*) DESC`,
		models.CacheHit, models.OutcomeError,
	)
	if err != nil {
		return nil, fmt.Errorf("summarize requests: %w", err)
	}
	defer rows.Close()

	var out []models.OperationSummary
	for rows.Next() {
		var s models.OperationSummary
		if err := rows.Scan(&s.Operation, &s.Requests, &s.CacheHits, &s.Failures, &s.AvgLatencyMs, &s.LastSeen); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Close releases the database connection.
func (t *SQLiteTracker) Close() error {
	return t.db.Close()
}
