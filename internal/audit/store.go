// Package audit persists a local log of executed bulk batches.
//
// It uses SQLite (pure-Go driver) so operators and the bulk_history tool
// can answer "what did the agent mass-change last Tuesday" without the
// remote instance's audit trail. The log is best-effort: if the database
// can't be opened, bulk tools keep working without history.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const schema = `
CREATE TABLE IF NOT EXISTS bulk_runs (
	id          TEXT PRIMARY KEY,
	operation   TEXT NOT NULL,
	total       INTEGER NOT NULL,
	succeeded   INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	started_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bulk_runs_started_at ON bulk_runs(started_at DESC);
`

// Entry is one recorded bulk batch.
type Entry struct {
	ID        string
	Operation string
	Total     int
	Succeeded int
	Failed    int
	Duration  time.Duration
	StartedAt time.Time
}

// Store is a SQLite-backed bulk run log.
type Store struct {
	db *sql.DB
}

// Open creates (or opens) the audit database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating audit directory: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing audit schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts one bulk run. An empty ID is filled with a fresh UUID;
// the assigned ID is returned.
func (s *Store) Record(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bulk_runs (id, operation, total, succeeded, failed, duration_ms, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Operation, e.Total, e.Succeeded, e.Failed,
		e.Duration.Milliseconds(), e.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("recording bulk run: %w", err)
	}
	return e.ID, nil
}

// Recent returns the most recent bulk runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, operation, total, succeeded, failed, duration_ms, started_at
		 FROM bulk_runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying bulk runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMS int64
		var startedAt string
		if err := rows.Scan(&e.ID, &e.Operation, &e.Total, &e.Succeeded, &e.Failed, &durationMS, &startedAt); err != nil {
			return nil, fmt.Errorf("scanning bulk run: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
			e.StartedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
