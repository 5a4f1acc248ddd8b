// Package sqlite provides a SQLite-backed implementation of
// steplog.Repository.
//
// WAL mode is enabled on Open so readers never block the writer: the
// orchestrator appends rows on the request path while an operator may be
// querying the log.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quickcart/orderflow/internal/orchestrator/steplog"

	// Pure-Go SQLite driver; no CGO needed in the container build.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS order_steps (
    id            TEXT PRIMARY KEY,
    execution_id  TEXT NOT NULL,
    status        TEXT NOT NULL,
    step          TEXT NOT NULL DEFAULT '',
    detail        TEXT NOT NULL DEFAULT '',
    trace_id      TEXT NOT NULL DEFAULT '',
    span_id       TEXT NOT NULL DEFAULT '',
    recorded_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_steps_execution ON order_steps(execution_id, recorded_at);
CREATE INDEX IF NOT EXISTS idx_order_steps_trace ON order_steps(trace_id);
`

// Repository is the SQLite implementation of steplog.Repository.
type Repository struct {
	db *sql.DB
}

var _ steplog.Repository = (*Repository)(nil)

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error { return r.db.Close() }

// Save appends a step log row. Safe for concurrent use.
func (r *Repository) Save(ctx context.Context, entry *steplog.Entry) error {
	const q = `
		INSERT INTO order_steps
			(id, execution_id, status, step, detail, trace_id, span_id, recorded_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.ID,
		entry.ExecutionID,
		string(entry.Status),
		entry.Step,
		entry.Detail,
		entry.TraceID,
		entry.SpanID,
		entry.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save step for %q: %w", entry.ExecutionID, err)
	}
	return nil
}

// Latest returns the most recent row for an execution id.
func (r *Repository) Latest(ctx context.Context, executionID string) (*steplog.Entry, error) {
	const q = `
		SELECT id, execution_id, status, step, detail, trace_id, span_id, recorded_at
		FROM   order_steps
		WHERE  execution_id = ?
		ORDER  BY recorded_at DESC, id DESC
		LIMIT  1`

	row := r.db.QueryRowContext(ctx, q, executionID)

	var (
		entry      steplog.Entry
		recordedAt string
	)
	err := row.Scan(
		&entry.ID,
		&entry.ExecutionID,
		&entry.Status,
		&entry.Step,
		&entry.Detail,
		&entry.TraceID,
		&entry.SpanID,
		&recordedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sqlite: execution %q not found", executionID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: latest for %q: %w", executionID, err)
	}

	entry.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: parse time %q: %w", recordedAt, err)
	}

	return &entry, nil
}
