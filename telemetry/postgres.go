package telemetry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	// PostgreSQL driver
	_ "github.com/lib/pq"
)

const createTracesTable = `
CREATE TABLE IF NOT EXISTS llm_traces (
	id BIGSERIAL PRIMARY KEY,
	request_id TEXT NOT NULL,
	role TEXT NOT NULL,
	provider TEXT NOT NULL,
	model TEXT NOT NULL DEFAULT '',
	attempt INT NOT NULL DEFAULT 0,
	started_at TIMESTAMPTZ NOT NULL,
	elapsed_ms DOUBLE PRECISION NOT NULL DEFAULT 0,
	failure_kind TEXT,
	error TEXT,
	usage JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const insertTrace = `
INSERT INTO llm_traces
	(request_id, role, provider, model, attempt, started_at, elapsed_ms, failure_kind, error, usage)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// PostgresTraceStore persists trace records in a llm_traces table, for
// deployments where traces must outlive the local filesystem.
type PostgresTraceStore struct {
	db *sql.DB
}

// NewPostgresTraceStore creates a store over an open database handle.
func NewPostgresTraceStore(db *sql.DB) *PostgresTraceStore {
	return &PostgresTraceStore{db: db}
}

// OpenPostgres opens and pings a PostgreSQL connection for trace storage.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

// Migrate creates the llm_traces table if it does not exist.
func (s *PostgresTraceStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTracesTable); err != nil {
		return fmt.Errorf("failed to create llm_traces table: %w", err)
	}
	return nil
}

// Write implements TraceStore.
func (s *PostgresTraceStore) Write(trace *TraceRecord) error {
	var usage []byte
	if trace.Usage != nil {
		var err error
		usage, err = json.Marshal(trace.Usage)
		if err != nil {
			return fmt.Errorf("failed to marshal usage: %w", err)
		}
	}

	var failureKind, errMsg sql.NullString
	if trace.FailureKind != "" {
		failureKind = sql.NullString{String: trace.FailureKind, Valid: true}
	}
	if trace.Error != "" {
		errMsg = sql.NullString{String: trace.Error, Valid: true}
	}

	_, err := s.db.Exec(insertTrace,
		trace.RequestID,
		trace.Role,
		trace.Provider,
		trace.Model,
		trace.Attempt,
		trace.StartedAt,
		trace.ElapsedMS,
		failureKind,
		errMsg,
		usage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trace record: %w", err)
	}
	return nil
}
