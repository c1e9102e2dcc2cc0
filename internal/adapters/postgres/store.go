// Package postgres provides a Postgres-backed checkpoint store.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/hireloop/hireloop/internal/workflow"
)

const schema = `
CREATE TABLE IF NOT EXISTS workflow_checkpoints (
	job_id     TEXT PRIMARY KEY,
	state      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// Store implements workflow.CheckpointStore on Postgres. Each job's
// snapshot lives in one JSONB row, overwritten on every Put.
type Store struct {
	db *sql.DB
}

// NewStore opens a connection pool and ensures the checkpoint table
// exists.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure checkpoint schema: %w", err)
	}

	return &Store{db: db}, nil
}

// NewStoreFromDB wraps an existing pool without touching the schema.
func NewStoreFromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, jobID string) (*workflow.WorkflowState, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM workflow_checkpoints WHERE job_id = $1`, jobID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, workflow.ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("failed to get checkpoint: %w", err)
	}

	var state workflow.WorkflowState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return &state, nil
}

func (s *Store) Put(ctx context.Context, jobID string, state *workflow.WorkflowState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workflow_checkpoints (job_id, state, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (job_id) DO UPDATE SET state = EXCLUDED.state, updated_at = now()`,
		jobID, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, jobID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM workflow_checkpoints WHERE job_id = $1`, jobID)
	return err
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id FROM workflow_checkpoints ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the pool.
func (s *Store) Close() error {
	return s.db.Close()
}
