package workflow

import "context"

// CheckpointStore persists full state snapshots keyed by job id. It is
// the sole source of truth across process restarts: every mutation path
// ends in a Put before control returns to the caller.
type CheckpointStore interface {
	// Get retrieves the snapshot for a job id. Returns
	// ErrCheckpointNotFound if none exists.
	Get(ctx context.Context, jobID string) (*WorkflowState, error)

	// Put overwrites the snapshot for a job id.
	Put(ctx context.Context, jobID string, state *WorkflowState) error

	// Delete removes the snapshot. Called as part of job deletion only.
	Delete(ctx context.Context, jobID string) error

	// List returns the job ids with a stored snapshot.
	List(ctx context.Context) ([]string, error)
}
