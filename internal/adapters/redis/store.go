// Package redis provides the Redis-backed checkpoint store and
// distributed locker.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/hireloop/hireloop/internal/workflow"
)

// Store implements workflow.CheckpointStore using Redis. Snapshots are
// stored as JSON blobs keyed by job id, with a ZSET index so List does
// not scan the keyspace.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// StoreOption configures the Store.
type StoreOption func(*Store)

// WithTTL sets an expiration for checkpoints. Zero means no expiry.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) { s.ttl = ttl }
}

// WithPrefix sets the key prefix for checkpoints.
func WithPrefix(prefix string) StoreOption {
	return func(s *Store) { s.prefix = prefix }
}

// NewStore creates a Redis checkpoint store from an existing client.
func NewStore(client *backend.Client, opts ...StoreOption) *Store {
	store := &Store{
		client: client,
		prefix: "hireloop:job:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(jobID string) string {
	return s.prefix + jobID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Put overwrites the checkpoint for a job and refreshes its index
// entry.
func (s *Store) Put(ctx context.Context, jobID string, state *workflow.WorkflowState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(jobID), data, s.ttl)

	// Index score is the write time, so List returns ids oldest first.
	// Expiry is tracked by the checkpoint key itself, not the score.
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: float64(time.Now().Unix()), Member: jobID})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save checkpoint to redis: %w", err)
	}
	return nil
}

// Get retrieves the checkpoint for a job.
func (s *Store) Get(ctx context.Context, jobID string) (*workflow.WorkflowState, error) {
	val, err := s.client.Get(ctx, s.key(jobID)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, workflow.ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("failed to get checkpoint from redis: %w", err)
	}

	var state workflow.WorkflowState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return &state, nil
}

// Delete removes the checkpoint and its index entry.
func (s *Store) Delete(ctx context.Context, jobID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(jobID))
	pipe.ZRem(ctx, s.indexKey(), jobID)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns the job ids with a stored checkpoint. Index entries
// whose checkpoint key has expired are pruned lazily, keyed off the
// key's actual existence so Redis remains the authority on expiry.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	if len(ids) == 0 {
		return ids, nil
	}

	pipe := s.client.Pipeline()
	checks := make([]*backend.IntCmd, len(ids))
	for i, id := range ids {
		checks[i] = pipe.Exists(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to check checkpoint liveness: %w", err)
	}

	live := make([]string, 0, len(ids))
	var stale []interface{}
	for i, id := range ids {
		if checks[i].Val() == 0 {
			stale = append(stale, id)
			continue
		}
		live = append(live, id)
	}
	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired checkpoints: %w", err)
		}
	}
	return live, nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
