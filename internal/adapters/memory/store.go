// Package memory provides an in-process checkpoint store and locker,
// used in tests and single-instance development mode.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/hireloop/hireloop/internal/workflow"
)

// Store implements workflow.CheckpointStore in memory. Snapshots are
// stored as JSON so Get returns an independent copy, matching the
// serialization behavior of the durable backends.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, jobID string) (*workflow.WorkflowState, error) {
	s.mu.RLock()
	raw, ok := s.data[jobID]
	s.mu.RUnlock()
	if !ok {
		return nil, workflow.ErrCheckpointNotFound
	}

	var state workflow.WorkflowState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Store) Put(ctx context.Context, jobID string, state *workflow.WorkflowState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data[jobID] = raw
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(ctx context.Context, jobID string) error {
	s.mu.Lock()
	delete(s.data, jobID)
	s.mu.Unlock()
	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
