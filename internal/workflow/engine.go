package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hireloop/hireloop/internal/logging"
)

// maxSteps bounds one invocation. The optimize_jd loop is already
// bounded by MaxGenerationAttempts; this is a backstop against routing
// bugs, not a tunable.
const maxSteps = 64

// Engine drives graph execution: it runs nodes from the current
// position forward along routing edges until a terminal node or the
// WAIT sentinel is reached, persisting a checkpoint after every node so
// a crash mid-run leaves the last completed node's output durable.
//
// One Invoke/Resume call runs nodes strictly sequentially; concurrency
// only arises from independent invocations targeting the same job,
// which the distributed lock serializes.
type Engine struct {
	graph   *Graph
	store   CheckpointStore
	locker  DistributedLocker
	cfg     Config
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures the Engine.
type Option func(*Engine)

// WithLocker enables distributed locking of graph execution and
// approval operations. Without a locker the engine still works, but
// concurrent invocations for the same job are not serialized.
func WithLocker(locker DistributedLocker) Option {
	return func(e *Engine) { e.locker = locker }
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics enables Prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an engine over the given graph and checkpoint
// store.
func NewEngine(graph *Graph, store CheckpointStore, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		graph:  graph,
		store:  store,
		cfg:    cfg,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetState reads the current checkpoint. A missing checkpoint returns
// (nil, nil): absence is not an error.
func (e *Engine) GetState(ctx context.Context, jobID string) (*WorkflowState, error) {
	state, err := e.store.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, ErrCheckpointNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read checkpoint for job %s: %w", jobID, err)
	}
	return state, nil
}

// ListStates returns every persisted checkpoint. Jobs deleted between
// the id listing and the read are skipped.
func (e *Engine) ListStates(ctx context.Context) ([]*WorkflowState, error) {
	ids, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}

	states := make([]*WorkflowState, 0, len(ids))
	for _, id := range ids {
		state, err := e.store.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrCheckpointNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to read checkpoint for job %s: %w", id, err)
		}
		states = append(states, state)
	}
	return states, nil
}

// SaveState overwrites the checkpoint without advancing execution. Used
// for out-of-band edits: manual JD updates, applicant injection,
// approval flag flips.
func (e *Engine) SaveState(ctx context.Context, jobID string, state *WorkflowState) error {
	state.Touch()
	if err := e.store.Put(ctx, jobID, state); err != nil {
		return &ExecutionError{Node: state.CurrentNode, Err: fmt.Errorf("failed to save workflow state: %w", err)}
	}
	return nil
}

// Invoke drives the graph forward from the state's current position
// under the per-job graph lock. It returns the state as of the last
// completed node; a WAIT pause is a clean stop, not an error.
func (e *Engine) Invoke(ctx context.Context, state *WorkflowState, jobID string) (*WorkflowState, error) {
	var result *WorkflowState
	err := e.withLock(ctx, "job:graph:"+jobID, e.cfg.GraphLockLease, func(ctx context.Context) error {
		var runErr error
		result, runErr = e.run(ctx, state, jobID)
		return runErr
	})
	return result, err
}

// Resume persists the updated state, then continues execution from the
// current node. This is the only path that should follow a human
// approval action: the approval flips a status field out-of-band and
// Resume re-enters the graph with the already-saved state.
func (e *Engine) Resume(ctx context.Context, jobID string, updated *WorkflowState) (*WorkflowState, error) {
	var result *WorkflowState
	err := e.withLock(ctx, "job:graph:"+jobID, e.cfg.GraphLockLease, func(ctx context.Context) error {
		if err := e.store.Put(ctx, jobID, updated); err != nil {
			return &ExecutionError{Node: updated.CurrentNode, Err: fmt.Errorf("failed to save workflow state: %w", err)}
		}
		var runErr error
		result, runErr = e.run(ctx, updated, jobID)
		return runErr
	})
	return result, err
}

// WithApprovalLock serializes an approval-adjacent state mutation for a
// job. API handlers wrap their read-modify-save sequences in this.
func (e *Engine) WithApprovalLock(ctx context.Context, jobID string, fn func(ctx context.Context) error) error {
	return e.withLock(ctx, "job:approve:"+jobID, e.cfg.ApprovalLockLease, fn)
}

// ValidateTransition checks that a transition into target would be
// allowed for the given state.
func (e *Engine) ValidateTransition(state *WorkflowState, target NodeName) error {
	return ValidateForNode(state, target)
}

// run is the execution loop. The starting position is re-executed only
// when the state sits at a pre-graph status (pending, jd_review); a
// state parked on a declared node has already run it, so execution
// continues with that node's routing. This is what makes Resume after a
// shortlist approval proceed directly into voice_prescreening without
// re-running shortlist_candidates.
//
// Transition validation applies at entry only. Routing decisions made
// inside the run derive from state the loop just produced, and each
// node handles its own empty-input cases (an exhausted optimize loop
// legitimately enters shortlist_candidates with zero applicants and
// parks at its gate).
func (e *Engine) run(ctx context.Context, state *WorkflowState, jobID string) (*WorkflowState, error) {
	e.metrics.invoked()

	// A fresh run supersedes any error persisted by an earlier failed
	// attempt; the first checkpoint durably clears it.
	state.ErrorMessage = ""

	node, err := e.graph.EntryFor(state.CurrentNode)
	if err != nil {
		return nil, &ExecutionError{Node: state.CurrentNode, Err: err}
	}
	runNode := !e.graph.HasNode(NodeName(state.CurrentNode))
	if runNode {
		if err := ValidateForNode(state, node); err != nil {
			return nil, err
		}
	}

	for step := 0; step < maxSteps; step++ {
		if runNode {
			if err := e.execute(ctx, node, state, jobID); err != nil {
				return nil, err
			}
			if err := e.store.Put(ctx, jobID, state); err != nil {
				return nil, &ExecutionError{Node: state.CurrentNode, Err: fmt.Errorf("failed to checkpoint after %s: %w", node, err)}
			}
		}
		runNode = true

		route, ok := e.graph.Route(node)
		if !ok {
			// Terminal node.
			return state, nil
		}
		next := route(state)
		if next == WaitForHuman {
			e.metrics.waited()
			e.logger.Debug("workflow paused for human action",
				"job_id", jobID,
				"node", string(node),
			)
			return state, nil
		}
		node = next
	}

	return nil, &ExecutionError{Node: state.CurrentNode, Err: fmt.Errorf("exceeded %d steps in one invocation", maxSteps)}
}

// execute runs a single node, translating failures into the typed error
// taxonomy.
func (e *Engine) execute(ctx context.Context, node NodeName, state *WorkflowState, jobID string) error {
	fn, ok := e.graph.Node(node)
	if !ok {
		return &ExecutionError{Node: string(node), Err: errors.New("node not registered")}
	}

	if err := fn(ctx, state); err != nil {
		e.metrics.nodeFailed(node)
		e.logger.Error("workflow node failed",
			"job_id", jobID,
			"node", string(node),
			"err", err,
		)

		var nodeErr *NodeError
		var transErr *TransitionError
		if errors.As(err, &nodeErr) || errors.As(err, &transErr) {
			return err
		}
		return &ExecutionError{Node: string(node), Err: err}
	}

	e.metrics.nodeExecuted(node)
	return nil
}

// withLock runs fn under the distributed lock for key. Acquisition is
// bounded by the configured wait ceiling. If the lock backend is
// unreachable the engine logs a warning and proceeds without the lock:
// an explicit availability-over-serialization tradeoff, not a bug.
func (e *Engine) withLock(ctx context.Context, key string, lease time.Duration, fn func(ctx context.Context) error) error {
	if e.locker == nil {
		return fn(ctx)
	}

	waitCtx, cancel := context.WithTimeout(ctx, e.cfg.LockWaitCeiling)
	defer cancel()

	unlock, err := e.locker.Lock(waitCtx, key, lease)
	if err != nil {
		if errors.Is(err, ErrLockUnavailable) {
			e.logger.Warn("lock backend unavailable, proceeding without lock",
				"key", key,
				"err", err,
			)
			return fn(ctx)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s after %s", ErrLockTimeout, key, e.cfg.LockWaitCeiling)
		}
		return fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	defer func() {
		// Cleanup is best effort: a failed release expires via TTL.
		if err := unlock(ctx); err != nil {
			e.logger.Warn("failed to release lock, lease will expire",
				"key", key,
				"err", err,
			)
		}
	}()

	return fn(ctx)
}
