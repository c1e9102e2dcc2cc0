package workflow

import (
	"errors"
	"fmt"
)

// ErrCheckpointNotFound is returned by a CheckpointStore when no
// snapshot exists for a job id.
var ErrCheckpointNotFound = errors.New("checkpoint not found")

// ErrLockTimeout is returned when the lock backend is reachable but the
// lease could not be obtained within the wait ceiling.
var ErrLockTimeout = errors.New("timed out acquiring job lock")

// ErrLockUnavailable signals that the lock backend itself is
// unreachable. Callers degrade to unlocked execution instead of failing
// closed; availability is preferred over strict serialization here.
var ErrLockUnavailable = errors.New("lock backend unavailable")

// TransitionError reports an attempt to enter a node whose
// preconditions are unmet. It names the position, the attempted action
// and the actions that would make the transition legal, so callers can
// tell "not ready yet" from "execution failed".
type TransitionError struct {
	CurrentNode     string
	AttemptedAction string
	AllowedActions  []string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot perform %q while in %q state", e.AttemptedAction, e.CurrentNode)
}

// NodeError wraps a collaborator failure inside a node. Each failing
// node produces one of these, carrying the node name and the original
// cause. The engine never retries them automatically.
type NodeError struct {
	Node NodeName
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s failed: %v", e.Node, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// ExecutionError wraps any unexpected failure during graph execution so
// callers always receive a typed, loggable error.
type ExecutionError struct {
	Node string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("workflow execution failed at %s: %v", e.Node, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

func jdGenerationError(err error) error {
	return &NodeError{Node: NodeGenerateJD, Err: err}
}

func shortlistingError(err error) error {
	return &NodeError{Node: NodeShortlistCandidates, Err: err}
}

func prescreeningError(err error) error {
	return &NodeError{Node: NodeVoicePrescreening, Err: err}
}

func schedulingError(err error) error {
	return &NodeError{Node: NodeScheduleInterview, Err: err}
}
