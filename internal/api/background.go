package api

import (
	"context"

	"github.com/hireloop/hireloop/internal/workflow"
)

// runInBackground detaches a graph run from the request lifecycle. The
// HTTP handler has already persisted the triggering state change and
// responded 202; the run's outcome surfaces through the status
// endpoint, so failures are recorded on the state instead of a
// response.
func (s *Server) runInBackground(jobID, action string, fn func(ctx context.Context) (*workflow.WorkflowState, error)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.backgroundTimeout)
		defer cancel()

		if _, err := fn(ctx); err != nil {
			s.logger.Error("background workflow run failed",
				"job_id", jobID,
				"action", action,
				"err", err,
			)
			s.saveErrorState(ctx, jobID, err)
		}
	}()
}

// saveErrorState records a background failure on the job state so the
// status endpoint can report it. Best effort: a job already gone or a
// store outage here must not mask the original failure, so secondary
// errors are logged and swallowed.
func (s *Server) saveErrorState(ctx context.Context, jobID string, runErr error) {
	state, err := s.engine.GetState(ctx, jobID)
	if err != nil || state == nil {
		s.logger.Warn("could not load state to record workflow error",
			"job_id", jobID,
			"err", err,
		)
		return
	}

	state.ErrorMessage = runErr.Error()
	if err := s.engine.SaveState(ctx, jobID, state); err != nil {
		s.logger.Warn("could not persist workflow error message",
			"job_id", jobID,
			"err", err,
		)
	}
}
