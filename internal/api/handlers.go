package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hireloop/hireloop/internal/workflow"
)

// createJob starts a new recruitment pipeline. The initial run happens
// in the background so the recruiter gets the job id back immediately;
// progress is polled through the status endpoint.
func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	var input workflow.JobInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if input.RoleTitle == "" || input.CompanyName == "" {
		writeBadRequest(w, "role_title and company_name are required")
		return
	}

	state := workflow.NewState(input, s.cfg)
	if err := s.engine.SaveState(r.Context(), state.JobID, state); err != nil {
		writeError(w, err)
		return
	}

	s.runInBackground(state.JobID, "invoke", func(ctx context.Context) (*workflow.WorkflowState, error) {
		return s.engine.Invoke(ctx, state, state.JobID)
	})

	writeJSON(w, http.StatusAccepted, workflow.BuildStatus(state))
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	states, err := s.engine.ListStates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	statuses := make([]workflow.Status, 0, len(states))
	for _, state := range states {
		statuses = append(statuses, workflow.BuildStatus(state))
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	state, ok := s.loadState(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, workflow.BuildStatus(state))
}

type jdResponse struct {
	JobDescription     *workflow.GeneratedJD   `json:"job_description"`
	ApprovalStatus     workflow.ApprovalStatus `json:"approval_status"`
	GenerationAttempts int                     `json:"generation_attempts"`
	Feedback           string                  `json:"feedback,omitempty"`
}

func (s *Server) getJD(w http.ResponseWriter, r *http.Request) {
	state, ok := s.loadState(w, r)
	if !ok {
		return
	}
	if state.JD.GeneratedJD == nil {
		writeNotFound(w, "job description not generated yet")
		return
	}
	writeJSON(w, http.StatusOK, jdResponse{
		JobDescription:     state.JD.GeneratedJD,
		ApprovalStatus:     state.JD.ApprovalStatus,
		GenerationAttempts: state.JD.GenerationAttempts,
		Feedback:           state.JD.Feedback,
	})
}

// updateJD replaces the JD with a manually edited version. The edit
// resets the approval gate: edited content needs a fresh sign-off.
func (s *Server) updateJD(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	var jd workflow.GeneratedJD
	if err := json.NewDecoder(r.Body).Decode(&jd); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if jd.JobTitle == "" || jd.Description == "" {
		writeBadRequest(w, "job_title and description are required")
		return
	}

	var resp jdResponse
	err := s.engine.WithApprovalLock(r.Context(), jobID, func(ctx context.Context) error {
		state, err := s.engine.GetState(ctx, jobID)
		if err != nil {
			return err
		}
		if state == nil {
			return workflow.ErrCheckpointNotFound
		}

		state.JD.GeneratedJD = &jd
		state.JD.ApprovalStatus = workflow.ApprovalPending
		if err := s.engine.SaveState(ctx, jobID, state); err != nil {
			return err
		}
		resp = jdResponse{
			JobDescription:     state.JD.GeneratedJD,
			ApprovalStatus:     state.JD.ApprovalStatus,
			GenerationAttempts: state.JD.GenerationAttempts,
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// approveJD records the recruiter's JD sign-off and resumes the graph
// in the background. The bypass flag keeps the re-entered generate_jd
// node from producing a new JD over the approved one.
func (s *Server) approveJD(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	var approved *workflow.WorkflowState
	err := s.engine.WithApprovalLock(r.Context(), jobID, func(ctx context.Context) error {
		state, err := s.engine.GetState(ctx, jobID)
		if err != nil {
			return err
		}
		if state == nil {
			return workflow.ErrCheckpointNotFound
		}
		if state.JD.GeneratedJD == nil {
			return &workflow.TransitionError{
				CurrentNode:     state.CurrentNode,
				AttemptedAction: "approve_jd",
				AllowedActions:  []string{string(workflow.NodeGenerateJD)},
			}
		}

		state.JD.ApprovalStatus = workflow.ApprovalApproved
		state.JD.BypassGeneration = true
		if err := s.engine.SaveState(ctx, jobID, state); err != nil {
			return err
		}
		approved = state
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.runInBackground(jobID, "resume after jd approval", func(ctx context.Context) (*workflow.WorkflowState, error) {
		return s.engine.Resume(ctx, jobID, approved)
	})

	writeJSON(w, http.StatusAccepted, workflow.BuildStatus(approved))
}

// regenerateJD rejects the current JD with feedback and re-runs
// generation. Only valid while the job is still at the review gate.
func (s *Server) regenerateJD(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	var body struct {
		Feedback string `json:"feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	var updated *workflow.WorkflowState
	err := s.engine.WithApprovalLock(r.Context(), jobID, func(ctx context.Context) error {
		state, err := s.engine.GetState(ctx, jobID)
		if err != nil {
			return err
		}
		if state == nil {
			return workflow.ErrCheckpointNotFound
		}
		if state.CurrentNode != workflow.StatusPending && state.CurrentNode != workflow.StatusJDReview {
			return &workflow.TransitionError{
				CurrentNode:     state.CurrentNode,
				AttemptedAction: "regenerate_jd",
				AllowedActions:  []string{string(workflow.NodeGenerateJD)},
			}
		}

		state.JD.Feedback = body.Feedback
		state.JD.ApprovalStatus = workflow.ApprovalPending
		state.JD.BypassGeneration = false
		if err := s.engine.SaveState(ctx, jobID, state); err != nil {
			return err
		}
		updated = state
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.runInBackground(jobID, "regenerate jd", func(ctx context.Context) (*workflow.WorkflowState, error) {
		return s.engine.Resume(ctx, jobID, updated)
	})

	writeJSON(w, http.StatusAccepted, workflow.BuildStatus(updated))
}

type applicantInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	ResumeText string `json:"resume_text,omitempty"`
}

// addApplicant records an application against a posted job. Applicants
// accumulate in state between invocations; nothing advances the graph
// here.
func (s *Server) addApplicant(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	var input applicantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if input.Name == "" || input.Email == "" {
		writeBadRequest(w, "name and email are required")
		return
	}

	applicant := workflow.Applicant{
		ID:         uuid.NewString(),
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		ResumeText: input.ResumeText,
		AppliedAt:  time.Now().UTC(),
	}

	err := s.engine.WithApprovalLock(r.Context(), jobID, func(ctx context.Context) error {
		state, err := s.engine.GetState(ctx, jobID)
		if err != nil {
			return err
		}
		if state == nil {
			return workflow.ErrCheckpointNotFound
		}
		if !state.Posting.IsPosted {
			return &workflow.TransitionError{
				CurrentNode:     state.CurrentNode,
				AttemptedAction: "add_applicant",
				AllowedActions:  []string{string(workflow.NodePostJob)},
			}
		}

		state.Applicants.Applicants = append(state.Applicants.Applicants, applicant)
		return s.engine.SaveState(ctx, jobID, state)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, applicant)
}

// addMockApplicants seeds synthetic applicants for demos and testing.
func (s *Server) addMockApplicants(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	var body struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if body.Count <= 0 {
		body.Count = workflow.DefaultMockApplicantCount
	}
	if body.Count > workflow.MaxMockApplicantCount {
		body.Count = workflow.MaxMockApplicantCount
	}

	var total int
	err := s.engine.WithApprovalLock(r.Context(), jobID, func(ctx context.Context) error {
		state, err := s.engine.GetState(ctx, jobID)
		if err != nil {
			return err
		}
		if state == nil {
			return workflow.ErrCheckpointNotFound
		}
		if !state.Posting.IsPosted {
			return &workflow.TransitionError{
				CurrentNode:     state.CurrentNode,
				AttemptedAction: "add_applicant",
				AllowedActions:  []string{string(workflow.NodePostJob)},
			}
		}

		state.Applicants.Applicants = append(state.Applicants.Applicants, mockApplicants(body.Count, state.JD.GeneratedJD)...)
		total = len(state.Applicants.Applicants)
		return s.engine.SaveState(ctx, jobID, state)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"added": body.Count, "total": total})
}

// checkApplications re-enters the graph from the monitoring node so the
// applicant-threshold routing runs against the current applicant pool.
// Synchronous: the recruiter wants the outcome of the check.
func (s *Server) checkApplications(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	state, ok := s.loadState(w, r)
	if !ok {
		return
	}
	if !state.Posting.IsPosted {
		writeError(w, &workflow.TransitionError{
			CurrentNode:     state.CurrentNode,
			AttemptedAction: "check_applications",
			AllowedActions:  []string{"approve_jd"},
		})
		return
	}

	result, err := s.engine.Resume(r.Context(), jobID, state)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workflow.BuildStatus(result))
}

// approveShortlist records the recruiter's verdict on the auto-built
// shortlist. Approval resumes the graph into voice prescreening;
// rejection parks the job at the gate.
func (s *Server) approveShortlist(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	var body struct {
		Approved bool `json:"approved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	var updated *workflow.WorkflowState
	err := s.engine.WithApprovalLock(r.Context(), jobID, func(ctx context.Context) error {
		state, err := s.engine.GetState(ctx, jobID)
		if err != nil {
			return err
		}
		if state == nil {
			return workflow.ErrCheckpointNotFound
		}
		if len(state.Applicants.ShortlistedIDs) == 0 {
			return &workflow.TransitionError{
				CurrentNode:     state.CurrentNode,
				AttemptedAction: "approve_shortlist",
				AllowedActions:  []string{string(workflow.NodeShortlistCandidates)},
			}
		}

		if body.Approved {
			state.Applicants.ShortlistApproval = workflow.ApprovalApproved
		} else {
			state.Applicants.ShortlistApproval = workflow.ApprovalRejected
		}
		if err := s.engine.SaveState(ctx, jobID, state); err != nil {
			return err
		}
		updated = state
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if body.Approved {
		s.runInBackground(jobID, "resume after shortlist approval", func(ctx context.Context) (*workflow.WorkflowState, error) {
			return s.engine.Resume(ctx, jobID, updated)
		})
	}
	writeJSON(w, http.StatusAccepted, workflow.BuildStatus(updated))
}

// recordDecision captures the post-prescreening recruiter decision and
// resumes the graph, which routes into scheduling or rejection.
func (s *Server) recordDecision(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	var body struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if body.Action != workflow.DecisionSchedule && body.Action != workflow.DecisionReject {
		writeBadRequest(w, `action must be "schedule" or "reject"`)
		return
	}

	var updated *workflow.WorkflowState
	err := s.engine.WithApprovalLock(r.Context(), jobID, func(ctx context.Context) error {
		state, err := s.engine.GetState(ctx, jobID)
		if err != nil {
			return err
		}
		if state == nil {
			return workflow.ErrCheckpointNotFound
		}
		if !state.Prescreening.IsComplete {
			return &workflow.TransitionError{
				CurrentNode:     state.CurrentNode,
				AttemptedAction: "record_decision",
				AllowedActions:  []string{string(workflow.NodeVoicePrescreening)},
			}
		}

		state.Interviews.Decision = body.Action
		if err := s.engine.SaveState(ctx, jobID, state); err != nil {
			return err
		}
		updated = state
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.runInBackground(jobID, "resume after decision", func(ctx context.Context) (*workflow.WorkflowState, error) {
		return s.engine.Resume(ctx, jobID, updated)
	})

	writeJSON(w, http.StatusAccepted, workflow.BuildStatus(updated))
}

type careersResponse struct {
	JobID          string                `json:"job_id"`
	PostingURL     string                `json:"posting_url"`
	PostedAt       *time.Time            `json:"posted_at,omitempty"`
	JobDescription *workflow.GeneratedJD `json:"job_description"`
}

// careersPage is the public read path: the approved JD becomes visible
// here once post_job has run. Unposted jobs are indistinguishable from
// missing ones.
func (s *Server) careersPage(w http.ResponseWriter, r *http.Request) {
	state, ok := s.loadState(w, r)
	if !ok {
		return
	}
	if !state.Posting.IsPosted || state.JD.GeneratedJD == nil {
		writeNotFound(w, "job posting not found")
		return
	}
	writeJSON(w, http.StatusOK, careersResponse{
		JobID:          state.JobID,
		PostingURL:     state.Posting.PostingURL,
		PostedAt:       state.Posting.PostedAt,
		JobDescription: state.JD.GeneratedJD,
	})
}

// loadState fetches the job state for the request, writing a 404 when
// the job does not exist.
func (s *Server) loadState(w http.ResponseWriter, r *http.Request) (*workflow.WorkflowState, bool) {
	jobID := chi.URLParam(r, "jobID")
	state, err := s.engine.GetState(r.Context(), jobID)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	if state == nil {
		writeNotFound(w, "job not found")
		return nil, false
	}
	return state, true
}
