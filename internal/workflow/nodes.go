package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NodeFunc executes one pipeline step, mutating state in place. All
// persisted data lives in the state; nodes hold no execution state of
// their own.
type NodeFunc func(ctx context.Context, s *WorkflowState) error

// Nodes holds the step functions' shared dependencies.
type Nodes struct {
	collab Collaborators
	cfg    Config
}

// NewNodes wires the step functions to their collaborators.
func NewNodes(collab Collaborators, cfg Config) *Nodes {
	return &Nodes{collab: collab, cfg: cfg}
}

// GenerateJD generates the job description. On graph re-entry after an
// approval the bypass flag short-circuits the node so the JD is not
// regenerated on every pass.
func (n *Nodes) GenerateJD(ctx context.Context, s *WorkflowState) error {
	if s.JD.BypassGeneration {
		s.JD.BypassGeneration = false
		return nil
	}

	if s.JD.Input == nil {
		return jdGenerationError(errors.New("missing job input"))
	}

	s.SetNode(NodeGenerateJD)
	s.JD.ApprovalStatus = ApprovalPending
	s.JD.GenerationAttempts++

	// Recruiter feedback turns the pass into a targeted rewrite of the
	// existing JD instead of a fresh generation.
	var jd *GeneratedJD
	var err error
	if s.JD.Feedback != "" && s.JD.GeneratedJD != nil {
		jd, err = n.collab.Generator.Regenerate(ctx, *s.JD.GeneratedJD, s.JD.Feedback)
	} else {
		jd, err = n.collab.Generator.Generate(ctx, *s.JD.Input)
	}
	if err != nil {
		return jdGenerationError(err)
	}
	s.JD.GeneratedJD = jd
	s.JD.Feedback = ""

	n.initPrescreeningQuestions(s)

	// Hold in a pre-approval review status until the recruiter signs off.
	s.CurrentNode = StatusJDReview
	s.Touch()
	return nil
}

// initPrescreeningQuestions derives question templates from the job
// input unless questions are already present.
func (n *Nodes) initPrescreeningQuestions(s *WorkflowState) {
	if len(s.Prescreening.Questions) > 0 || s.JD.Input == nil {
		return
	}
	for _, q := range s.JD.Input.PrescreeningQuestions {
		s.Prescreening.Questions = append(s.Prescreening.Questions, PrescreeningQuestion{
			ID:           uuid.NewString(),
			QuestionText: q,
			MaxScore:     100,
		})
	}
}

// OptimizeJD rewrites an existing JD when applicant volume is low, then
// loops back to posting. Refreshing PostedAt signals a new version to
// the public careers page.
func (n *Nodes) OptimizeJD(ctx context.Context, s *WorkflowState) error {
	if s.JD.GeneratedJD == nil {
		return jdGenerationError(errors.New("cannot optimize: no existing job description"))
	}

	s.SetNode(NodeOptimizeJD)
	s.JD.GenerationAttempts++

	optimized, err := n.collab.Generator.Optimize(ctx, *s.JD.GeneratedJD)
	if err != nil {
		return jdGenerationError(fmt.Errorf("optimization failed: %w", err))
	}
	s.JD.GeneratedJD = optimized

	now := time.Now().UTC()
	s.Posting.PostedAt = &now
	s.JD.BypassGeneration = false
	return nil
}

// PostJob marks the job as published. Publication is passive: the
// approved JD becomes visible through the public careers read path, so
// no outbound call happens here.
func (n *Nodes) PostJob(ctx context.Context, s *WorkflowState) error {
	s.SetNode(NodePostJob)

	now := time.Now().UTC()
	s.Posting.IsPosted = true
	s.Posting.PostedAt = &now
	s.Posting.PostingURL = "/careers/" + s.JobID
	return nil
}

// MonitorApplications marks intake as active. Applicants arrive through
// a separate API write path and accumulate in state between
// invocations; this node only stamps the monitoring window.
func (n *Nodes) MonitorApplications(ctx context.Context, s *WorkflowState) error {
	s.SetNode(NodeMonitorApplications)

	if s.Applicants.MonitoringStart == nil {
		now := time.Now().UTC()
		s.Applicants.MonitoringStart = &now
	}
	s.Applicants.MonitoringComplete = true
	return nil
}

// ShortlistCandidates ranks applicants by semantic similarity to the JD
// and auto-shortlists everyone at or above the configured threshold.
func (n *Nodes) ShortlistCandidates(ctx context.Context, s *WorkflowState) error {
	s.SetNode(NodeShortlistCandidates)

	if len(s.Applicants.Applicants) == 0 {
		return nil
	}
	if s.JD.GeneratedJD == nil {
		return shortlistingError(errors.New("no job description available for shortlisting"))
	}

	ranked, err := n.collab.Ranker.Rank(ctx, *s.JD.GeneratedJD, s.Applicants.Applicants)
	if err != nil {
		return shortlistingError(err)
	}

	s.Applicants.Applicants = ranked
	s.Applicants.ShortlistedIDs = filterByThreshold(ranked, n.cfg.SimilarityThreshold)
	for i := range s.Applicants.Applicants {
		a := &s.Applicants.Applicants[i]
		a.Shortlisted = a.SimilarityScore != nil && *a.SimilarityScore >= n.cfg.SimilarityThreshold
	}
	return nil
}

func filterByThreshold(ranked []Applicant, threshold float64) []string {
	ids := []string{}
	for _, a := range ranked {
		if a.SimilarityScore != nil && *a.SimilarityScore >= threshold {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// VoicePrescreening conducts AI voice calls with the shortlisted
// applicants and merges the responses into state. The node is
// idempotent on empty input: with no shortlist or no questions it still
// completes.
func (n *Nodes) VoicePrescreening(ctx context.Context, s *WorkflowState) error {
	s.SetNode(NodeVoicePrescreening)

	if len(s.Applicants.ShortlistedIDs) > 0 && len(s.Prescreening.Questions) > 0 {
		shortlisted := s.ShortlistedApplicants()
		responses, err := n.collab.Prescreener.Conduct(ctx, shortlisted, s.Prescreening.Questions)
		if err != nil {
			return prescreeningError(err)
		}
		if s.Prescreening.Responses == nil {
			s.Prescreening.Responses = map[string][]CandidateResponse{}
		}
		for candidateID, rs := range responses {
			s.Prescreening.Responses[candidateID] = rs
		}
	}

	s.Prescreening.IsComplete = true
	return nil
}

// ReviewResponses is a pure state-transition node: it gives the
// recruiter a named, addressable point to inspect prescreening results
// before the decision routing.
func (n *Nodes) ReviewResponses(ctx context.Context, s *WorkflowState) error {
	s.SetNode(NodeReviewResponses)
	return nil
}

// ScheduleInterview books slots for the shortlisted applicants.
// Terminal.
func (n *Nodes) ScheduleInterview(ctx context.Context, s *WorkflowState) error {
	s.SetNode(NodeScheduleInterview)

	approved := s.ShortlistedApplicants()
	if len(approved) == 0 {
		return nil
	}

	slots, err := n.collab.Scheduler.Schedule(ctx, s.JobID, approved)
	if err != nil {
		return schedulingError(err)
	}
	s.Interviews.Scheduled = slots
	return nil
}

// RejectCandidate records the rejection outcome. Terminal.
func (n *Nodes) RejectCandidate(ctx context.Context, s *WorkflowState) error {
	s.SetNode(NodeRejectCandidate)
	return nil
}
