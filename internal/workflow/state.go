package workflow

import (
	"time"

	"github.com/google/uuid"
)

// JobDescriptionState tracks JD generation and its approval gate.
type JobDescriptionState struct {
	Input              *JobInput      `json:"input,omitempty"`
	GeneratedJD        *GeneratedJD   `json:"generated_jd,omitempty"`
	GenerationAttempts int            `json:"generation_attempts"`
	ApprovalStatus     ApprovalStatus `json:"approval_status"`
	Feedback           string         `json:"feedback,omitempty"`

	// BypassGeneration tells the generate_jd node to skip regeneration
	// when the graph re-enters after an approval.
	BypassGeneration bool `json:"bypass_generation"`
}

// PostingState tracks the passive publication of the job.
type PostingState struct {
	IsPosted   bool       `json:"is_posted"`
	PostingURL string     `json:"posting_url,omitempty"`
	PostedAt   *time.Time `json:"posted_at,omitempty"`
}

// ApplicantState tracks collected applicants and the shortlist gate.
type ApplicantState struct {
	Applicants         []Applicant    `json:"applicants"`
	MinThreshold       int            `json:"min_threshold"`
	MonitoringStart    *time.Time     `json:"monitoring_start,omitempty"`
	MonitoringComplete bool           `json:"monitoring_complete"`
	ShortlistedIDs     []string       `json:"shortlisted_ids"`
	ShortlistApproval  ApprovalStatus `json:"shortlist_approval"`
}

// PrescreeningState tracks voice prescreening questions and responses.
type PrescreeningState struct {
	Questions  []PrescreeningQuestion         `json:"questions"`
	Responses  map[string][]CandidateResponse `json:"responses"`
	IsComplete bool                           `json:"is_complete"`
}

// InterviewState tracks the recruiter decision and scheduled slots.
// Decision is empty until the recruiter acts; the review gate waits on
// it.
type InterviewState struct {
	Decision  string          `json:"decision,omitempty"`
	Scheduled []InterviewSlot `json:"scheduled"`
}

// WorkflowState is the full durable snapshot of one recruitment job.
// It is pure data: all behavior lives in nodes, edges and the engine.
// The five sub-states are always persisted together as one atomic
// checkpoint keyed by JobID.
type WorkflowState struct {
	JobID        string `json:"job_id"`
	CurrentNode  string `json:"current_node"`
	ErrorMessage string `json:"error_message,omitempty"`

	JD           JobDescriptionState `json:"jd"`
	Posting      PostingState        `json:"posting"`
	Applicants   ApplicantState      `json:"applicants"`
	Prescreening PrescreeningState   `json:"prescreening"`
	Interviews   InterviewState      `json:"interviews"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch refreshes the mutation timestamp.
func (s *WorkflowState) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// SetNode positions the state on a node and refreshes the timestamp.
func (s *WorkflowState) SetNode(node NodeName) {
	s.CurrentNode = string(node)
	s.Touch()
}

// ShortlistedApplicants returns the applicants whose ids are in the
// shortlist, preserving stored order.
func (s *WorkflowState) ShortlistedApplicants() []Applicant {
	ids := make(map[string]struct{}, len(s.Applicants.ShortlistedIDs))
	for _, id := range s.Applicants.ShortlistedIDs {
		ids[id] = struct{}{}
	}
	var out []Applicant
	for _, a := range s.Applicants.Applicants {
		if _, ok := ids[a.ID]; ok {
			out = append(out, a)
		}
	}
	return out
}

// NewState creates the initial state for a job. The state starts at the
// "pending" pre-graph status with all approvals pending, empty
// collections and both timestamps set to now.
func NewState(input JobInput, cfg Config) *WorkflowState {
	now := time.Now().UTC()

	threshold := input.MinApplicantThreshold
	if threshold <= 0 {
		threshold = cfg.MinApplicantThreshold
	}

	in := input
	return &WorkflowState{
		JobID:       uuid.NewString(),
		CurrentNode: StatusPending,
		JD: JobDescriptionState{
			Input:          &in,
			ApprovalStatus: ApprovalPending,
		},
		Posting: PostingState{},
		Applicants: ApplicantState{
			Applicants:        []Applicant{},
			MinThreshold:      threshold,
			ShortlistedIDs:    []string{},
			ShortlistApproval: ApprovalPending,
		},
		Prescreening: PrescreeningState{
			Questions: []PrescreeningQuestion{},
			Responses: map[string][]CandidateResponse{},
		},
		Interviews: InterviewState{
			Scheduled: []InterviewSlot{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
