package workflow

import "time"

// Status is the read-only projection of a job's progress, derived
// purely from state for API consumption. A job paused at an approval
// gate reports its node and pending status here, not an error.
type Status struct {
	JobID                   string         `json:"job_id"`
	CurrentNode             string         `json:"current_node"`
	JDApprovalStatus        ApprovalStatus `json:"jd_approval_status"`
	ShortlistApprovalStatus ApprovalStatus `json:"shortlist_approval_status"`
	HasGeneratedJD          bool           `json:"has_generated_jd"`
	ApplicantCount          int            `json:"applicant_count"`
	ShortlistedCount        int            `json:"shortlisted_count"`
	PrescreeningComplete    bool           `json:"prescreening_complete"`
	ScheduledInterviews     int            `json:"scheduled_interviews_count"`
	ErrorMessage            string         `json:"error_message,omitempty"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
}

// BuildStatus summarizes a workflow state.
func BuildStatus(s *WorkflowState) Status {
	return Status{
		JobID:                   s.JobID,
		CurrentNode:             s.CurrentNode,
		JDApprovalStatus:        s.JD.ApprovalStatus,
		ShortlistApprovalStatus: s.Applicants.ShortlistApproval,
		HasGeneratedJD:          s.JD.GeneratedJD != nil,
		ApplicantCount:          len(s.Applicants.Applicants),
		ShortlistedCount:        len(s.Applicants.ShortlistedIDs),
		PrescreeningComplete:    s.Prescreening.IsComplete,
		ScheduledInterviews:     len(s.Interviews.Scheduled),
		ErrorMessage:            s.ErrorMessage,
		CreatedAt:               s.CreatedAt,
		UpdatedAt:               s.UpdatedAt,
	}
}
