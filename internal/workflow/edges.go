package workflow

// RouteFunc decides the next node from the current state. Routing
// functions are pure: they read state and configuration, never mutate,
// and never perform I/O. Returning WaitForHuman halts execution cleanly.
type RouteFunc func(s *WorkflowState) NodeName

// CheckJDApproval gates post_job on human JD sign-off. Rejected and
// pending both wait: a rejection requires an explicit regenerate action
// that re-enters generate_jd, there is no automatic retry path.
func CheckJDApproval(s *WorkflowState) NodeName {
	if s.JD.ApprovalStatus == ApprovalApproved {
		return NodePostJob
	}
	return WaitForHuman
}

// ShouldRegenerateJD is the applicant-threshold check after monitoring.
// With too few applicants and attempts remaining it loops through
// optimize_jd; otherwise it proceeds to shortlisting. It deliberately
// never returns WaitForHuman: pausing during applicant collection would
// stall the pipeline indefinitely, so the route always auto-resolves.
func ShouldRegenerateJD(s *WorkflowState, cfg Config) NodeName {
	count := len(s.Applicants.Applicants)
	threshold := s.Applicants.MinThreshold
	if threshold <= 0 {
		threshold = cfg.MinApplicantThreshold
	}

	if count < threshold && s.JD.GenerationAttempts < cfg.MaxGenerationAttempts {
		return NodeOptimizeJD
	}
	return NodeShortlistCandidates
}

// CheckShortlistApproval gates voice prescreening on human shortlist
// sign-off.
func CheckShortlistApproval(s *WorkflowState) NodeName {
	if s.Applicants.ShortlistApproval == ApprovalApproved {
		return NodeVoicePrescreening
	}
	return WaitForHuman
}

// RecruiterDecision routes after response review. An absent decision
// waits: a resume that passes through review_responses before the
// recruiter has acted must not default to rejection.
func RecruiterDecision(s *WorkflowState) NodeName {
	switch s.Interviews.Decision {
	case DecisionSchedule:
		return NodeScheduleInterview
	case DecisionReject:
		return NodeRejectCandidate
	}
	return WaitForHuman
}
