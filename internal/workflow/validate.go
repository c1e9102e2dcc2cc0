package workflow

// ValidateForNode checks that state carries the upstream data the
// target node depends on, returning a *TransitionError when it does
// not. Nodes without a validator execute unconditionally.
func ValidateForNode(s *WorkflowState, target NodeName) error {
	switch target {
	case NodePostJob:
		return validateForPosting(s)
	case NodeShortlistCandidates:
		return validateForShortlisting(s)
	case NodeVoicePrescreening:
		return validateForPrescreening(s)
	case NodeScheduleInterview:
		return validateForScheduling(s)
	}
	return nil
}

func validateForPosting(s *WorkflowState) error {
	if s.JD.GeneratedJD == nil {
		return &TransitionError{
			CurrentNode:     s.CurrentNode,
			AttemptedAction: string(NodePostJob),
			AllowedActions:  []string{string(NodeGenerateJD)},
		}
	}
	if s.JD.ApprovalStatus != ApprovalApproved {
		return &TransitionError{
			CurrentNode:     s.CurrentNode,
			AttemptedAction: string(NodePostJob),
			AllowedActions:  []string{"approve_jd"},
		}
	}
	return nil
}

func validateForShortlisting(s *WorkflowState) error {
	if !s.Posting.IsPosted {
		return &TransitionError{
			CurrentNode:     s.CurrentNode,
			AttemptedAction: string(NodeShortlistCandidates),
			AllowedActions:  []string{string(NodePostJob)},
		}
	}
	if len(s.Applicants.Applicants) == 0 {
		return &TransitionError{
			CurrentNode:     s.CurrentNode,
			AttemptedAction: string(NodeShortlistCandidates),
			AllowedActions:  []string{string(NodeMonitorApplications)},
		}
	}
	return nil
}

func validateForPrescreening(s *WorkflowState) error {
	if len(s.Applicants.ShortlistedIDs) == 0 {
		return &TransitionError{
			CurrentNode:     s.CurrentNode,
			AttemptedAction: string(NodeVoicePrescreening),
			AllowedActions:  []string{string(NodeShortlistCandidates)},
		}
	}
	if s.Applicants.ShortlistApproval != ApprovalApproved {
		return &TransitionError{
			CurrentNode:     s.CurrentNode,
			AttemptedAction: string(NodeVoicePrescreening),
			AllowedActions:  []string{"approve_shortlist"},
		}
	}
	return nil
}

func validateForScheduling(s *WorkflowState) error {
	if !s.Prescreening.IsComplete {
		return &TransitionError{
			CurrentNode:     s.CurrentNode,
			AttemptedAction: string(NodeScheduleInterview),
			AllowedActions:  []string{string(NodeVoicePrescreening)},
		}
	}
	if s.Interviews.Decision != DecisionSchedule {
		return &TransitionError{
			CurrentNode:     s.CurrentNode,
			AttemptedAction: string(NodeScheduleInterview),
			AllowedActions:  []string{"record_decision"},
		}
	}
	return nil
}
