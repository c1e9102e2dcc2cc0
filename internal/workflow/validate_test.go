package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop/internal/workflow"
)

func requireTransitionError(t *testing.T, err error) *workflow.TransitionError {
	t.Helper()
	var transErr *workflow.TransitionError
	require.ErrorAs(t, err, &transErr)
	return transErr
}

func TestValidateForNode(t *testing.T) {
	cfg := workflow.DefaultConfig()

	t.Run("posting requires a generated and approved jd", func(t *testing.T) {
		state := workflow.NewState(testInput(), cfg)

		transErr := requireTransitionError(t, workflow.ValidateForNode(state, workflow.NodePostJob))
		assert.Contains(t, transErr.AllowedActions, string(workflow.NodeGenerateJD))

		state.JD.GeneratedJD = &workflow.GeneratedJD{JobTitle: "t", Description: "d"}
		transErr = requireTransitionError(t, workflow.ValidateForNode(state, workflow.NodePostJob))
		assert.Contains(t, transErr.AllowedActions, "approve_jd")

		state.JD.ApprovalStatus = workflow.ApprovalApproved
		assert.NoError(t, workflow.ValidateForNode(state, workflow.NodePostJob))
	})

	t.Run("shortlisting requires a posted job with applicants", func(t *testing.T) {
		state := workflow.NewState(testInput(), cfg)

		transErr := requireTransitionError(t, workflow.ValidateForNode(state, workflow.NodeShortlistCandidates))
		assert.Contains(t, transErr.AllowedActions, string(workflow.NodePostJob))

		state.Posting.IsPosted = true
		transErr = requireTransitionError(t, workflow.ValidateForNode(state, workflow.NodeShortlistCandidates))
		assert.Contains(t, transErr.AllowedActions, string(workflow.NodeMonitorApplications))

		state.Applicants.Applicants = []workflow.Applicant{testApplicant("ada")}
		assert.NoError(t, workflow.ValidateForNode(state, workflow.NodeShortlistCandidates))
	})

	t.Run("prescreening requires an approved shortlist", func(t *testing.T) {
		state := workflow.NewState(testInput(), cfg)

		transErr := requireTransitionError(t, workflow.ValidateForNode(state, workflow.NodeVoicePrescreening))
		assert.Contains(t, transErr.AllowedActions, string(workflow.NodeShortlistCandidates))

		state.Applicants.ShortlistedIDs = []string{"id-ada"}
		transErr = requireTransitionError(t, workflow.ValidateForNode(state, workflow.NodeVoicePrescreening))
		assert.Contains(t, transErr.AllowedActions, "approve_shortlist")

		state.Applicants.ShortlistApproval = workflow.ApprovalApproved
		assert.NoError(t, workflow.ValidateForNode(state, workflow.NodeVoicePrescreening))
	})

	t.Run("scheduling requires completed prescreening and a decision", func(t *testing.T) {
		state := workflow.NewState(testInput(), cfg)

		transErr := requireTransitionError(t, workflow.ValidateForNode(state, workflow.NodeScheduleInterview))
		assert.Contains(t, transErr.AllowedActions, string(workflow.NodeVoicePrescreening))

		state.Prescreening.IsComplete = true
		transErr = requireTransitionError(t, workflow.ValidateForNode(state, workflow.NodeScheduleInterview))
		assert.Contains(t, transErr.AllowedActions, "record_decision")

		state.Interviews.Decision = workflow.DecisionSchedule
		assert.NoError(t, workflow.ValidateForNode(state, workflow.NodeScheduleInterview))
	})

	t.Run("ungated nodes always pass", func(t *testing.T) {
		state := workflow.NewState(testInput(), cfg)
		for _, node := range []workflow.NodeName{
			workflow.NodeGenerateJD,
			workflow.NodeMonitorApplications,
			workflow.NodeReviewResponses,
			workflow.NodeRejectCandidate,
			workflow.NodeOptimizeJD,
		} {
			assert.NoError(t, workflow.ValidateForNode(state, node))
		}
	})
}
