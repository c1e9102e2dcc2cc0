package workflow_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop/internal/workflow"
)

func TestNewState_Defaults(t *testing.T) {
	cfg := workflow.DefaultConfig()
	state := workflow.NewState(testInput(), cfg)

	assert.NotEmpty(t, state.JobID)
	assert.Equal(t, workflow.StatusPending, state.CurrentNode)
	assert.Equal(t, workflow.ApprovalPending, state.JD.ApprovalStatus)
	assert.Equal(t, workflow.ApprovalPending, state.Applicants.ShortlistApproval)
	assert.Equal(t, cfg.MinApplicantThreshold, state.Applicants.MinThreshold)
	assert.Zero(t, state.JD.GenerationAttempts)
	assert.False(t, state.Posting.IsPosted)
	assert.NotNil(t, state.Applicants.Applicants)
	assert.NotNil(t, state.Prescreening.Responses)
	assert.Equal(t, state.CreatedAt, state.UpdatedAt)
}

func TestNewState_ThresholdFromInput(t *testing.T) {
	input := testInput()
	input.MinApplicantThreshold = 12

	state := workflow.NewState(input, workflow.DefaultConfig())
	assert.Equal(t, 12, state.Applicants.MinThreshold)
}

func TestWorkflowState_JSONRoundTrip(t *testing.T) {
	state := workflow.NewState(testInput(), workflow.DefaultConfig())
	state.SetNode(workflow.NodeShortlistCandidates)
	state.JD.GeneratedJD = &workflow.GeneratedJD{JobTitle: "Engineer", Description: "desc"}
	state.Applicants.Applicants = []workflow.Applicant{testApplicant("ada")}
	state.Applicants.ShortlistedIDs = []string{"id-ada"}
	state.Interviews.Decision = workflow.DecisionSchedule

	raw, err := json.Marshal(state)
	require.NoError(t, err)

	var restored workflow.WorkflowState
	require.NoError(t, json.Unmarshal(raw, &restored))

	assert.Equal(t, state.JobID, restored.JobID)
	assert.Equal(t, string(workflow.NodeShortlistCandidates), restored.CurrentNode)
	assert.Equal(t, "Engineer", restored.JD.GeneratedJD.JobTitle)
	assert.Equal(t, []string{"id-ada"}, restored.Applicants.ShortlistedIDs)
	assert.Equal(t, workflow.DecisionSchedule, restored.Interviews.Decision)
	assert.Len(t, restored.Applicants.Applicants, 1)
}

func TestShortlistedApplicants_PreservesOrder(t *testing.T) {
	state := workflow.NewState(testInput(), workflow.DefaultConfig())
	state.Applicants.Applicants = []workflow.Applicant{
		testApplicant("ada"), testApplicant("bob"), testApplicant("cleo"),
	}
	state.Applicants.ShortlistedIDs = []string{"id-cleo", "id-ada"}

	shortlisted := state.ShortlistedApplicants()
	require.Len(t, shortlisted, 2)
	// Stored applicant order wins, not shortlist id order.
	assert.Equal(t, "ada", shortlisted[0].Name)
	assert.Equal(t, "cleo", shortlisted[1].Name)
}
