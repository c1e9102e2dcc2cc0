package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop/internal/adapters/memory"
	"github.com/hireloop/hireloop/internal/api"
	"github.com/hireloop/hireloop/internal/workflow"
)

type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, input workflow.JobInput) (*workflow.GeneratedJD, error) {
	return &workflow.GeneratedJD{
		JobTitle:     input.RoleTitle,
		Summary:      "summary",
		Description:  "description",
		Requirements: input.KeyRequirements,
	}, nil
}

func (stubGenerator) Optimize(ctx context.Context, jd workflow.GeneratedJD) (*workflow.GeneratedJD, error) {
	out := jd
	out.Summary = "optimized"
	return &out, nil
}

func (stubGenerator) Regenerate(ctx context.Context, jd workflow.GeneratedJD, feedback string) (*workflow.GeneratedJD, error) {
	out := jd
	out.Description = "regenerated: " + feedback
	return &out, nil
}

type stubRanker struct{ scores map[string]float64 }

func (r stubRanker) Rank(ctx context.Context, jd workflow.GeneratedJD, applicants []workflow.Applicant) ([]workflow.Applicant, error) {
	ranked := make([]workflow.Applicant, len(applicants))
	copy(ranked, applicants)
	for i := range ranked {
		score := r.scores[ranked[i].Name]
		s := score
		ranked[i].SimilarityScore = &s
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].SimilarityScore > *ranked[j].SimilarityScore
	})
	return ranked, nil
}

type stubPrescreener struct{}

func (stubPrescreener) Conduct(ctx context.Context, applicants []workflow.Applicant, questions []workflow.PrescreeningQuestion) (map[string][]workflow.CandidateResponse, error) {
	out := map[string][]workflow.CandidateResponse{}
	for _, a := range applicants {
		out[a.ID] = []workflow.CandidateResponse{{ID: "r-" + a.ID, CandidateID: a.ID, Score: 80}}
	}
	return out, nil
}

type stubScheduler struct{}

func (stubScheduler) Schedule(ctx context.Context, jobID string, applicants []workflow.Applicant) ([]workflow.InterviewSlot, error) {
	slots := make([]workflow.InterviewSlot, len(applicants))
	for i, a := range applicants {
		slots[i] = workflow.InterviewSlot{ID: fmt.Sprintf("s%d", i), CandidateID: a.ID, JobID: jobID}
	}
	return slots, nil
}

type testServer struct {
	*httptest.Server
	engine *workflow.Engine
	cfg    workflow.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := workflow.DefaultConfig()

	collab := workflow.Collaborators{
		Generator:   stubGenerator{},
		Ranker:      stubRanker{scores: map[string]float64{"ada": 0.9, "bob": 0.3}},
		Prescreener: stubPrescreener{},
		Scheduler:   stubScheduler{},
	}
	graph := workflow.NewGraph(workflow.NewNodes(collab, cfg), cfg)
	engine := workflow.NewEngine(graph, memory.NewStore(), cfg, workflow.WithLocker(memory.NewLocker()))

	server := api.NewServer(engine, cfg)
	ts := httptest.NewServer(server.Handler(nil))
	t.Cleanup(ts.Close)

	return &testServer{Server: ts, engine: engine, cfg: cfg}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// seedJob persists a state directly, bypassing the background run, so
// tests can start at any pipeline position.
func (ts *testServer) seedJob(t *testing.T, mutate func(*workflow.WorkflowState)) string {
	t.Helper()
	state := workflow.NewState(workflow.JobInput{
		RoleTitle:   "Senior Go Engineer",
		CompanyName: "Acme",
	}, ts.cfg)
	if mutate != nil {
		mutate(state)
	}
	require.NoError(t, ts.engine.SaveState(context.Background(), state.JobID, state))
	return state.JobID
}

func postedJD() *workflow.GeneratedJD {
	return &workflow.GeneratedJD{JobTitle: "Senior Go Engineer", Summary: "s", Description: "d"}
}

func TestCreateJob(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"role_title":   "Senior Go Engineer",
		"company_name": "Acme",
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	status := decode[workflow.Status](t, resp)
	require.NotEmpty(t, status.JobID)

	// The background run generates the JD and pauses at the review gate.
	require.Eventually(t, func() bool {
		s, err := ts.engine.GetState(context.Background(), status.JobID)
		return err == nil && s != nil && s.CurrentNode == workflow.StatusJDReview
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCreateJob_Validation(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/api/jobs", map[string]any{"role_title": "X"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestListJobs(t *testing.T) {
	ts := newTestServer(t)
	ts.seedJob(t, nil)
	ts.seedJob(t, nil)

	resp := ts.do(t, http.MethodGet, "/api/jobs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	statuses := decode[[]workflow.Status](t, resp)
	assert.Len(t, statuses, 2)
}

func TestGetStatus_NotFound(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/api/jobs/missing/status", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestGetJD(t *testing.T) {
	ts := newTestServer(t)

	t.Run("not generated yet", func(t *testing.T) {
		jobID := ts.seedJob(t, nil)
		resp := ts.do(t, http.MethodGet, "/api/jobs/"+jobID+"/jd", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("generated", func(t *testing.T) {
		jobID := ts.seedJob(t, func(s *workflow.WorkflowState) {
			s.CurrentNode = workflow.StatusJDReview
			s.JD.GeneratedJD = postedJD()
			s.JD.GenerationAttempts = 1
		})
		resp := ts.do(t, http.MethodGet, "/api/jobs/"+jobID+"/jd", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decode[map[string]json.RawMessage](t, resp)
		assert.Contains(t, body, "job_description")
		assert.JSONEq(t, `"pending"`, string(body["approval_status"]))
	})
}

func TestUpdateJD_ResetsApproval(t *testing.T) {
	ts := newTestServer(t)
	jobID := ts.seedJob(t, func(s *workflow.WorkflowState) {
		s.CurrentNode = workflow.StatusJDReview
		s.JD.GeneratedJD = postedJD()
		s.JD.ApprovalStatus = workflow.ApprovalApproved
	})

	resp := ts.do(t, http.MethodPut, "/api/jobs/"+jobID+"/jd", map[string]any{
		"job_title":   "Staff Go Engineer",
		"description": "edited",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	state, err := ts.engine.GetState(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, "Staff Go Engineer", state.JD.GeneratedJD.JobTitle)
	assert.Equal(t, workflow.ApprovalPending, state.JD.ApprovalStatus)
}

func TestApproveJD(t *testing.T) {
	ts := newTestServer(t)

	t.Run("without a jd is a conflict", func(t *testing.T) {
		jobID := ts.seedJob(t, nil)
		resp := ts.do(t, http.MethodPost, "/api/jobs/"+jobID+"/jd/approve", nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("approval resumes the pipeline", func(t *testing.T) {
		jobID := ts.seedJob(t, func(s *workflow.WorkflowState) {
			s.CurrentNode = workflow.StatusJDReview
			s.JD.GeneratedJD = postedJD()
			s.JD.GenerationAttempts = ts.cfg.MaxGenerationAttempts
		})

		resp := ts.do(t, http.MethodPost, "/api/jobs/"+jobID+"/jd/approve", nil)
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		status := decode[workflow.Status](t, resp)
		assert.Equal(t, workflow.ApprovalApproved, status.JDApprovalStatus)

		// Background resume posts the job and reaches the (empty)
		// shortlist gate since attempts are already exhausted.
		require.Eventually(t, func() bool {
			s, err := ts.engine.GetState(context.Background(), jobID)
			return err == nil && s != nil && s.CurrentNode == string(workflow.NodeShortlistCandidates)
		}, 2*time.Second, 10*time.Millisecond)

		state, err := ts.engine.GetState(context.Background(), jobID)
		require.NoError(t, err)
		assert.True(t, state.Posting.IsPosted)
	})
}

func TestRegenerateJD(t *testing.T) {
	ts := newTestServer(t)

	t.Run("past the review gate is a conflict", func(t *testing.T) {
		jobID := ts.seedJob(t, func(s *workflow.WorkflowState) {
			s.SetNode(workflow.NodeMonitorApplications)
		})
		resp := ts.do(t, http.MethodPost, "/api/jobs/"+jobID+"/jd/regenerate", map[string]any{"feedback": "x"})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("at review regenerates with feedback", func(t *testing.T) {
		jobID := ts.seedJob(t, func(s *workflow.WorkflowState) {
			s.CurrentNode = workflow.StatusJDReview
			s.JD.GeneratedJD = postedJD()
		})

		resp := ts.do(t, http.MethodPost, "/api/jobs/"+jobID+"/jd/regenerate", map[string]any{
			"feedback": "add salary range",
		})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		resp.Body.Close()

		require.Eventually(t, func() bool {
			s, err := ts.engine.GetState(context.Background(), jobID)
			return err == nil && s != nil &&
				s.JD.GeneratedJD.Description == "regenerated: add salary range"
		}, 2*time.Second, 10*time.Millisecond)
	})
}

func TestAddApplicant(t *testing.T) {
	ts := newTestServer(t)

	t.Run("before posting is a conflict", func(t *testing.T) {
		jobID := ts.seedJob(t, nil)
		resp := ts.do(t, http.MethodPost, "/api/jobs/"+jobID+"/applicants", map[string]any{
			"name": "ada", "email": "ada@example.com",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("after posting is recorded", func(t *testing.T) {
		jobID := ts.seedJob(t, func(s *workflow.WorkflowState) {
			s.SetNode(workflow.NodeMonitorApplications)
			s.JD.GeneratedJD = postedJD()
			s.Posting.IsPosted = true
		})

		resp := ts.do(t, http.MethodPost, "/api/jobs/"+jobID+"/applicants", map[string]any{
			"name": "ada", "email": "ada@example.com", "resume_text": "go expert",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		applicant := decode[workflow.Applicant](t, resp)
		assert.NotEmpty(t, applicant.ID)

		state, err := ts.engine.GetState(context.Background(), jobID)
		require.NoError(t, err)
		require.Len(t, state.Applicants.Applicants, 1)
		assert.Equal(t, "ada", state.Applicants.Applicants[0].Name)
	})
}

func TestAddMockApplicants_Caps(t *testing.T) {
	ts := newTestServer(t)
	jobID := ts.seedJob(t, func(s *workflow.WorkflowState) {
		s.SetNode(workflow.NodeMonitorApplications)
		s.JD.GeneratedJD = postedJD()
		s.Posting.IsPosted = true
	})

	resp := ts.do(t, http.MethodPost, "/api/jobs/"+jobID+"/applicants/mock", map[string]any{
		"count": 1000,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode[map[string]int](t, resp)
	assert.Equal(t, workflow.MaxMockApplicantCount, body["added"])
	assert.Equal(t, workflow.MaxMockApplicantCount, body["total"])
}

func TestCheckApplications(t *testing.T) {
	ts := newTestServer(t)
	jobID := ts.seedJob(t, func(s *workflow.WorkflowState) {
		s.SetNode(workflow.NodeMonitorApplications)
		s.JD.GeneratedJD = postedJD()
		s.JD.ApprovalStatus = workflow.ApprovalApproved
		s.JD.GenerationAttempts = ts.cfg.MaxGenerationAttempts
		s.Posting.IsPosted = true
		s.Applicants.Applicants = []workflow.Applicant{
			{ID: "a1", Name: "ada", Email: "ada@example.com"},
			{ID: "a2", Name: "bob", Email: "bob@example.com"},
		}
	})

	// Synchronous: the response reflects the post-check position.
	resp := ts.do(t, http.MethodPost, "/api/jobs/"+jobID+"/check-applications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decode[workflow.Status](t, resp)

	assert.Equal(t, string(workflow.NodeShortlistCandidates), status.CurrentNode)
	assert.Equal(t, 1, status.ShortlistedCount) // only ada scores above threshold
}

func TestApproveShortlist(t *testing.T) {
	ts := newTestServer(t)

	t.Run("empty shortlist is a conflict", func(t *testing.T) {
		jobID := ts.seedJob(t, nil)
		resp := ts.do(t, http.MethodPost, "/api/jobs/"+jobID+"/shortlist/approve", map[string]any{"approved": true})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("approval resumes into prescreening", func(t *testing.T) {
		jobID := ts.seedJob(t, func(s *workflow.WorkflowState) {
			s.SetNode(workflow.NodeShortlistCandidates)
			s.JD.GeneratedJD = postedJD()
			s.JD.ApprovalStatus = workflow.ApprovalApproved
			s.Posting.IsPosted = true
			s.Applicants.Applicants = []workflow.Applicant{{ID: "a1", Name: "ada", Email: "a@e.com"}}
			s.Applicants.ShortlistedIDs = []string{"a1"}
			s.Prescreening.Questions = []workflow.PrescreeningQuestion{{ID: "q1", QuestionText: "Q", MaxScore: 100}}
		})

		resp := ts.do(t, http.MethodPost, "/api/jobs/"+jobID+"/shortlist/approve", map[string]any{"approved": true})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		resp.Body.Close()

		// Prescreening runs and the pipeline parks at the decision gate.
		require.Eventually(t, func() bool {
			s, err := ts.engine.GetState(context.Background(), jobID)
			return err == nil && s != nil && s.CurrentNode == string(workflow.NodeReviewResponses)
		}, 2*time.Second, 10*time.Millisecond)

		state, err := ts.engine.GetState(context.Background(), jobID)
		require.NoError(t, err)
		assert.True(t, state.Prescreening.IsComplete)
		assert.Len(t, state.Prescreening.Responses["a1"], 1)
	})

	t.Run("rejection parks the job", func(t *testing.T) {
		jobID := ts.seedJob(t, func(s *workflow.WorkflowState) {
			s.SetNode(workflow.NodeShortlistCandidates)
			s.Applicants.ShortlistedIDs = []string{"a1"}
		})

		resp := ts.do(t, http.MethodPost, "/api/jobs/"+jobID+"/shortlist/approve", map[string]any{"approved": false})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		status := decode[workflow.Status](t, resp)
		assert.Equal(t, workflow.ApprovalRejected, status.ShortlistApprovalStatus)
	})
}

func TestRecordDecision(t *testing.T) {
	ts := newTestServer(t)

	t.Run("invalid action", func(t *testing.T) {
		jobID := ts.seedJob(t, nil)
		resp := ts.do(t, http.MethodPost, "/api/jobs/"+jobID+"/decision", map[string]any{"action": "maybe"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("before prescreening completes is a conflict", func(t *testing.T) {
		jobID := ts.seedJob(t, nil)
		resp := ts.do(t, http.MethodPost, "/api/jobs/"+jobID+"/decision", map[string]any{"action": "schedule"})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("schedule decision books interviews", func(t *testing.T) {
		jobID := ts.seedJob(t, func(s *workflow.WorkflowState) {
			s.SetNode(workflow.NodeReviewResponses)
			s.Applicants.Applicants = []workflow.Applicant{{ID: "a1", Name: "ada", Email: "a@e.com"}}
			s.Applicants.ShortlistedIDs = []string{"a1"}
			s.Prescreening.IsComplete = true
		})

		resp := ts.do(t, http.MethodPost, "/api/jobs/"+jobID+"/decision", map[string]any{"action": "schedule"})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		resp.Body.Close()

		require.Eventually(t, func() bool {
			s, err := ts.engine.GetState(context.Background(), jobID)
			return err == nil && s != nil && s.CurrentNode == string(workflow.NodeScheduleInterview)
		}, 2*time.Second, 10*time.Millisecond)

		state, err := ts.engine.GetState(context.Background(), jobID)
		require.NoError(t, err)
		require.Len(t, state.Interviews.Scheduled, 1)
		assert.Equal(t, "a1", state.Interviews.Scheduled[0].CandidateID)
	})
}

func TestCareersPage(t *testing.T) {
	ts := newTestServer(t)

	t.Run("unposted job is not visible", func(t *testing.T) {
		jobID := ts.seedJob(t, func(s *workflow.WorkflowState) {
			s.JD.GeneratedJD = postedJD()
		})
		resp := ts.do(t, http.MethodGet, "/careers/"+jobID, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("posted job serves the jd", func(t *testing.T) {
		jobID := ts.seedJob(t, func(s *workflow.WorkflowState) {
			s.JD.GeneratedJD = postedJD()
			s.Posting.IsPosted = true
			s.Posting.PostingURL = "/careers/" + s.JobID
		})

		resp := ts.do(t, http.MethodGet, "/careers/"+jobID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[map[string]json.RawMessage](t, resp)
		assert.Contains(t, body, "job_description")
	})
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
