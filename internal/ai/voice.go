package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hireloop/hireloop/internal/workflow"
)

// VoiceAgent implements workflow.Prescreener. With a base URL
// configured it delegates calls to an external voice-agent service;
// without one it simulates the calls locally so the pipeline stays
// exercisable in development.
type VoiceAgent struct {
	baseURL    string
	httpClient *http.Client
}

// NewVoiceAgent creates a VoiceAgent. Empty baseURL enables simulation
// mode.
func NewVoiceAgent(baseURL string) *VoiceAgent {
	return &VoiceAgent{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			// Voice calls are long-running.
			Timeout: 10 * time.Minute,
		},
	}
}

func (v *VoiceAgent) Conduct(ctx context.Context, applicants []workflow.Applicant, questions []workflow.PrescreeningQuestion) (map[string][]workflow.CandidateResponse, error) {
	if v.baseURL == "" {
		return v.simulate(applicants, questions), nil
	}
	return v.callService(ctx, applicants, questions)
}

func (v *VoiceAgent) callService(ctx context.Context, applicants []workflow.Applicant, questions []workflow.PrescreeningQuestion) (map[string][]workflow.CandidateResponse, error) {
	payload, err := json.Marshal(map[string]any{
		"applicants": applicants,
		"questions":  questions,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/v1/prescreen", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voice agent request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("voice agent error: %d - %s", resp.StatusCode, string(body))
	}

	var result struct {
		Responses map[string][]workflow.CandidateResponse `json:"responses"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Responses, nil
}

// simulate fabricates one transcript per applicant and question and
// scores it by expected-keyword overlap against the resume text.
func (v *VoiceAgent) simulate(applicants []workflow.Applicant, questions []workflow.PrescreeningQuestion) map[string][]workflow.CandidateResponse {
	out := make(map[string][]workflow.CandidateResponse, len(applicants))
	for _, a := range applicants {
		responses := make([]workflow.CandidateResponse, 0, len(questions))
		for _, q := range questions {
			responses = append(responses, workflow.CandidateResponse{
				ID:           uuid.NewString(),
				CandidateID:  a.ID,
				QuestionID:   q.ID,
				QuestionText: q.QuestionText,
				Transcript:   fmt.Sprintf("[simulated] %s answered: %s", a.Name, q.QuestionText),
				Score:        keywordScore(a.ResumeText, q),
				RecordedAt:   time.Now().UTC(),
			})
		}
		out[a.ID] = responses
	}
	return out
}

func keywordScore(resumeText string, q workflow.PrescreeningQuestion) int {
	if len(q.ExpectedKeywords) == 0 {
		return q.MaxScore / 2
	}
	text := strings.ToLower(resumeText)
	hits := 0
	for _, kw := range q.ExpectedKeywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			hits++
		}
	}
	return q.MaxScore * hits / len(q.ExpectedKeywords)
}
