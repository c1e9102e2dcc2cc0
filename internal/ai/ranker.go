package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/hireloop/hireloop/internal/workflow"
)

const embeddingModel = "text-embedding-3-small"

// Ranker implements workflow.CandidateRanker against an
// OpenAI-compatible embeddings endpoint: it embeds the JD and each
// resume, scores applicants by cosine similarity, and returns them in
// descending score order.
type Ranker struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewRanker creates a Ranker for the given embeddings endpoint.
func NewRanker(url, apiKey string) *Ranker {
	return &Ranker{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (r *Ranker) Rank(ctx context.Context, jd workflow.GeneratedJD, applicants []workflow.Applicant) ([]workflow.Applicant, error) {
	jdVec, err := r.embed(ctx, jdText(jd))
	if err != nil {
		return nil, fmt.Errorf("failed to embed job description: %w", err)
	}

	ranked := make([]workflow.Applicant, len(applicants))
	copy(ranked, applicants)

	for i := range ranked {
		score := 0.0
		if ranked[i].ResumeText != "" {
			vec, err := r.embed(ctx, ranked[i].ResumeText)
			if err != nil {
				return nil, fmt.Errorf("failed to embed resume for %s: %w", ranked[i].ID, err)
			}
			score = cosine(jdVec, vec)
		}
		s := score
		ranked[i].SimilarityScore = &s
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].SimilarityScore > *ranked[j].SimilarityScore
	})
	return ranked, nil
}

func jdText(jd workflow.GeneratedJD) string {
	parts := []string{jd.JobTitle, jd.Summary, jd.Description}
	parts = append(parts, jd.Requirements...)
	return strings.Join(parts, "\n")
}

func (r *Ranker) embed(ctx context.Context, text string) ([]float64, error) {
	payload, err := json.Marshal(map[string]any{
		"input": text,
		"model": embeddingModel,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding API error: %d - %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return result.Data[0].Embedding, nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
