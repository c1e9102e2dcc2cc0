package workflow_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hireloop/hireloop/internal/workflow"
)

// fakeGenerator produces deterministic JDs and counts calls.
type fakeGenerator struct {
	generateCalls   int
	optimizeCalls   int
	regenerateCalls int
	lastFeedback    string
	err             error
}

func (g *fakeGenerator) Generate(ctx context.Context, input workflow.JobInput) (*workflow.GeneratedJD, error) {
	g.generateCalls++
	if g.err != nil {
		return nil, g.err
	}
	return &workflow.GeneratedJD{
		JobTitle:     input.RoleTitle,
		Summary:      "A great role",
		Description:  "Do great work at " + input.CompanyName,
		Requirements: input.KeyRequirements,
		Location:     input.Location,
	}, nil
}

func (g *fakeGenerator) Optimize(ctx context.Context, jd workflow.GeneratedJD) (*workflow.GeneratedJD, error) {
	g.optimizeCalls++
	if g.err != nil {
		return nil, g.err
	}
	out := jd
	out.Summary = fmt.Sprintf("%s (optimized %d)", jd.Summary, g.optimizeCalls)
	return &out, nil
}

func (g *fakeGenerator) Regenerate(ctx context.Context, jd workflow.GeneratedJD, feedback string) (*workflow.GeneratedJD, error) {
	g.regenerateCalls++
	g.lastFeedback = feedback
	if g.err != nil {
		return nil, g.err
	}
	out := jd
	out.Description = jd.Description + " / " + feedback
	return &out, nil
}

// fakeRanker assigns scores by applicant name and sorts descending.
type fakeRanker struct {
	scores    map[string]float64
	rankCalls int
	err       error
}

func (r *fakeRanker) Rank(ctx context.Context, jd workflow.GeneratedJD, applicants []workflow.Applicant) ([]workflow.Applicant, error) {
	r.rankCalls++
	if r.err != nil {
		return nil, r.err
	}
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

// fakePrescreener answers every question with a fixed score.
type fakePrescreener struct {
	conductCalls int
	err          error
}

func (p *fakePrescreener) Conduct(ctx context.Context, applicants []workflow.Applicant, questions []workflow.PrescreeningQuestion) (map[string][]workflow.CandidateResponse, error) {
	p.conductCalls++
	if p.err != nil {
		return nil, p.err
	}
	out := make(map[string][]workflow.CandidateResponse, len(applicants))
	for _, a := range applicants {
		for _, q := range questions {
			out[a.ID] = append(out[a.ID], workflow.CandidateResponse{
				ID:          fmt.Sprintf("resp-%s-%s", a.ID, q.ID),
				CandidateID: a.ID,
				QuestionID:  q.ID,
				Transcript:  "fine answer",
				Score:       80,
				RecordedAt:  time.Now().UTC(),
			})
		}
	}
	return out, nil
}

// fakeScheduler books one slot per applicant.
type fakeScheduler struct {
	scheduleCalls int
	err           error
}

func (s *fakeScheduler) Schedule(ctx context.Context, jobID string, applicants []workflow.Applicant) ([]workflow.InterviewSlot, error) {
	s.scheduleCalls++
	if s.err != nil {
		return nil, s.err
	}
	slots := make([]workflow.InterviewSlot, 0, len(applicants))
	for i, a := range applicants {
		slots = append(slots, workflow.InterviewSlot{
			ID:              fmt.Sprintf("slot-%d", i),
			CandidateID:     a.ID,
			JobID:           jobID,
			ScheduledAt:     time.Now().UTC().Add(24 * time.Hour),
			DurationMinutes: 60,
		})
	}
	return slots, nil
}

// fakes bundles one of each collaborator fake.
type fakes struct {
	generator   *fakeGenerator
	ranker      *fakeRanker
	prescreener *fakePrescreener
	scheduler   *fakeScheduler
}

func newFakes() *fakes {
	return &fakes{
		generator:   &fakeGenerator{},
		ranker:      &fakeRanker{scores: map[string]float64{}},
		prescreener: &fakePrescreener{},
		scheduler:   &fakeScheduler{},
	}
}

func (f *fakes) collaborators() workflow.Collaborators {
	return workflow.Collaborators{
		Generator:   f.generator,
		Ranker:      f.ranker,
		Prescreener: f.prescreener,
		Scheduler:   f.scheduler,
	}
}

func testInput() workflow.JobInput {
	return workflow.JobInput{
		RoleTitle:             "Senior Go Engineer",
		Department:            "Engineering",
		CompanyName:           "Acme",
		KeyRequirements:       []string{"Go", "Distributed systems"},
		ExperienceYears:       5,
		Location:              "Remote",
		PrescreeningQuestions: []string{"Tell us about a system you built.", "Why Acme?"},
	}
}

func testApplicant(name string) workflow.Applicant {
	return workflow.Applicant{
		ID:        "id-" + name,
		Name:      name,
		Email:     name + "@example.com",
		AppliedAt: time.Now().UTC(),
	}
}
