package workflow

import "context"

// The engine calls its external collaborators through these narrow
// interfaces. Concrete implementations live outside this package
// (internal/ai provides the defaults); tests substitute fakes.

// JDGenerator produces and refines job descriptions.
type JDGenerator interface {
	Generate(ctx context.Context, input JobInput) (*GeneratedJD, error)
	Optimize(ctx context.Context, jd GeneratedJD) (*GeneratedJD, error)
	Regenerate(ctx context.Context, jd GeneratedJD, feedback string) (*GeneratedJD, error)
}

// CandidateRanker scores applicants against a job description and
// returns them ordered by descending similarity.
type CandidateRanker interface {
	Rank(ctx context.Context, jd GeneratedJD, applicants []Applicant) ([]Applicant, error)
}

// Prescreener conducts voice prescreening calls and returns responses
// keyed by candidate id.
type Prescreener interface {
	Conduct(ctx context.Context, applicants []Applicant, questions []PrescreeningQuestion) (map[string][]CandidateResponse, error)
}

// InterviewScheduler books interview slots for the given applicants.
type InterviewScheduler interface {
	Schedule(ctx context.Context, jobID string, applicants []Applicant) ([]InterviewSlot, error)
}

// Collaborators bundles the external dependencies of the step
// functions.
type Collaborators struct {
	Generator   JDGenerator
	Ranker      CandidateRanker
	Prescreener Prescreener
	Scheduler   InterviewScheduler
}
