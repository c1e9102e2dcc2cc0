package workflow

import "time"

// Config carries the workflow knobs that routing and nodes depend on.
// It is injected at construction time so edge functions stay pure and
// testable; nothing in this package reads ambient globals.
type Config struct {
	// MinApplicantThreshold is the default minimum number of applicants
	// required before shortlisting proceeds without JD optimization.
	MinApplicantThreshold int

	// MaxGenerationAttempts caps JD generation/optimization cycles.
	MaxGenerationAttempts int

	// SimilarityThreshold is the minimum similarity score for an
	// applicant to be auto-shortlisted.
	SimilarityThreshold float64

	// LockWaitCeiling bounds how long an entry point waits for the
	// distributed per-job lock before giving up with ErrLockTimeout.
	LockWaitCeiling time.Duration

	// ApprovalLockLease is the lease on locks guarding approval-adjacent
	// state mutations.
	ApprovalLockLease time.Duration

	// GraphLockLease is the lease on locks guarding full graph
	// execution. It is a safety valve only: a crashed holder must not
	// deadlock the job indefinitely.
	GraphLockLease time.Duration
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MinApplicantThreshold: DefaultMinApplicantThreshold,
		MaxGenerationAttempts: DefaultMaxGenerationAttempts,
		SimilarityThreshold:   DefaultSimilarityThreshold,
		LockWaitCeiling:       5 * time.Second,
		ApprovalLockLease:     30 * time.Second,
		GraphLockLease:        600 * time.Second,
	}
}
