package workflow

// NodeName identifies a step in the recruitment graph.
// Using a named type eliminates magic strings in routing tables and
// gives a single source of truth for node identifiers.
type NodeName string

const (
	NodeGenerateJD          NodeName = "generate_jd"
	NodePostJob             NodeName = "post_job"
	NodeMonitorApplications NodeName = "monitor_applications"
	NodeShortlistCandidates NodeName = "shortlist_candidates"
	NodeVoicePrescreening   NodeName = "voice_prescreening"
	NodeReviewResponses     NodeName = "review_responses"
	NodeScheduleInterview   NodeName = "schedule_interview"
	NodeRejectCandidate     NodeName = "reject_candidate"
	NodeOptimizeJD          NodeName = "optimize_jd"
)

// WaitForHuman is the special routing outcome meaning "halt until an
// external action occurs". It is a first-class stop condition for the
// engine, not an error.
const WaitForHuman NodeName = "__wait__"

// Pre-graph status values. A state carries one of these in CurrentNode
// before the graph formally positions it on a node.
const (
	StatusPending  = "pending"
	StatusJDReview = "jd_review"
)

// ApprovalStatus is the tri-state human sign-off marker. Rejected and
// pending both route to WAIT today, but their recovery semantics differ,
// so a boolean would lose information.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Recruiter decision values recorded after response review.
const (
	DecisionSchedule = "schedule"
	DecisionReject   = "reject"
)

// Workflow limits. These are the defaults baked into Config; the engine
// never reads them directly.
const (
	DefaultMaxGenerationAttempts = 3
	DefaultMinApplicantThreshold = 5
	DefaultSimilarityThreshold   = 0.7
	DefaultMockApplicantCount    = 5
	MaxMockApplicantCount        = 50
)
