package workflow

import (
	"time"
)

// JobInput is the raw recruiter input that starts a recruitment process.
type JobInput struct {
	RoleTitle             string   `json:"role_title"`
	Department            string   `json:"department"`
	CompanyName           string   `json:"company_name"`
	CompanyDescription    string   `json:"company_description,omitempty"`
	KeyRequirements       []string `json:"key_requirements"`
	NiceToHave            []string `json:"nice_to_have,omitempty"`
	ExperienceYears       int      `json:"experience_years"`
	Location              string   `json:"location,omitempty"`
	SalaryRange           string   `json:"salary_range,omitempty"`
	MinApplicantThreshold int      `json:"min_applicant_threshold,omitempty"`
	PrescreeningQuestions []string `json:"prescreening_questions,omitempty"`
}

// GeneratedJD is the structured job description produced by the
// generation collaborator.
type GeneratedJD struct {
	JobTitle     string   `json:"job_title"`
	Summary      string   `json:"summary"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	NiceToHave   []string `json:"nice_to_have,omitempty"`
	Location     string   `json:"location,omitempty"`
	SalaryRange  string   `json:"salary_range,omitempty"`
}

// Applicant is a candidate who applied for a job. SimilarityScore is
// nil until the ranking collaborator has scored the applicant.
type Applicant struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	ResumeText      string    `json:"resume_text,omitempty"`
	SimilarityScore *float64  `json:"similarity_score,omitempty"`
	Shortlisted     bool      `json:"shortlisted"`
	AppliedAt       time.Time `json:"applied_at"`
}

// PrescreeningQuestion is a question template asked during voice calls.
type PrescreeningQuestion struct {
	ID               string   `json:"id"`
	QuestionText     string   `json:"question_text"`
	ExpectedKeywords []string `json:"expected_keywords,omitempty"`
	MaxScore         int      `json:"max_score"`
}

// CandidateResponse is one transcribed answer from a prescreening call.
type CandidateResponse struct {
	ID           string    `json:"id"`
	CandidateID  string    `json:"candidate_id"`
	QuestionID   string    `json:"question_id"`
	QuestionText string    `json:"question_text"`
	Transcript   string    `json:"transcript"`
	Score        int       `json:"score"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// InterviewSlot is a scheduled interview produced by the scheduling
// collaborator.
type InterviewSlot struct {
	ID               string    `json:"id"`
	CandidateID      string    `json:"candidate_id"`
	JobID            string    `json:"job_id"`
	ScheduledAt      time.Time `json:"scheduled_at"`
	DurationMinutes  int       `json:"duration_minutes"`
	MeetingLink      string    `json:"meeting_link,omitempty"`
	InterviewerEmail string    `json:"interviewer_email,omitempty"`
}
