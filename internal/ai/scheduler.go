package ai

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hireloop/hireloop/internal/workflow"
)

// Scheduler implements workflow.InterviewScheduler with deterministic
// next-business-day slots. Calendar integration lives behind the same
// interface and can replace this without touching the engine.
type Scheduler struct {
	interviewerEmail string
	slotDuration     time.Duration
	now              func() time.Time
}

// NewScheduler creates a Scheduler booking hour-long slots.
func NewScheduler(interviewerEmail string) *Scheduler {
	return &Scheduler{
		interviewerEmail: interviewerEmail,
		slotDuration:     time.Hour,
		now:              time.Now,
	}
}

// Schedule books one slot per applicant, starting 10:00 UTC the next
// business day, four slots per day.
func (s *Scheduler) Schedule(ctx context.Context, jobID string, applicants []workflow.Applicant) ([]workflow.InterviewSlot, error) {
	day := nextBusinessDay(s.now().UTC())
	slot := time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, time.UTC)
	perDay := 0

	slots := make([]workflow.InterviewSlot, 0, len(applicants))
	for _, a := range applicants {
		if perDay == 4 {
			day = nextBusinessDay(day)
			slot = time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, time.UTC)
			perDay = 0
		}

		slots = append(slots, workflow.InterviewSlot{
			ID:               uuid.NewString(),
			CandidateID:      a.ID,
			JobID:            jobID,
			ScheduledAt:      slot,
			DurationMinutes:  int(s.slotDuration.Minutes()),
			MeetingLink:      "https://meet.hireloop.dev/" + uuid.NewString()[:8],
			InterviewerEmail: s.interviewerEmail,
		})
		slot = slot.Add(s.slotDuration)
		perDay++
	}
	return slots, nil
}

func nextBusinessDay(t time.Time) time.Time {
	d := t.AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
