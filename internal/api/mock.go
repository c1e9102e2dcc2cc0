package api

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hireloop/hireloop/internal/workflow"
)

var mockNames = []string{
	"Alex Rivera", "Sam Chen", "Jordan Patel", "Casey Novak",
	"Morgan Silva", "Riley Okafor", "Taylor Lindqvist", "Jamie Duarte",
	"Avery Kowalski", "Quinn Marchetti", "Drew Ivanova", "Reese Almeida",
}

// mockApplicants fabricates applicants for demos. Resumes reuse a
// varying subset of the JD requirements so similarity ranking produces
// a spread of scores instead of a flat pool.
func mockApplicants(count int, jd *workflow.GeneratedJD) []workflow.Applicant {
	now := time.Now().UTC()
	out := make([]workflow.Applicant, 0, count)

	for i := 0; i < count; i++ {
		name := mockNames[i%len(mockNames)]
		if i >= len(mockNames) {
			name = fmt.Sprintf("%s %d", name, i/len(mockNames)+1)
		}

		out = append(out, workflow.Applicant{
			ID:         uuid.NewString(),
			Name:       name,
			Email:      mockEmail(name, i),
			ResumeText: mockResume(name, jd),
			AppliedAt:  now,
		})
	}
	return out
}

func mockEmail(name string, i int) string {
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	return fmt.Sprintf("%s%d@example.com", slug, i)
}

func mockResume(name string, jd *workflow.GeneratedJD) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s. Experienced professional.", name)

	if jd != nil && len(jd.Requirements) > 0 {
		// Each applicant covers a random share of the requirements.
		n := 1 + rand.Intn(len(jd.Requirements))
		b.WriteString(" Skills: ")
		b.WriteString(strings.Join(jd.Requirements[:n], ", "))
		b.WriteString(".")
	}
	return b.String()
}
