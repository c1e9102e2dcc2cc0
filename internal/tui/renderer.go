// Package tui renders workflow data for terminal output.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/hireloop/hireloop/internal/workflow"
)

// NewRenderer returns a markdown renderer for the terminal.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// JDMarkdown flattens a generated job description into markdown for
// terminal display.
func JDMarkdown(jd workflow.GeneratedJD) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", jd.JobTitle)
	if jd.Summary != "" {
		fmt.Fprintf(&b, "*%s*\n\n", jd.Summary)
	}
	fmt.Fprintf(&b, "%s\n", jd.Description)

	if len(jd.Requirements) > 0 {
		b.WriteString("\n## Requirements\n\n")
		for _, req := range jd.Requirements {
			fmt.Fprintf(&b, "- %s\n", req)
		}
	}
	if len(jd.NiceToHave) > 0 {
		b.WriteString("\n## Nice to have\n\n")
		for _, item := range jd.NiceToHave {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}
	if jd.Location != "" {
		fmt.Fprintf(&b, "\n**Location:** %s\n", jd.Location)
	}
	if jd.SalaryRange != "" {
		fmt.Fprintf(&b, "\n**Salary:** %s\n", jd.SalaryRange)
	}
	return b.String()
}
