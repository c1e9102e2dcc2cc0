// Package ai provides the default implementations of the workflow's
// external collaborators: JD generation, candidate ranking, voice
// prescreening and interview scheduling.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hireloop/hireloop/internal/workflow"
)

const defaultModel = "claude-sonnet-4-20250514"

const generatorSystemPrompt = `You are an expert technical recruiter writing job descriptions.
Respond with a single JSON object with these keys:
job_title, summary, description, requirements (array), nice_to_have (array), location, salary_range.
Do not wrap the JSON in markdown fences or add commentary.`

// messageCreator is the narrow slice of the Anthropic client the
// generator needs, so tests can substitute a fake.
type messageCreator interface {
	complete(ctx context.Context, system, prompt string) (string, error)
}

// Generator implements workflow.JDGenerator on top of the Anthropic
// Messages API.
type Generator struct {
	client messageCreator
}

// NewGenerator creates a Generator. An empty model uses the default.
func NewGenerator(apiKey, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}
	if model == "" {
		model = defaultModel
	}
	return &Generator{client: &anthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}}, nil
}

// Generate produces a structured JD from the recruiter's input.
func (g *Generator) Generate(ctx context.Context, input workflow.JobInput) (*workflow.GeneratedJD, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a job description for the following role.\n")
	fmt.Fprintf(&b, "Role: %s\nDepartment: %s\nCompany: %s\n", input.RoleTitle, input.Department, input.CompanyName)
	if input.CompanyDescription != "" {
		fmt.Fprintf(&b, "About the company: %s\n", input.CompanyDescription)
	}
	fmt.Fprintf(&b, "Experience: %d+ years\n", input.ExperienceYears)
	if len(input.KeyRequirements) > 0 {
		fmt.Fprintf(&b, "Key requirements: %s\n", strings.Join(input.KeyRequirements, ", "))
	}
	if len(input.NiceToHave) > 0 {
		fmt.Fprintf(&b, "Nice to have: %s\n", strings.Join(input.NiceToHave, ", "))
	}
	if input.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", input.Location)
	}
	if input.SalaryRange != "" {
		fmt.Fprintf(&b, "Salary range: %s\n", input.SalaryRange)
	}

	text, err := g.client.complete(ctx, generatorSystemPrompt, b.String())
	if err != nil {
		return nil, err
	}
	return parseJD(text, input)
}

// Optimize rewrites an existing JD to attract more applicants.
func (g *Generator) Optimize(ctx context.Context, jd workflow.GeneratedJD) (*workflow.GeneratedJD, error) {
	prompt := fmt.Sprintf(
		"This job posting is attracting too few applicants. Rewrite it to be clearer and more appealing while keeping every requirement accurate.\n\n%s",
		renderJD(jd),
	)
	text, err := g.client.complete(ctx, generatorSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return parseJD(text, workflow.JobInput{RoleTitle: jd.JobTitle, Location: jd.Location, SalaryRange: jd.SalaryRange})
}

// Regenerate produces a new JD incorporating recruiter feedback.
func (g *Generator) Regenerate(ctx context.Context, jd workflow.GeneratedJD, feedback string) (*workflow.GeneratedJD, error) {
	prompt := fmt.Sprintf(
		"Rewrite this job description, applying the recruiter's feedback.\n\nFeedback: %s\n\nCurrent description:\n%s",
		feedback, renderJD(jd),
	)
	text, err := g.client.complete(ctx, generatorSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return parseJD(text, workflow.JobInput{RoleTitle: jd.JobTitle, Location: jd.Location, SalaryRange: jd.SalaryRange})
}

// parseJD decodes the model's JSON output. Models occasionally wrap or
// preface the JSON, so the parse works on the outermost object; if no
// valid object is present the full text becomes the description.
func parseJD(text string, input workflow.JobInput) (*workflow.GeneratedJD, error) {
	var jd workflow.GeneratedJD

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &jd); err == nil && jd.Description != "" {
			if jd.JobTitle == "" {
				jd.JobTitle = input.RoleTitle
			}
			return &jd, nil
		}
	}

	if strings.TrimSpace(text) == "" {
		return nil, errors.New("empty response from model")
	}
	return &workflow.GeneratedJD{
		JobTitle:    input.RoleTitle,
		Summary:     firstLine(text),
		Description: text,
		Location:    input.Location,
		SalaryRange: input.SalaryRange,
	}, nil
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}

// renderJD flattens a JD into prompt-friendly markdown.
func renderJD(jd workflow.GeneratedJD) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n%s\n", jd.JobTitle, jd.Summary, jd.Description)
	if len(jd.Requirements) > 0 {
		b.WriteString("\nRequirements:\n")
		for _, r := range jd.Requirements {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	if len(jd.NiceToHave) > 0 {
		b.WriteString("\nNice to have:\n")
		for _, r := range jd.NiceToHave {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	return b.String()
}

// anthropicClient is the real SDK-backed implementation.
type anthropicClient struct {
	client anthropic.Client
	model  anthropic.Model
}

func (c *anthropicClient) complete(ctx context.Context, system, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("no text content in model response")
	}
	return b.String(), nil
}
