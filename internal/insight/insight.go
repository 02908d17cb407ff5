// Package insight turns a finished history report into a short narrative
// summary using an LLM. The analysis pipeline never depends on it; a nil
// or failing generator degrades to no narrative.
package insight

import (
	"context"
	"fmt"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/halvard/lore/pkg/models"
)

const systemPrompt = "You are a concise engineering analyst. Given repository " +
	"history metrics, write a short plain-text briefing (max 3 paragraphs) " +
	"covering team shape, knowledge risk, and development trajectory. No " +
	"markdown, no bullet lists."

// Generator produces a narrative summary from report context.
type Generator interface {
	Summarize(ctx context.Context, report *models.HistoryReport) (string, error)
}

// chatClient is the slice of the OpenAI client the generator needs.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIGenerator summarizes reports via the OpenAI chat API.
type OpenAIGenerator struct {
	client chatClient
	model  string
}

// NewOpenAIGenerator creates a generator using the given API key and model.
func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Summarize renders the report into a bounded prompt and asks the model
// for a briefing.
func (g *OpenAIGenerator) Summarize(ctx context.Context, report *models.HistoryReport) (string, error) {
	if report == nil {
		return "", fmt.Errorf("nil report")
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildContext(report),
			},
		},
		Temperature: 0.2,
		MaxTokens:   600,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// maxContextFindings caps how many findings make it into the prompt.
const maxContextFindings = 10

// BuildContext flattens the report into a compact plain-text block small
// enough to prompt with.
func BuildContext(report *models.HistoryReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(&b, "Commits analyzed: %d by %d contributors over %d days\n",
		report.TotalCommits, report.TotalContributors, report.Age.Days)
	if report.ReducedFidelity {
		b.WriteString("Note: file-level data was reconstructed in reduced-fidelity mode\n")
	}

	if len(report.Categories) > 0 {
		b.WriteString("Commit categories:")
		for _, cat := range sortedCategories(report.Categories) {
			fmt.Fprintf(&b, " %s=%d", cat, report.Categories[cat])
		}
		b.WriteString("\n")
	}

	if report.Recent.WindowDays > 0 {
		fmt.Fprintf(&b, "Last %d days: %d commits from %d active authors\n",
			report.Recent.WindowDays, report.Recent.Commits, report.Recent.ActiveAuthors)
	}

	if report.Risks != nil && len(report.Risks.Findings) > 0 {
		fmt.Fprintf(&b, "Risk findings (%d total, %d high-risk subjects):\n",
			report.Risks.Summary.TotalRisks, report.Risks.Summary.HighRiskSubjects)
		for i, f := range report.Risks.Findings {
			if i >= maxContextFindings {
				fmt.Fprintf(&b, "  ... and %d more\n", len(report.Risks.Findings)-i)
				break
			}
			fmt.Fprintf(&b, "  [%s/%s] %s\n", f.Kind, f.Level, f.Rationale)
		}
	}

	for i, p := range report.Phases {
		fmt.Fprintf(&b, "Phase %d: %d commits, dominant activity %s, velocity %.1f/day\n",
			i+1, p.Commits, p.DominantActivity, p.Velocity)
	}

	return b.String()
}

func sortedCategories(m map[models.Category]int) []models.Category {
	cats := make([]models.Category, 0, len(m))
	for c := range m {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if m[cats[i]] == m[cats[j]] {
			return cats[i] < cats[j]
		}
		return m[cats[i]] > m[cats[j]]
	})
	return cats
}
