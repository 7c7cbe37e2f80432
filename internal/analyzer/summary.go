package analyzer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"code-review-service/internal/domain"
)

const maxSummaryFindings = 50

// TemplateSummarizer строит детерминированное текстовое резюме.
type TemplateSummarizer struct{}

func NewTemplateSummarizer() *TemplateSummarizer {
	return &TemplateSummarizer{}
}

func (s *TemplateSummarizer) Summarize(_ context.Context, findings []*domain.Finding) (string, error) {
	counts := domain.CountSeverities(findings)
	total := counts.Total()
	if total == 0 {
		return "Great work! No issues found in this pull request.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d issue(s) in this pull request:\n", total)
	fmt.Fprintf(&sb, "- %d critical\n", counts.Critical)
	fmt.Fprintf(&sb, "- %d warnings\n", counts.Warning)
	fmt.Fprintf(&sb, "- %d info\n", counts.Info)

	sb.WriteString("\nIssues by category:\n")
	for _, c := range categoryBreakdown(findings) {
		fmt.Fprintf(&sb, "- %s: %d\n", c.category, c.count)
	}

	switch {
	case counts.Critical > 0:
		sb.WriteString("\nCritical issues found. Please address before merging.")
	case counts.Warning > 5:
		sb.WriteString("\nSeveral warnings found. Consider addressing them.")
	default:
		sb.WriteString("\nCode looks good overall. Minor improvements suggested.")
	}
	return sb.String(), nil
}

type categoryCount struct {
	category domain.Category
	count    int
}

// categoryBreakdown считает находки по категориям, по убыванию количества.
func categoryBreakdown(findings []*domain.Finding) []categoryCount {
	byCategory := make(map[domain.Category]int)
	for _, f := range findings {
		byCategory[f.Category]++
	}

	result := make([]categoryCount, 0, len(byCategory))
	for category, count := range byCategory {
		result = append(result, categoryCount{category: category, count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].count != result[j].count {
			return result[i].count > result[j].count
		}
		return result[i].category < result[j].category
	})
	return result
}

const summarySystemPrompt = "You are an expert code reviewer writing the summary of an automated pull request review."

// ClaudeSummarizer просит языковую модель кратко резюмировать находки.
type ClaudeSummarizer struct {
	completer Completer
}

func NewClaudeSummarizer(completer Completer) *ClaudeSummarizer {
	return &ClaudeSummarizer{completer: completer}
}

func (s *ClaudeSummarizer) Summarize(ctx context.Context, findings []*domain.Finding) (string, error) {
	if len(findings) == 0 {
		return NewTemplateSummarizer().Summarize(ctx, findings)
	}

	counts := domain.CountSeverities(findings)

	var sb strings.Builder
	fmt.Fprintf(&sb, "An automated review produced %d critical, %d warning and %d info findings.\n\n",
		counts.Critical, counts.Warning, counts.Info)

	ordered := make([]*domain.Finding, len(findings))
	copy(ordered, findings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return severityRank(ordered[i].Severity) < severityRank(ordered[j].Severity)
	})
	if len(ordered) > maxSummaryFindings {
		ordered = ordered[:maxSummaryFindings]
	}

	for i, f := range ordered {
		location := "N/A"
		if f.FilePath != nil {
			location = *f.FilePath
			if f.LineNumber != nil {
				location = fmt.Sprintf("%s:%d", location, *f.LineNumber)
			}
		}
		fmt.Fprintf(&sb, "%d. [%s/%s] %s (%s)\n", i+1, f.Severity, f.Category, f.Title, location)
	}

	sb.WriteString("\nWrite a short plain-text summary (at most 5 sentences): overall risk, the most important " +
		"issues to fix before merging, and a recommendation. Do not use markdown headings.")

	text, err := s.completer.Complete(ctx, summarySystemPrompt, sb.String())
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func severityRank(s domain.Severity) int {
	switch s {
	case domain.SeverityCritical:
		return 0
	case domain.SeverityWarning:
		return 1
	default:
		return 2
	}
}
