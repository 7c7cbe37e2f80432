package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"code-review-service/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	AIAnalyzerName   = "ai"
	aiToolSource     = "ai-claude"
	maxPromptChars   = 50000
	minPartialChars  = 1000
	maxFallbackChars = 1000
)

// Completer отправляет промпт языковой модели и возвращает текст ответа.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

var (
	jsonFenceRe  = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
)

var aiCategories = map[string]domain.Category{
	"security":        domain.CategorySecurity,
	"performance":     domain.CategoryPerformance,
	"style":           domain.CategoryStyle,
	"quality":         domain.CategoryQuality,
	"maintainability": domain.CategoryQuality,
	"design":          domain.CategoryQuality,
	"error-handling":  domain.CategoryQuality,
	"testing":         domain.CategoryQuality,
	"architecture":    domain.CategoryQuality,
}

const reviewSystemPrompt = "You are an expert code reviewer. You answer only with the JSON document requested."

// aiReport описывает ожидаемую структуру ответа модели.
type aiReport struct {
	Findings []aiFinding `json:"findings"`
	Summary  string      `json:"summary"`
}

type aiFinding struct {
	Category    string  `json:"category"`
	Severity    string  `json:"severity"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	FilePath    *string `json:"file_path"`
	LineNumber  *int    `json:"line_number"`
	CodeSnippet *string `json:"code_snippet"`
	Suggestion  *string `json:"suggestion"`
}

// AIAnalyzer проводит ревью диффа с помощью языковой модели.
type AIAnalyzer struct {
	completer Completer
	logger    *logrus.Logger
}

// NewAIAnalyzer создает AI-анализатор поверх Completer.
func NewAIAnalyzer(completer Completer, logger *logrus.Logger) *AIAnalyzer {
	return &AIAnalyzer{
		completer: completer,
		logger:    logger,
	}
}

func (a *AIAnalyzer) Name() string {
	return AIAnalyzerName
}

// Analyze строит промпт по измененным файлам и разбирает ответ модели в находки.
func (a *AIAnalyzer) Analyze(ctx context.Context, diff *domain.Diff) ([]domain.FindingDraft, error) {
	files := truncateFiles(diff.Files, maxPromptChars)
	if len(files) == 0 {
		return nil, nil
	}

	response, err := a.completer.Complete(ctx, reviewSystemPrompt, buildReviewPrompt(diff, files))
	if err != nil {
		return nil, fmt.Errorf("AI review failed: %w", err)
	}

	drafts := parseAIResponse(response)
	a.logger.WithFields(logrus.Fields{
		"tool":     aiToolSource,
		"files":    len(files),
		"findings": len(drafts),
	}).Debug("AI analysis finished")

	return drafts, nil
}

// truncateFiles укладывает файлы в лимит символов: сначала меньшие,
// последний файл обрезается, если от лимита осталось больше minPartialChars.
func truncateFiles(files []domain.FileDiff, limit int) []domain.FileDiff {
	candidates := make([]domain.FileDiff, 0, len(files))
	for _, f := range files {
		if strings.TrimSpace(f.Content) != "" {
			candidates = append(candidates, f)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].Content) < len(candidates[j].Content)
	})

	var (
		result []domain.FileDiff
		total  int
	)
	for _, f := range candidates {
		size := len(f.Content)
		if total+size <= limit {
			result = append(result, f)
			total += size
			continue
		}

		remaining := limit - total
		if remaining > minPartialChars {
			f.Content = cut(f.Content, remaining) + "\n\n... (truncated)"
			result = append(result, f)
		}
		break
	}
	return result
}

func buildReviewPrompt(diff *domain.Diff, files []domain.FileDiff) string {
	var sb strings.Builder

	sb.WriteString("Review the following code changes from a pull request.\n\n")
	sb.WriteString("Focus on:\n")
	sb.WriteString("1. Best practices and idioms of the language\n")
	sb.WriteString("2. Error handling and edge cases\n")
	sb.WriteString("3. Performance problems\n")
	sb.WriteString("4. Maintainability, design and architecture\n")
	sb.WriteString("5. Security issues the static tools may miss\n\n")

	sb.WriteString("## Pull Request Context\n")
	fmt.Fprintf(&sb, "Title: %s\n", orNA(diff.Title))
	fmt.Fprintf(&sb, "Description: %s\n\n", orNA(diff.Description))

	sb.WriteString("## Code Changes (added lines)\n\n")
	for _, f := range files {
		fmt.Fprintf(&sb, "### File: `%s`\n```%s\n%s\n```\n\n", f.Path, strings.ToLower(f.Language), f.Content)
	}

	sb.WriteString(`## Review Instructions

Respond with JSON in this format:
` + "```json" + `
{
  "findings": [
    {
      "category": "security|performance|style|quality|maintainability|design|error-handling|testing|architecture",
      "severity": "critical|warning|info",
      "title": "Brief title of the issue",
      "description": "Detailed explanation of the issue",
      "file_path": "path/to/file",
      "line_number": 42,
      "code_snippet": "problematic code snippet",
      "suggestion": "How to fix or improve this"
    }
  ],
  "summary": "Overall assessment"
}
` + "```" + `

Only report genuine issues, not nitpicks. If the code is good, return few or no findings.
`)
	return sb.String()
}

// parseAIResponse извлекает находки из ответа модели.
// Ответ без разбираемого JSON превращается в одну info-находку с текстом ответа.
func parseAIResponse(response string) []domain.FindingDraft {
	var payload string
	if m := jsonFenceRe.FindStringSubmatch(response); m != nil {
		payload = m[1]
	} else if m := jsonObjectRe.FindString(response); m != "" {
		payload = m
	} else {
		return []domain.FindingDraft{fallbackFinding(response)}
	}

	var report aiReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return []domain.FindingDraft{fallbackFinding(response)}
	}

	drafts := make([]domain.FindingDraft, 0, len(report.Findings))
	for _, f := range report.Findings {
		severity := domain.Severity(strings.ToLower(strings.TrimSpace(f.Severity)))
		if !severity.IsValid() {
			severity = domain.SeverityInfo
		}

		title := strings.TrimSpace(f.Title)
		if title == "" {
			title = "AI Review Finding"
		}

		drafts = append(drafts, domain.FindingDraft{
			Category:    mapAICategory(f.Category),
			Severity:    severity,
			Title:       title,
			Description: f.Description,
			FilePath:    f.FilePath,
			LineNumber:  f.LineNumber,
			CodeSnippet: f.CodeSnippet,
			Suggestion:  f.Suggestion,
			ToolSource:  aiToolSource,
		})
	}
	return drafts
}

func mapAICategory(category string) domain.Category {
	if c, ok := aiCategories[strings.ToLower(strings.TrimSpace(category))]; ok {
		return c
	}
	return domain.CategoryAISuggestion
}

func fallbackFinding(response string) domain.FindingDraft {
	description := strings.TrimSpace(response)
	if description == "" {
		description = "No feedback provided"
	}
	description = cut(description, maxFallbackChars)

	return domain.FindingDraft{
		Category:    domain.CategoryAISuggestion,
		Severity:    domain.SeverityInfo,
		Title:       "AI Code Review",
		Description: description,
		Suggestion:  strPtr("Review the AI-generated feedback above"),
		ToolSource:  aiToolSource,
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
