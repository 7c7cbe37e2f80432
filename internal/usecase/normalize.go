package usecase

import (
	"strings"

	"code-review-service/internal/domain"

	"github.com/google/uuid"
)

// Ограничения колонок таблицы findings.
const (
	maxTitleLen      = 512
	maxFilePathLen   = 1024
	maxToolSourceLen = 50
)

// normalizeDrafts приводит находки анализатора к виду, пригодному для сохранения.
// Пустые находки (без заголовка и описания) отбрасываются.
func normalizeDrafts(reviewID uuid.UUID, analyzer string, drafts []domain.FindingDraft) []*domain.Finding {
	findings := make([]*domain.Finding, 0, len(drafts))
	for _, d := range drafts {
		title := strings.TrimSpace(d.Title)
		description := strings.TrimSpace(d.Description)
		if title == "" && description == "" {
			continue
		}
		if title == "" {
			title, _, _ = strings.Cut(description, "\n")
		}
		if description == "" {
			description = title
		}

		category := d.Category
		if !category.IsValid() {
			category = domain.CategoryAISuggestion
		}
		severity := d.Severity
		if !severity.IsValid() {
			severity = domain.SeverityInfo
		}

		source := strings.TrimSpace(d.ToolSource)
		if source == "" {
			source = analyzer
		}

		var line *int
		if d.LineNumber != nil && *d.LineNumber > 0 {
			n := *d.LineNumber
			line = &n
		}

		findings = append(findings, &domain.Finding{
			ReviewID:    reviewID,
			Category:    category,
			Severity:    severity,
			Title:       truncate(title, maxTitleLen),
			Description: description,
			FilePath:    optional(d.FilePath, maxFilePathLen),
			LineNumber:  line,
			CodeSnippet: optional(d.CodeSnippet, 0),
			Suggestion:  optional(d.Suggestion, 0),
			ToolSource:  truncate(source, maxToolSourceLen),
		})
	}
	return findings
}

// optional обрезает пробелы; пустая строка превращается в nil. limit 0 отключает ограничение.
func optional(s *string, limit int) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	if limit > 0 {
		v = truncate(v, limit)
	}
	return &v
}

// truncate обрезает строку до limit символов.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
