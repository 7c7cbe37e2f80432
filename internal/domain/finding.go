package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category определяет категорию находки.
type Category string

const (
	CategorySecurity     Category = "security"
	CategoryQuality      Category = "quality"
	CategoryPerformance  Category = "performance"
	CategoryStyle        Category = "style"
	CategoryAISuggestion Category = "ai_suggestion"
)

func (c Category) IsValid() bool {
	switch c {
	case CategorySecurity, CategoryQuality, CategoryPerformance, CategoryStyle, CategoryAISuggestion:
		return true
	}
	return false
}

// Severity определяет приоритет находки: critical > warning > info.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// FindingDraft представляет находку анализатора до привязки к ревью.
type FindingDraft struct {
	Category    Category
	Severity    Severity
	Title       string
	Description string
	FilePath    *string
	LineNumber  *int
	CodeSnippet *string
	Suggestion  *string
	ToolSource  string
}

// Finding представляет неизменяемую находку, принадлежащую ревью.
type Finding struct {
	ID          uuid.UUID
	ReviewID    uuid.UUID
	Category    Category
	Severity    Severity
	Title       string
	Description string
	FilePath    *string
	LineNumber  *int
	CodeSnippet *string
	Suggestion  *string
	ToolSource  string
	CreatedAt   time.Time
}

// FindingFilter задает фильтры списка находок ревью.
type FindingFilter struct {
	Severity *Severity
	Category *Category
	Limit    int
	Offset   int
}

// SeverityCounts хранит количество находок по уровням.
type SeverityCounts struct {
	Critical int
	Warning  int
	Info     int
}

// Total возвращает общее количество находок.
func (c SeverityCounts) Total() int {
	return c.Critical + c.Warning + c.Info
}

// FindingList содержит страницу находок с итогами.
type FindingList struct {
	Findings []*Finding
	Total    int64
	Counts   SeverityCounts
}

// FindingRepository определяет контракт для чтения находок.
type FindingRepository interface {
	ListByReview(ctx context.Context, reviewID uuid.UUID, filter FindingFilter) ([]*Finding, int64, error)
	CountBySeverity(ctx context.Context, reviewID uuid.UUID) (SeverityCounts, error)
}
