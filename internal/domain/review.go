package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReviewStatus определяет статус прогона ревью.
type ReviewStatus string

const (
	ReviewStatusPending    ReviewStatus = "pending"
	ReviewStatusInProgress ReviewStatus = "in_progress"
	ReviewStatusCompleted  ReviewStatus = "completed"
	ReviewStatusFailed     ReviewStatus = "failed"
)

// IsValid проверяет, что статус входит в допустимый набор.
func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusInProgress, ReviewStatusCompleted, ReviewStatusFailed:
		return true
	}
	return false
}

// Review представляет один оцененный прогон анализа пул-реквеста.
// OverallScore заполняется только в статусе completed.
type Review struct {
	ID            uuid.UUID
	PullRequestID uuid.UUID
	Status        ReviewStatus
	OverallScore  *int
	Summary       *string
	CriticalCount int
	WarningCount  int
	InfoCount     int
	ToolErrors    []ToolError
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
}

// ToolError фиксирует отказ одного анализатора в частично успешном ревью.
type ToolError struct {
	Tool  string `json:"tool"`
	Error string `json:"error"`
}

// ReviewFilter задает фильтры и пагинацию списка ревью.
type ReviewFilter struct {
	Status        *ReviewStatus
	PullRequestID *uuid.UUID
	Limit         int
	Offset        int
}

// ReviewRepository определяет контракт для работы с хранилищем ревью.
type ReviewRepository interface {
	// CreatePending создает ревью в статусе pending. Возвращает ErrReviewInProgress,
	// если для PR есть ревью в очереди или выполняющееся меньше lease.
	// Выполняющиеся дольше lease переводятся в failed.
	CreatePending(ctx context.Context, prID uuid.UUID, lease time.Duration) (*Review, error)
	// MarkInProgress, Complete и MarkFailed возвращают ErrReviewNotActive,
	// если ревью уже не в подходящем статусе.
	MarkInProgress(ctx context.Context, reviewID uuid.UUID, startedAt time.Time) error
	// Complete атомарно сохраняет находки и финальное состояние ревью.
	Complete(ctx context.Context, review *Review, findings []*Finding) error
	MarkFailed(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, reviewID uuid.UUID) (*Review, error)
	List(ctx context.Context, filter ReviewFilter) ([]*Review, int64, error)
	Delete(ctx context.Context, reviewID uuid.UUID) error
	FailStale(ctx context.Context, olderThan time.Time) (int64, error)
}
