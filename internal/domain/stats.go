package domain

import "context"

// ReviewStats представляет агрегированную статистику по ревью.
type ReviewStats struct {
	TotalReviews          int64
	PendingReviews        int64
	InProgressReviews     int64
	CompletedReviews      int64
	FailedReviews         int64
	AvgScore              *float64
	TotalCriticalFindings int64
	TotalWarningFindings  int64
	TotalInfoFindings     int64
}

// StatsRepository определяет контракт для работы со статистическими данными.
type StatsRepository interface {
	GetReviewStats(ctx context.Context) (*ReviewStats, error)
}
