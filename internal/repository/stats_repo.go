package repository

import (
	"context"
	"fmt"

	"code-review-service/internal/database"
	"code-review-service/internal/domain"
)

// StatsRepository реализует domain.StatsRepository для работы со статистикой.
type StatsRepository struct {
	queries *database.Queries
}

// NewStatsRepository создает новый экземпляр StatsRepository.
func NewStatsRepository(queries *database.Queries) domain.StatsRepository {
	return &StatsRepository{
		queries: queries,
	}
}

// GetReviewStats возвращает агрегаты по статусам ревью и находкам завершенных ревью.
func (r *StatsRepository) GetReviewStats(ctx context.Context) (*domain.ReviewStats, error) {
	row, err := r.queries.GetReviewStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get review stats: %w", err)
	}

	stats := &domain.ReviewStats{
		TotalReviews:          row.TotalReviews,
		PendingReviews:        row.PendingReviews,
		InProgressReviews:     row.InProgressReviews,
		CompletedReviews:      row.CompletedReviews,
		FailedReviews:         row.FailedReviews,
		TotalCriticalFindings: row.TotalCritical,
		TotalWarningFindings:  row.TotalWarning,
		TotalInfoFindings:     row.TotalInfo,
	}
	if row.AvgScore.Valid {
		avg := row.AvgScore.Float64
		stats.AvgScore = &avg
	}

	return stats, nil
}
