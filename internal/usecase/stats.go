package usecase

import (
	"context"

	"code-review-service/internal/domain"
)

// StatsUseCase реализует бизнес-логику для работы со статистикой.
type StatsUseCase struct {
	statsRepo domain.StatsRepository
}

// NewStatsUseCase создает новый экземпляр StatsUseCase.
func NewStatsUseCase(statsRepo domain.StatsRepository) domain.StatsUseCase {
	return &StatsUseCase{
		statsRepo: statsRepo,
	}
}

// GetReviewStats возвращает сводную статистику по ревью и находкам.
func (uc *StatsUseCase) GetReviewStats(ctx context.Context) (*domain.ReviewStats, error) {
	return uc.statsRepo.GetReviewStats(ctx)
}
