package handler

import (
	"net/http"

	"code-review-service/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// StatsHandler обрабатывает HTTP-запросы для получения статистических данных.
type StatsHandler struct {
	*BaseHandler
	statsUseCase domain.StatsUseCase
}

// NewStatsHandler создает новый экземпляр StatsHandler.
func NewStatsHandler(statsUseCase domain.StatsUseCase, logger *logrus.Logger) *StatsHandler {
	return &StatsHandler{
		BaseHandler:  NewBaseHandler(logger),
		statsUseCase: statsUseCase,
	}
}

// GetStats обрабатывает GET запрос сводной статистики по ревью.
func (h *StatsHandler) GetStats(c echo.Context) error {
	logEntry := h.logRequest(c, "get_review_stats")
	logEntry.Info("Getting review statistics")

	stats, err := h.statsUseCase.GetReviewStats(c.Request().Context())
	if err != nil {
		logEntry.WithError(err).Error("Failed to get review stats")
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	logEntry.WithField("total_reviews", stats.TotalReviews).Info("Review stats retrieved")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"stats": toAPIStats(stats),
	})
}
