package handler

import (
	"net/http"

	"code-review-service/api"
	"code-review-service/internal/domain"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// defaultListLimit совпадает с размером страницы по умолчанию в usecase.
const defaultListLimit = 50

// ReviewHandler обрабатывает HTTP-запросы, связанные с ревью и находками
type ReviewHandler struct {
	*BaseHandler
	reviewUseCase domain.ReviewUseCase
}

// NewReviewHandler создает новый экземпляр ReviewHandler
func NewReviewHandler(reviewUseCase domain.ReviewUseCase, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   NewBaseHandler(logger),
		reviewUseCase: reviewUseCase,
	}
}

// PostReviews синхронно выполняет ревью пул-реквеста
func (h *ReviewHandler) PostReviews(c echo.Context) error {
	logEntry := h.logRequest(c, "create_review")

	var req api.PostReviewsJSONBody
	if err := h.bindBody(c, logEntry, &req); err != nil {
		return err
	}
	if req.PullRequestId == uuid.Nil {
		return respondError(c, domain.ErrInvalidPRID)
	}

	logEntry = logEntry.WithField("pull_request_id", req.PullRequestId)
	logEntry.Info("Running review")

	review, err := h.reviewUseCase.ReviewPullRequest(c.Request().Context(), req.PullRequestId)
	if err != nil {
		logEntry.WithError(err).Error("Failed to run review")
		return respondError(c, err)
	}

	logEntry.WithFields(logrus.Fields{
		"review_id": review.ID,
		"status":    review.Status,
	}).Info("Review finished")
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"review": toAPIReview(review),
	})
}

// GetReviews возвращает страницу ревью
func (h *ReviewHandler) GetReviews(c echo.Context, params api.GetReviewsParams) error {
	logEntry := h.logRequest(c, "list_reviews")

	filter := domain.ReviewFilter{
		PullRequestID: params.PullRequestId,
		Limit:         derefInt(params.Limit),
		Offset:        derefInt(params.Offset),
	}
	if params.Status != nil {
		status := domain.ReviewStatus(*params.Status)
		filter.Status = &status
	}

	reviews, total, err := h.reviewUseCase.ListReviews(c.Request().Context(), filter)
	if err != nil {
		logEntry.WithError(err).Error("Failed to list reviews")
		return respondError(c, err)
	}

	result := api.ReviewList{
		Reviews: make([]api.Review, len(reviews)),
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}
	if result.Limit == 0 {
		result.Limit = defaultListLimit
	}
	for i, r := range reviews {
		result.Reviews[i] = toAPIReview(r)
	}

	logEntry.WithField("count", len(reviews)).Debug("Reviews listed")
	return c.JSON(http.StatusOK, result)
}

// GetReviewsId возвращает ревью по идентификатору
func (h *ReviewHandler) GetReviewsId(c echo.Context, id uuid.UUID) error {
	logEntry := h.logRequest(c, "get_review").WithField("review_id", id)

	review, err := h.reviewUseCase.GetReview(c.Request().Context(), id)
	if err != nil {
		logEntry.WithError(err).Warn("Review not found")
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"review": toAPIReview(review),
	})
}

// DeleteReviewsId удаляет ревью вместе с находками
func (h *ReviewHandler) DeleteReviewsId(c echo.Context, id uuid.UUID) error {
	logEntry := h.logRequest(c, "delete_review").WithField("review_id", id)

	if err := h.reviewUseCase.DeleteReview(c.Request().Context(), id); err != nil {
		logEntry.WithError(err).Warn("Failed to delete review")
		return respondError(c, err)
	}

	logEntry.Info("Review deleted")
	return c.NoContent(http.StatusNoContent)
}

// GetReviewsIdFindings возвращает находки ревью с итогами по уровням
func (h *ReviewHandler) GetReviewsIdFindings(c echo.Context, id uuid.UUID, params api.GetReviewsIdFindingsParams) error {
	logEntry := h.logRequest(c, "list_findings").WithField("review_id", id)

	filter := domain.FindingFilter{
		Limit:  derefInt(params.Limit),
		Offset: derefInt(params.Offset),
	}
	if params.Severity != nil {
		severity := domain.Severity(*params.Severity)
		filter.Severity = &severity
	}
	if params.Category != nil {
		category := domain.Category(*params.Category)
		filter.Category = &category
	}

	list, err := h.reviewUseCase.ListFindings(c.Request().Context(), id, filter)
	if err != nil {
		logEntry.WithError(err).Warn("Failed to list findings")
		return respondError(c, err)
	}

	result := api.FindingList{
		Findings: make([]api.Finding, len(list.Findings)),
		Total:    list.Total,
		Counts: api.SeverityCounts{
			Critical: list.Counts.Critical,
			Warning:  list.Counts.Warning,
			Info:     list.Counts.Info,
		},
	}
	for i, f := range list.Findings {
		result.Findings[i] = toAPIFinding(f)
	}

	return c.JSON(http.StatusOK, result)
}
