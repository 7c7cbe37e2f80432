package handler

import (
	"net/http"

	"code-review-service/api"
	"code-review-service/internal/domain"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// PRHandler обрабатывает HTTP-запросы связанные с пул-реквестами
type PRHandler struct {
	*BaseHandler
	prUseCase domain.PRUseCase
}

// NewPRHandler создает новый экземпляр PRHandler
func NewPRHandler(prUseCase domain.PRUseCase, logger *logrus.Logger) *PRHandler {
	return &PRHandler{
		BaseHandler: NewBaseHandler(logger),
		prUseCase:   prUseCase,
	}
}

// GetPullRequests возвращает список пул-реквестов
func (h *PRHandler) GetPullRequests(c echo.Context, params api.GetPullRequestsParams) error {
	logEntry := h.logRequest(c, "list_prs")

	filter := domain.PRFilter{
		RepositoryID: params.RepositoryId,
		Limit:        derefInt(params.Limit),
		Offset:       derefInt(params.Offset),
	}
	if params.State != nil {
		state := string(*params.State)
		filter.State = &state
	}

	prs, err := h.prUseCase.ListPullRequests(c.Request().Context(), filter)
	if err != nil {
		logEntry.WithError(err).Error("Failed to list pull requests")
		return respondError(c, err)
	}

	result := make([]api.PullRequest, len(prs))
	for i, pr := range prs {
		result[i] = toAPIPullRequest(pr)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"pull_requests": result,
	})
}

// GetPullRequestsId возвращает пул-реквест по идентификатору
func (h *PRHandler) GetPullRequestsId(c echo.Context, id uuid.UUID) error {
	logEntry := h.logRequest(c, "get_pr").WithField("pull_request_id", id)

	pr, err := h.prUseCase.GetPullRequest(c.Request().Context(), id)
	if err != nil {
		logEntry.WithError(err).Warn("Pull request not found")
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"pull_request": toAPIPullRequest(pr),
	})
}

// PostPullRequestsSync импортирует пул-реквест из GitHub
func (h *PRHandler) PostPullRequestsSync(c echo.Context) error {
	logEntry := h.logRequest(c, "sync_pr")

	var req api.PostPullRequestsSyncJSONBody
	if err := h.bindBody(c, logEntry, &req); err != nil {
		return err
	}

	logEntry = logEntry.WithFields(logrus.Fields{
		"repository_id": req.RepositoryId,
		"number":        req.Number,
	})
	logEntry.Info("Syncing pull request")

	pr, err := h.prUseCase.SyncPullRequest(c.Request().Context(), req.RepositoryId, req.Number)
	if err != nil {
		logEntry.WithError(err).Error("Failed to sync PR")
		return respondError(c, err)
	}

	logEntry.WithField("pull_request_id", pr.ID).Info("PR synced successfully")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"pull_request": toAPIPullRequest(pr),
	})
}

// PostRepositoriesIdSyncPulls импортирует из GitHub все пул-реквесты репозитория
func (h *PRHandler) PostRepositoriesIdSyncPulls(c echo.Context, id uuid.UUID, params api.PostRepositoriesIdSyncPullsParams) error {
	logEntry := h.logRequest(c, "sync_repo_prs").WithField("repository_id", id)

	state := domain.SyncStateOpen
	if params.State != nil {
		state = string(*params.State)
	}
	logEntry = logEntry.WithField("state", state)

	result, err := h.prUseCase.SyncRepositoryPulls(c.Request().Context(), id, state)
	if err != nil {
		logEntry.WithError(err).Error("Failed to sync pull requests")
		return respondError(c, err)
	}

	logEntry.WithFields(logrus.Fields{
		"created": result.Created,
		"updated": result.Updated,
	}).Info("Pull requests synced successfully")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"sync": api.SyncResult{
			Total:   result.Total,
			Created: result.Created,
			Updated: result.Updated,
		},
	})
}
