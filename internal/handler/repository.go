package handler

import (
	"net/http"

	"code-review-service/api"
	"code-review-service/internal/domain"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// RepoHandler обрабатывает HTTP-запросы для управления отслеживаемыми репозиториями
type RepoHandler struct {
	*BaseHandler
	repoUseCase domain.RepoUseCase
}

// NewRepoHandler создает новый экземпляр RepoHandler
func NewRepoHandler(repoUseCase domain.RepoUseCase, logger *logrus.Logger) *RepoHandler {
	return &RepoHandler{
		BaseHandler: NewBaseHandler(logger),
		repoUseCase: repoUseCase,
	}
}

// PostRepositories регистрирует репозиторий и, по запросу, ставит вебхук
func (h *RepoHandler) PostRepositories(c echo.Context) error {
	logEntry := h.logRequest(c, "register_repo")

	var req api.PostRepositoriesJSONBody
	if err := h.bindBody(c, logEntry, &req); err != nil {
		return err
	}

	installWebhook := req.InstallWebhook != nil && *req.InstallWebhook
	logEntry = logEntry.WithFields(logrus.Fields{
		"full_name":       req.FullName,
		"install_webhook": installWebhook,
	})
	logEntry.Info("Registering repository")

	repo, err := h.repoUseCase.RegisterRepo(c.Request().Context(), req.FullName, installWebhook)
	if err != nil {
		logEntry.WithError(err).Error("Failed to register repository")
		return respondError(c, err)
	}

	logEntry.WithField("repository_id", repo.ID).Info("Repository registered successfully")
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"repository": toAPIRepository(repo),
	})
}

// GetRepositories возвращает все отслеживаемые репозитории
func (h *RepoHandler) GetRepositories(c echo.Context) error {
	logEntry := h.logRequest(c, "list_repos")

	repos, err := h.repoUseCase.ListRepos(c.Request().Context())
	if err != nil {
		logEntry.WithError(err).Error("Failed to list repositories")
		return respondError(c, err)
	}

	result := make([]api.Repository, len(repos))
	for i, repo := range repos {
		result[i] = toAPIRepository(repo)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"repositories": result,
	})
}

// GetRepositoriesId возвращает репозиторий по идентификатору
func (h *RepoHandler) GetRepositoriesId(c echo.Context, id uuid.UUID) error {
	logEntry := h.logRequest(c, "get_repo").WithField("repository_id", id)

	repo, err := h.repoUseCase.GetRepo(c.Request().Context(), id)
	if err != nil {
		logEntry.WithError(err).Warn("Repository not found")
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"repository": toAPIRepository(repo),
	})
}

// PatchRepositoriesId включает или выключает отслеживание репозитория
func (h *RepoHandler) PatchRepositoriesId(c echo.Context, id uuid.UUID) error {
	logEntry := h.logRequest(c, "update_repo").WithField("repository_id", id)

	var req api.PatchRepositoriesIdJSONBody
	if err := h.bindBody(c, logEntry, &req); err != nil {
		return err
	}

	repo, err := h.repoUseCase.UpdateRepo(c.Request().Context(), id, domain.RepoUpdate{IsActive: req.IsActive})
	if err != nil {
		logEntry.WithError(err).Error("Failed to update repository")
		return respondError(c, err)
	}

	logEntry.WithField("is_active", repo.IsActive).Info("Repository updated successfully")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"repository": toAPIRepository(repo),
	})
}

// DeleteRepositoriesId снимает вебхук и удаляет репозиторий со всеми данными
func (h *RepoHandler) DeleteRepositoriesId(c echo.Context, id uuid.UUID) error {
	logEntry := h.logRequest(c, "delete_repo").WithField("repository_id", id)

	if err := h.repoUseCase.DeleteRepo(c.Request().Context(), id); err != nil {
		logEntry.WithError(err).Warn("Failed to delete repository")
		return respondError(c, err)
	}

	logEntry.Info("Repository deleted")
	return c.NoContent(http.StatusNoContent)
}
