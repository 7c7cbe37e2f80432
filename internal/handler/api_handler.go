package handler

import (
	"net/http"

	"code-review-service/api"
	"code-review-service/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type APIHandler struct {
	*ReviewHandler
	*PRHandler
	*RepoHandler
	*StatsHandler
	*WebhookHandler
}

func NewAPIHandler(
	reviewUseCase domain.ReviewUseCase,
	prUseCase domain.PRUseCase,
	repoUseCase domain.RepoUseCase,
	statsUseCase domain.StatsUseCase,
	webhookSecret string,
	logger *logrus.Logger,
) api.ServerInterface {

	return &APIHandler{
		ReviewHandler:  NewReviewHandler(reviewUseCase, logger),
		PRHandler:      NewPRHandler(prUseCase, logger),
		RepoHandler:    NewRepoHandler(repoUseCase, logger),
		StatsHandler:   NewStatsHandler(statsUseCase, logger),
		WebhookHandler: NewWebhookHandler(prUseCase, webhookSecret, logger),
	}
}

// GetHealth отвечает, что сервис запущен
func (h *APIHandler) GetHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
