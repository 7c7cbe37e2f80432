package handler

import (
	"errors"
	"fmt"
	"net/http"

	"code-review-service/api"
	"code-review-service/internal/domain"
	githubclient "code-review-service/internal/github"

	"github.com/google/go-github/v59/github"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Статусы ответа на вебхук
const (
	webhookSuccess = "success"
	webhookIgnored = "ignored"
	webhookError   = "error"
)

// WebhookHandler принимает события GitHub.
// Любое корректно подписанное событие получает 200, чтобы GitHub не повторял доставку.
type WebhookHandler struct {
	*BaseHandler
	prUseCase domain.PRUseCase
	secret    []byte
}

// NewWebhookHandler создает новый экземпляр WebhookHandler. Пустой секрет отключает проверку подписи.
func NewWebhookHandler(prUseCase domain.PRUseCase, secret string, logger *logrus.Logger) *WebhookHandler {
	var key []byte
	if secret != "" {
		key = []byte(secret)
	}
	return &WebhookHandler{
		BaseHandler: NewBaseHandler(logger),
		prUseCase:   prUseCase,
		secret:      key,
	}
}

// PostWebhooksGithub проверяет подпись и передает событие pull_request в usecase
func (h *WebhookHandler) PostWebhooksGithub(c echo.Context) error {
	eventType := github.WebHookType(c.Request())
	logEntry := h.logRequest(c, "github_webhook").WithFields(logrus.Fields{
		"event":       eventType,
		"delivery_id": github.DeliveryID(c.Request()),
	})

	payload, err := github.ValidatePayload(c.Request(), h.secret)
	if err != nil {
		logEntry.WithError(err).Warn("Webhook signature validation failed")
		return respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err))
	}

	switch eventType {
	case "ping":
		return h.reply(c, webhookSuccess, "pong")
	case "pull_request":
	default:
		logEntry.Debug("Event ignored")
		return h.reply(c, webhookIgnored, fmt.Sprintf("event %s ignored", eventType))
	}

	parsed, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		logEntry.WithError(err).Warn("Failed to parse webhook payload")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", "malformed pull_request payload"))
	}
	ghEvent, ok := parsed.(*github.PullRequestEvent)
	if !ok || ghEvent.PullRequest == nil || ghEvent.Repo == nil {
		logEntry.Warn("pull_request payload without pull request or repository")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", "malformed pull_request payload"))
	}

	pr := githubclient.PullRequestFromGitHub(ghEvent.PullRequest)
	pr.RepoFullName = ghEvent.GetRepo().GetFullName()
	event := domain.PullRequestEvent{
		Action:       ghEvent.GetAction(),
		RepoGitHubID: ghEvent.GetRepo().GetID(),
		RepoFullName: ghEvent.GetRepo().GetFullName(),
		PullRequest:  *pr,
		Merged:       ghEvent.GetPullRequest().GetMerged(),
	}

	logEntry = logEntry.WithFields(logrus.Fields{
		"action":     event.Action,
		"repository": event.RepoFullName,
		"number":     pr.Number,
	})

	stored, err := h.prUseCase.HandleEvent(c.Request().Context(), event)
	switch {
	case errors.Is(err, domain.ErrRepoNotFound), errors.Is(err, domain.ErrRepoInactive):
		logEntry.WithError(err).Info("Event for untracked repository ignored")
		return h.reply(c, webhookIgnored, err.Error())
	case err != nil:
		logEntry.WithError(err).Error("Failed to handle pull_request event")
		return h.reply(c, webhookError, err.Error())
	case stored == nil:
		return h.reply(c, webhookIgnored, fmt.Sprintf("action %s ignored", event.Action))
	}

	logEntry.WithField("pull_request_id", stored.ID).Info("pull_request event processed")
	return h.reply(c, webhookSuccess, fmt.Sprintf("pull request #%d %s", stored.Number, event.Action))
}

func (h *WebhookHandler) reply(c echo.Context, status, message string) error {
	return c.JSON(http.StatusOK, api.WebhookResponse{Status: status, Message: message})
}
