package usecase

import (
	"context"
	"strings"

	"code-review-service/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RepoUseCase реализует бизнес-логику для работы с репозиториями.
type RepoUseCase struct {
	repoRepo      domain.RepoRepository
	gateway       domain.GitHubGateway
	webhookURL    string
	webhookSecret string
	logger        *logrus.Logger
}

// NewRepoUseCase создает новый экземпляр RepoUseCase.
func NewRepoUseCase(repoRepo domain.RepoRepository, gateway domain.GitHubGateway, webhookURL, webhookSecret string, logger *logrus.Logger) domain.RepoUseCase {
	return &RepoUseCase{
		repoRepo:      repoRepo,
		gateway:       gateway,
		webhookURL:    webhookURL,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// RegisterRepo начинает отслеживать репозиторий GitHub.
// Ошибка установки вебхука не отменяет регистрацию.
func (uc *RepoUseCase) RegisterRepo(ctx context.Context, fullName string, installWebhook bool) (*domain.Repo, error) {
	fullName = strings.TrimSpace(fullName)
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, domain.ErrInvalidRepoName
	}

	// 1. Метаданные из GitHub
	remote, err := uc.gateway.GetRepository(ctx, fullName)
	if err != nil {
		return nil, err
	}

	// 2. Проверяем, что репозиторий еще не зарегистрирован
	exists, err := uc.repoRepo.ExistsByGitHubID(ctx, remote.GitHubID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrRepoAlreadyExists
	}

	repo, err := uc.repoRepo.Create(ctx, &domain.Repo{
		GitHubID: remote.GitHubID,
		Name:     remote.Name,
		FullName: remote.FullName,
		Owner:    remote.Owner,
		IsActive: true,
	})
	if err != nil {
		return nil, err
	}

	if installWebhook {
		uc.installWebhook(ctx, repo)
	}
	return repo, nil
}

func (uc *RepoUseCase) installWebhook(ctx context.Context, repo *domain.Repo) {
	log := uc.logger.WithField("repository", repo.FullName)
	if uc.webhookURL == "" {
		log.Warn("GITHUB_WEBHOOK_URL is not set, webhook not installed")
		return
	}

	hookID, err := uc.gateway.CreateWebhook(ctx, repo.FullName, uc.webhookURL, uc.webhookSecret)
	if err != nil {
		log.WithError(err).Error("Failed to install webhook")
		return
	}

	if err := uc.repoRepo.SetWebhookID(ctx, repo.ID, hookID); err != nil {
		log.WithError(err).Error("Failed to save webhook id")
		return
	}
	repo.WebhookID = &hookID
	log.WithField("webhook_id", hookID).Info("Webhook installed")
}

func (uc *RepoUseCase) ListRepos(ctx context.Context) ([]*domain.Repo, error) {
	return uc.repoRepo.List(ctx)
}

func (uc *RepoUseCase) GetRepo(ctx context.Context, repoID uuid.UUID) (*domain.Repo, error) {
	return uc.repoRepo.GetByID(ctx, repoID)
}

// UpdateRepo меняет флаг отслеживания. Выключенный репозиторий отклоняет события вебхука.
func (uc *RepoUseCase) UpdateRepo(ctx context.Context, repoID uuid.UUID, update domain.RepoUpdate) (*domain.Repo, error) {
	if update.IsActive == nil {
		return nil, domain.ErrInvalidRepoUpdate
	}

	repo, err := uc.repoRepo.SetActive(ctx, repoID, *update.IsActive)
	if err != nil {
		return nil, err
	}

	uc.logger.WithFields(logrus.Fields{
		"repository": repo.FullName,
		"is_active":  repo.IsActive,
	}).Info("Repository updated")
	return repo, nil
}

// DeleteRepo снимает вебхук и удаляет репозиторий. Ошибка снятия вебхука не отменяет удаление.
func (uc *RepoUseCase) DeleteRepo(ctx context.Context, repoID uuid.UUID) error {
	repo, err := uc.repoRepo.GetByID(ctx, repoID)
	if err != nil {
		return err
	}

	log := uc.logger.WithField("repository", repo.FullName)
	if repo.WebhookID != nil {
		if err := uc.gateway.DeleteWebhook(ctx, repo.FullName, *repo.WebhookID); err != nil {
			log.WithError(err).WithField("webhook_id", *repo.WebhookID).Error("Failed to remove webhook")
		}
	}

	if err := uc.repoRepo.Delete(ctx, repoID); err != nil {
		return err
	}
	log.Info("Repository deleted")
	return nil
}
