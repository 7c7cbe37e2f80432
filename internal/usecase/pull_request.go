package usecase

import (
	"context"
	"errors"
	"fmt"

	"code-review-service/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Действия события pull_request, которые обрабатывает сервис.
const (
	ActionOpened      = "opened"
	ActionReopened    = "reopened"
	ActionSynchronize = "synchronize"
	ActionClosed      = "closed"
)

// PRUseCase реализует бизнес-логику для работы с Pull Request'ами.
type PRUseCase struct {
	prRepo     domain.PRRepository
	repoRepo   domain.RepoRepository
	gateway    domain.GitHubGateway
	reviews    domain.ReviewUseCase
	autoReview bool
	logger     *logrus.Logger
}

// NewPRUseCase создает новый экземпляр PRUseCase.
func NewPRUseCase(
	prRepo domain.PRRepository,
	repoRepo domain.RepoRepository,
	gateway domain.GitHubGateway,
	reviews domain.ReviewUseCase,
	autoReview bool,
	logger *logrus.Logger,
) domain.PRUseCase {
	return &PRUseCase{
		prRepo:     prRepo,
		repoRepo:   repoRepo,
		gateway:    gateway,
		reviews:    reviews,
		autoReview: autoReview,
		logger:     logger,
	}
}

// HandleEvent применяет событие вебхука к сохраненному PR.
// Для необрабатываемых действий возвращает nil, nil.
func (uc *PRUseCase) HandleEvent(ctx context.Context, event domain.PullRequestEvent) (*domain.PullRequest, error) {
	if event.PullRequest.Number <= 0 {
		return nil, domain.ErrInvalidPRNumber
	}

	// 1. Репозиторий должен быть зарегистрирован и активен
	repo, err := uc.repoRepo.GetByGitHubID(ctx, event.RepoGitHubID)
	if err != nil {
		return nil, err
	}
	if !repo.IsActive {
		return nil, domain.ErrRepoInactive
	}

	pr := event.PullRequest
	pr.RepositoryID = repo.ID
	pr.RepoFullName = repo.FullName

	switch event.Action {
	case ActionOpened, ActionReopened, ActionSynchronize:
		pr.State = domain.PRStateOpen
		saved, err := uc.prRepo.Upsert(ctx, &pr)
		if err != nil {
			return nil, err
		}

		// 2. Автоматическое ревью в фоне; новый коммит во время ревью ставит повторное
		if uc.autoReview {
			uc.requestReview(ctx, saved, event.Action == ActionSynchronize)
		}
		return saved, nil

	case ActionClosed:
		state := domain.PRStateClosed
		if event.Merged {
			state = domain.PRStateMerged
		}

		existing, err := uc.prRepo.GetByNumber(ctx, repo.ID, pr.Number)
		switch {
		case err == nil:
			return uc.prRepo.UpdateState(ctx, existing.ID, state)
		case errors.Is(err, domain.ErrPRNotFound):
			pr.State = state
			return uc.prRepo.Upsert(ctx, &pr)
		default:
			return nil, err
		}
	}

	return nil, nil
}

func (uc *PRUseCase) requestReview(ctx context.Context, pr *domain.PullRequest, followUp bool) {
	log := uc.logger.WithFields(logrus.Fields{
		"pull_request_id": pr.ID,
		"repository":      pr.RepoFullName,
		"number":          pr.Number,
	})

	review, err := uc.reviews.RequestReview(ctx, pr.ID)
	switch {
	case errors.Is(err, domain.ErrReviewInProgress) && followUp:
		if err := uc.reviews.ScheduleFollowUp(ctx, pr.ID); err != nil {
			log.WithError(err).Error("Failed to schedule follow-up review")
			return
		}
		log.Info("Review in progress, follow-up review scheduled")
	case errors.Is(err, domain.ErrReviewInProgress):
		log.Info("Review already in progress, skipping")
	case err != nil:
		log.WithError(err).Error("Failed to request review")
	default:
		log.WithField("review_id", review.ID).Info("Review queued")
	}
}

// SyncPullRequest загружает PR из GitHub и сохраняет его.
func (uc *PRUseCase) SyncPullRequest(ctx context.Context, repoID uuid.UUID, number int) (*domain.PullRequest, error) {
	if number <= 0 {
		return nil, domain.ErrInvalidPRNumber
	}

	repo, err := uc.repoRepo.GetByID(ctx, repoID)
	if err != nil {
		return nil, err
	}

	remote, err := uc.gateway.GetPullRequest(ctx, repo.FullName, number)
	if err != nil {
		return nil, err
	}
	remote.RepositoryID = repo.ID

	return uc.prRepo.Upsert(ctx, remote)
}

// SyncRepositoryPulls загружает PR репозитория с GitHub и сохраняет каждый из них.
func (uc *PRUseCase) SyncRepositoryPulls(ctx context.Context, repoID uuid.UUID, state string) (*domain.SyncResult, error) {
	switch state {
	case "":
		state = domain.SyncStateOpen
	case domain.SyncStateOpen, domain.SyncStateClosed, domain.SyncStateAll:
	default:
		return nil, domain.ErrInvalidSyncState
	}

	repo, err := uc.repoRepo.GetByID(ctx, repoID)
	if err != nil {
		return nil, err
	}

	remote, err := uc.gateway.ListPullRequests(ctx, repo.FullName, state)
	if err != nil {
		return nil, err
	}

	result := &domain.SyncResult{Total: len(remote)}
	for _, pr := range remote {
		_, err := uc.prRepo.GetByNumber(ctx, repo.ID, pr.Number)
		switch {
		case err == nil:
			result.Updated++
		case errors.Is(err, domain.ErrPRNotFound):
			result.Created++
		default:
			return nil, err
		}

		pr.RepositoryID = repo.ID
		if _, err := uc.prRepo.Upsert(ctx, pr); err != nil {
			return nil, fmt.Errorf("failed to store pull request #%d: %w", pr.Number, err)
		}
	}

	uc.logger.WithFields(logrus.Fields{
		"repository": repo.FullName,
		"state":      state,
		"created":    result.Created,
		"updated":    result.Updated,
	}).Info("Pull requests synced")

	return result, nil
}

func (uc *PRUseCase) GetPullRequest(ctx context.Context, prID uuid.UUID) (*domain.PullRequest, error) {
	return uc.prRepo.GetByID(ctx, prID)
}

// ListPullRequests возвращает PR по фильтру, новые сверху.
func (uc *PRUseCase) ListPullRequests(ctx context.Context, filter domain.PRFilter) ([]*domain.PullRequest, error) {
	if filter.State != nil {
		switch *filter.State {
		case domain.PRStateOpen, domain.PRStateClosed, domain.PRStateMerged:
		default:
			return nil, domain.ErrInvalidPRState
		}
	}

	limit, err := pageLimit(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	filter.Limit = limit

	return uc.prRepo.List(ctx, filter)
}
