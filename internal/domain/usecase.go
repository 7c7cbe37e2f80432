package domain

import (
	"context"

	"github.com/google/uuid"
)

// ReviewUseCase определяет бизнес-логику ревью пул-реквестов.
type ReviewUseCase interface {
	// ReviewPullRequest синхронно выполняет ревью и возвращает итоговое состояние.
	ReviewPullRequest(ctx context.Context, prID uuid.UUID) (*Review, error)
	// RequestReview создает ревью в статусе pending и ставит его в фоновую очередь.
	RequestReview(ctx context.Context, prID uuid.UUID) (*Review, error)
	// ScheduleFollowUp запрашивает ревью, а если ревью уже идет, повторяет запрос после его завершения.
	ScheduleFollowUp(ctx context.Context, prID uuid.UUID) error
	GetReview(ctx context.Context, reviewID uuid.UUID) (*Review, error)
	ListReviews(ctx context.Context, filter ReviewFilter) ([]*Review, int64, error)
	ListFindings(ctx context.Context, reviewID uuid.UUID, filter FindingFilter) (*FindingList, error)
	DeleteReview(ctx context.Context, reviewID uuid.UUID) error
}

// PRUseCase определяет бизнес-логику для работы с Pull Request'ами.
type PRUseCase interface {
	HandleEvent(ctx context.Context, event PullRequestEvent) (*PullRequest, error)
	SyncPullRequest(ctx context.Context, repoID uuid.UUID, number int) (*PullRequest, error)
	GetPullRequest(ctx context.Context, prID uuid.UUID) (*PullRequest, error)
	ListPullRequests(ctx context.Context, filter PRFilter) ([]*PullRequest, error)
	// SyncRepositoryPulls загружает с GitHub все PR репозитория в состоянии state и сохраняет их.
	SyncRepositoryPulls(ctx context.Context, repoID uuid.UUID, state string) (*SyncResult, error)
}

// RepoUseCase определяет бизнес-логику для работы с репозиториями.
type RepoUseCase interface {
	RegisterRepo(ctx context.Context, fullName string, installWebhook bool) (*Repo, error)
	ListRepos(ctx context.Context) ([]*Repo, error)
	GetRepo(ctx context.Context, repoID uuid.UUID) (*Repo, error)
	UpdateRepo(ctx context.Context, repoID uuid.UUID, update RepoUpdate) (*Repo, error)
	// DeleteRepo снимает вебхук и удаляет репозиторий со всеми данными.
	DeleteRepo(ctx context.Context, repoID uuid.UUID) error
}

// StatsUseCase определяет бизнес-логику для работы со статистикой.
type StatsUseCase interface {
	GetReviewStats(ctx context.Context) (*ReviewStats, error)
}
