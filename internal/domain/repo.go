package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repo представляет отслеживаемый репозиторий GitHub.
type Repo struct {
	ID        uuid.UUID
	GitHubID  int64
	Name      string
	FullName  string
	Owner     string
	IsActive  bool
	WebhookID *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RepoRepository определяет контракт для работы с хранилищем репозиториев.
type RepoRepository interface {
	Create(ctx context.Context, repo *Repo) (*Repo, error)
	GetByID(ctx context.Context, repoID uuid.UUID) (*Repo, error)
	GetByGitHubID(ctx context.Context, githubID int64) (*Repo, error)
	ExistsByGitHubID(ctx context.Context, githubID int64) (bool, error)
	SetWebhookID(ctx context.Context, repoID uuid.UUID, webhookID int64) error
	SetActive(ctx context.Context, repoID uuid.UUID, active bool) (*Repo, error)
	// Delete удаляет репозиторий вместе с его PR, ревью и находками.
	Delete(ctx context.Context, repoID uuid.UUID) error
	List(ctx context.Context) ([]*Repo, error)
}

// RepoUpdate содержит изменяемые поля репозитория; nil означает "не менять".
type RepoUpdate struct {
	IsActive *bool
}
