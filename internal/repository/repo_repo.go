package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"code-review-service/internal/database"
	"code-review-service/internal/domain"

	"github.com/google/uuid"
)

// RepoRepository реализует хранение отслеживаемых репозиториев.
type RepoRepository struct {
	queries *database.Queries
}

// NewRepoRepository создает новый экземпляр RepoRepository.
func NewRepoRepository(queries *database.Queries) domain.RepoRepository {
	return &RepoRepository{
		queries: queries,
	}
}

// Create регистрирует репозиторий. Повторная регистрация возвращает ErrRepoAlreadyExists.
func (r *RepoRepository) Create(ctx context.Context, repo *domain.Repo) (*domain.Repo, error) {
	dbRepo, err := r.queries.CreateRepository(ctx, database.CreateRepositoryParams{
		GithubID: repo.GitHubID,
		Name:     repo.Name,
		FullName: repo.FullName,
		Owner:    repo.Owner,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrRepoAlreadyExists
		}
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}
	return toDomainRepo(dbRepo), nil
}

// GetByID возвращает репозиторий по ID.
func (r *RepoRepository) GetByID(ctx context.Context, repoID uuid.UUID) (*domain.Repo, error) {
	dbRepo, err := r.queries.GetRepositoryByID(ctx, repoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRepoNotFound
		}
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	return toDomainRepo(dbRepo), nil
}

// GetByGitHubID возвращает репозиторий по его числовому ID на GitHub.
func (r *RepoRepository) GetByGitHubID(ctx context.Context, githubID int64) (*domain.Repo, error) {
	dbRepo, err := r.queries.GetRepositoryByGithubID(ctx, githubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRepoNotFound
		}
		return nil, fmt.Errorf("failed to get repository by github id: %w", err)
	}
	return toDomainRepo(dbRepo), nil
}

func (r *RepoRepository) ExistsByGitHubID(ctx context.Context, githubID int64) (bool, error) {
	count, err := r.queries.RepositoryExistsByGithubID(ctx, githubID)
	if err != nil {
		return false, fmt.Errorf("failed to check repository exists: %w", err)
	}
	return count > 0, nil
}

// SetWebhookID запоминает ID установленного вебхука.
func (r *RepoRepository) SetWebhookID(ctx context.Context, repoID uuid.UUID, webhookID int64) error {
	affected, err := r.queries.SetRepositoryWebhookID(ctx, database.SetRepositoryWebhookIDParams{
		ID:        repoID,
		WebhookID: sql.NullInt64{Int64: webhookID, Valid: true},
	})
	if err != nil {
		return fmt.Errorf("failed to set webhook id: %w", err)
	}
	if affected == 0 {
		return domain.ErrRepoNotFound
	}
	return nil
}

// SetActive включает или выключает отслеживание репозитория.
func (r *RepoRepository) SetActive(ctx context.Context, repoID uuid.UUID, active bool) (*domain.Repo, error) {
	dbRepo, err := r.queries.SetRepositoryActive(ctx, database.SetRepositoryActiveParams{
		ID:       repoID,
		IsActive: active,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRepoNotFound
		}
		return nil, fmt.Errorf("failed to update repository: %w", err)
	}
	return toDomainRepo(dbRepo), nil
}

func (r *RepoRepository) Delete(ctx context.Context, repoID uuid.UUID) error {
	affected, err := r.queries.DeleteRepository(ctx, repoID)
	if err != nil {
		return fmt.Errorf("failed to delete repository: %w", err)
	}
	if affected == 0 {
		return domain.ErrRepoNotFound
	}
	return nil
}

// List возвращает все репозитории по алфавиту.
func (r *RepoRepository) List(ctx context.Context) ([]*domain.Repo, error) {
	dbRepos, err := r.queries.ListRepositories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	repos := make([]*domain.Repo, 0, len(dbRepos))
	for _, dbRepo := range dbRepos {
		repos = append(repos, toDomainRepo(dbRepo))
	}
	return repos, nil
}
