package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"code-review-service/internal/database"
	"code-review-service/internal/domain"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// PRRepository реализует взаимодействие с данными Pull Request'ов в PostgreSQL.
type PRRepository struct {
	db      *sql.DB
	queries *database.Queries
	builder squirrel.StatementBuilderType
}

// NewPRRepository создает новый экземпляр PRRepository.
func NewPRRepository(db *sql.DB, queries *database.Queries) domain.PRRepository {
	return &PRRepository{
		db:      db,
		queries: queries,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert создает PR или обновляет существующий по паре (repository_id, number).
func (r *PRRepository) Upsert(ctx context.Context, pr *domain.PullRequest) (*domain.PullRequest, error) {
	row, err := r.queries.UpsertPullRequest(ctx, database.UpsertPullRequestParams{
		RepositoryID: pr.RepositoryID,
		PrNumber:     int32(pr.Number),
		Title:        pr.Title,
		Description:  nullString(pr.Description),
		Author:       nullString(pr.Author),
		State:        pr.State,
		BaseBranch:   nullString(pr.BaseBranch),
		HeadBranch:   nullString(pr.HeadBranch),
		FilesChanged: int32(pr.FilesChanged),
		Additions:    int32(pr.Additions),
		Deletions:    int32(pr.Deletions),
		HtmlUrl:      nullString(pr.HTMLURL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert PR: %w", err)
	}
	return toDomainPR(row), nil
}

// GetByID возвращает PR по ID.
func (r *PRRepository) GetByID(ctx context.Context, prID uuid.UUID) (*domain.PullRequest, error) {
	row, err := r.queries.GetPullRequestByID(ctx, prID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPRNotFound
		}
		return nil, fmt.Errorf("failed to get PR: %w", err)
	}
	return toDomainPR(row), nil
}

// GetByNumber возвращает PR репозитория по номеру на GitHub.
func (r *PRRepository) GetByNumber(ctx context.Context, repoID uuid.UUID, number int) (*domain.PullRequest, error) {
	row, err := r.queries.GetPullRequestByNumber(ctx, database.GetPullRequestByNumberParams{
		RepositoryID: repoID,
		PrNumber:     int32(number),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPRNotFound
		}
		return nil, fmt.Errorf("failed to get PR by number: %w", err)
	}
	return toDomainPR(row), nil
}

// UpdateState изменяет состояние PR (open, closed, merged).
func (r *PRRepository) UpdateState(ctx context.Context, prID uuid.UUID, state string) (*domain.PullRequest, error) {
	row, err := r.queries.UpdatePullRequestState(ctx, database.UpdatePullRequestStateParams{
		ID:    prID,
		State: state,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPRNotFound
		}
		return nil, fmt.Errorf("failed to update PR state: %w", err)
	}
	return toDomainPR(row), nil
}

// List возвращает PR по фильтру, свежие первыми.
func (r *PRRepository) List(ctx context.Context, filter domain.PRFilter) ([]*domain.PullRequest, error) {
	q := r.builder.Select(database.PullRequestColumns).
		From("pull_requests pr").
		Join("repositories r ON r.id = pr.repository_id").
		OrderBy("pr.updated_at DESC")

	if filter.RepositoryID != nil {
		q = q.Where(squirrel.Eq{"pr.repository_id": *filter.RepositoryID})
	}
	if filter.State != nil {
		q = q.Where(squirrel.Eq{"pr.state": *filter.State})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list PRs query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list PRs: %w", err)
	}
	defer rows.Close()

	prs := make([]*domain.PullRequest, 0)
	for rows.Next() {
		row, err := database.ScanPullRequestRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan PR: %w", err)
		}
		prs = append(prs, toDomainPR(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate PRs: %w", err)
	}

	return prs, nil
}
