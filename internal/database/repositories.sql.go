package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const repositoryColumns = `id, github_id, name, full_name, owner, is_active, webhook_id, created_at, updated_at`

func scanRepository(row interface{ Scan(...interface{}) error }) (Repository, error) {
	var i Repository
	err := row.Scan(
		&i.ID,
		&i.GithubID,
		&i.Name,
		&i.FullName,
		&i.Owner,
		&i.IsActive,
		&i.WebhookID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createRepository = `-- name: CreateRepository :one
INSERT INTO repositories (github_id, name, full_name, owner)
VALUES ($1, $2, $3, $4)
RETURNING ` + repositoryColumns

type CreateRepositoryParams struct {
	GithubID int64
	Name     string
	FullName string
	Owner    string
}

func (q *Queries) CreateRepository(ctx context.Context, arg CreateRepositoryParams) (Repository, error) {
	row := q.db.QueryRowContext(ctx, createRepository, arg.GithubID, arg.Name, arg.FullName, arg.Owner)
	return scanRepository(row)
}

const getRepositoryByID = `-- name: GetRepositoryByID :one
SELECT ` + repositoryColumns + ` FROM repositories WHERE id = $1`

func (q *Queries) GetRepositoryByID(ctx context.Context, id uuid.UUID) (Repository, error) {
	return scanRepository(q.db.QueryRowContext(ctx, getRepositoryByID, id))
}

const getRepositoryByGithubID = `-- name: GetRepositoryByGithubID :one
SELECT ` + repositoryColumns + ` FROM repositories WHERE github_id = $1`

func (q *Queries) GetRepositoryByGithubID(ctx context.Context, githubID int64) (Repository, error) {
	return scanRepository(q.db.QueryRowContext(ctx, getRepositoryByGithubID, githubID))
}

const repositoryExistsByGithubID = `-- name: RepositoryExistsByGithubID :one
SELECT COUNT(*) FROM repositories WHERE github_id = $1`

func (q *Queries) RepositoryExistsByGithubID(ctx context.Context, githubID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, repositoryExistsByGithubID, githubID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const setRepositoryWebhookID = `-- name: SetRepositoryWebhookID :execrows
UPDATE repositories SET webhook_id = $2, updated_at = NOW() WHERE id = $1`

type SetRepositoryWebhookIDParams struct {
	ID        uuid.UUID
	WebhookID sql.NullInt64
}

func (q *Queries) SetRepositoryWebhookID(ctx context.Context, arg SetRepositoryWebhookIDParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, setRepositoryWebhookID, arg.ID, arg.WebhookID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const setRepositoryActive = `-- name: SetRepositoryActive :one
UPDATE repositories SET is_active = $2, updated_at = NOW()
WHERE id = $1
RETURNING ` + repositoryColumns

type SetRepositoryActiveParams struct {
	ID       uuid.UUID
	IsActive bool
}

func (q *Queries) SetRepositoryActive(ctx context.Context, arg SetRepositoryActiveParams) (Repository, error) {
	return scanRepository(q.db.QueryRowContext(ctx, setRepositoryActive, arg.ID, arg.IsActive))
}

const deleteRepository = `-- name: DeleteRepository :execrows
DELETE FROM repositories WHERE id = $1`

func (q *Queries) DeleteRepository(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteRepository, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listRepositories = `-- name: ListRepositories :many
SELECT ` + repositoryColumns + ` FROM repositories ORDER BY full_name`

func (q *Queries) ListRepositories(ctx context.Context) ([]Repository, error) {
	rows, err := q.db.QueryContext(ctx, listRepositories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Repository
	for rows.Next() {
		i, err := scanRepository(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
