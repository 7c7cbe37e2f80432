package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// PullRequestColumns перечисляет колонки pull_requests с полным именем репозитория.
// Запросы с этим списком обязаны делать JOIN repositories r.
const PullRequestColumns = `pr.id, pr.repository_id, pr.pr_number, pr.title, pr.description, pr.author, pr.state,
pr.base_branch, pr.head_branch, pr.files_changed, pr.additions, pr.deletions, pr.html_url,
pr.created_at, pr.updated_at, r.full_name`

// PullRequestRow содержит пул-реквест вместе с full_name репозитория.
type PullRequestRow struct {
	PullRequest
	RepoFullName string
}

// ScanPullRequestRow читает строку, выбранную по PullRequestColumns.
func ScanPullRequestRow(row interface{ Scan(...interface{}) error }) (PullRequestRow, error) {
	var i PullRequestRow
	err := row.Scan(
		&i.ID,
		&i.RepositoryID,
		&i.PrNumber,
		&i.Title,
		&i.Description,
		&i.Author,
		&i.State,
		&i.BaseBranch,
		&i.HeadBranch,
		&i.FilesChanged,
		&i.Additions,
		&i.Deletions,
		&i.HtmlUrl,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.RepoFullName,
	)
	return i, err
}

const upsertPullRequest = `-- name: UpsertPullRequest :one
WITH upserted AS (
    INSERT INTO pull_requests (
        repository_id, pr_number, title, description, author, state,
        base_branch, head_branch, files_changed, additions, deletions, html_url
    )
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    ON CONFLICT (repository_id, pr_number) DO UPDATE SET
        title = EXCLUDED.title,
        description = EXCLUDED.description,
        author = EXCLUDED.author,
        state = EXCLUDED.state,
        base_branch = EXCLUDED.base_branch,
        head_branch = EXCLUDED.head_branch,
        files_changed = EXCLUDED.files_changed,
        additions = EXCLUDED.additions,
        deletions = EXCLUDED.deletions,
        html_url = EXCLUDED.html_url,
        updated_at = NOW()
    RETURNING *
)
SELECT ` + PullRequestColumns + `
FROM upserted pr
JOIN repositories r ON r.id = pr.repository_id`

type UpsertPullRequestParams struct {
	RepositoryID uuid.UUID
	PrNumber     int32
	Title        string
	Description  sql.NullString
	Author       sql.NullString
	State        string
	BaseBranch   sql.NullString
	HeadBranch   sql.NullString
	FilesChanged int32
	Additions    int32
	Deletions    int32
	HtmlUrl      sql.NullString
}

func (q *Queries) UpsertPullRequest(ctx context.Context, arg UpsertPullRequestParams) (PullRequestRow, error) {
	row := q.db.QueryRowContext(ctx, upsertPullRequest,
		arg.RepositoryID,
		arg.PrNumber,
		arg.Title,
		arg.Description,
		arg.Author,
		arg.State,
		arg.BaseBranch,
		arg.HeadBranch,
		arg.FilesChanged,
		arg.Additions,
		arg.Deletions,
		arg.HtmlUrl,
	)
	return ScanPullRequestRow(row)
}

const getPullRequestByID = `-- name: GetPullRequestByID :one
SELECT ` + PullRequestColumns + `
FROM pull_requests pr
JOIN repositories r ON r.id = pr.repository_id
WHERE pr.id = $1`

func (q *Queries) GetPullRequestByID(ctx context.Context, id uuid.UUID) (PullRequestRow, error) {
	return ScanPullRequestRow(q.db.QueryRowContext(ctx, getPullRequestByID, id))
}

const getPullRequestByNumber = `-- name: GetPullRequestByNumber :one
SELECT ` + PullRequestColumns + `
FROM pull_requests pr
JOIN repositories r ON r.id = pr.repository_id
WHERE pr.repository_id = $1 AND pr.pr_number = $2`

type GetPullRequestByNumberParams struct {
	RepositoryID uuid.UUID
	PrNumber     int32
}

func (q *Queries) GetPullRequestByNumber(ctx context.Context, arg GetPullRequestByNumberParams) (PullRequestRow, error) {
	return ScanPullRequestRow(q.db.QueryRowContext(ctx, getPullRequestByNumber, arg.RepositoryID, arg.PrNumber))
}

const updatePullRequestState = `-- name: UpdatePullRequestState :one
WITH updated AS (
    UPDATE pull_requests SET state = $2, updated_at = NOW()
    WHERE id = $1
    RETURNING *
)
SELECT ` + PullRequestColumns + `
FROM updated pr
JOIN repositories r ON r.id = pr.repository_id`

type UpdatePullRequestStateParams struct {
	ID    uuid.UUID
	State string
}

func (q *Queries) UpdatePullRequestState(ctx context.Context, arg UpdatePullRequestStateParams) (PullRequestRow, error) {
	return ScanPullRequestRow(q.db.QueryRowContext(ctx, updatePullRequestState, arg.ID, arg.State))
}
