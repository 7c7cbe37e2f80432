package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ReviewColumns перечисляет колонки таблицы reviews в порядке ScanReview.
const ReviewColumns = `id, pull_request_id, status, overall_score, summary, critical_count, warning_count,
info_count, tool_errors, started_at, completed_at, created_at`

// ScanReview читает строку, выбранную по ReviewColumns.
func ScanReview(row interface{ Scan(...interface{}) error }) (Review, error) {
	var i Review
	err := row.Scan(
		&i.ID,
		&i.PullRequestID,
		&i.Status,
		&i.OverallScore,
		&i.Summary,
		&i.CriticalCount,
		&i.WarningCount,
		&i.InfoCount,
		&i.ToolErrors,
		&i.StartedAt,
		&i.CompletedAt,
		&i.CreatedAt,
	)
	return i, err
}

const lockPullRequestReviews = `-- name: LockPullRequestReviews :exec
SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`

// LockPullRequestReviews сериализует создание ревью одного PR до конца транзакции.
func (q *Queries) LockPullRequestReviews(ctx context.Context, pullRequestID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, lockPullRequestReviews, pullRequestID)
	return err
}

const expireReviews = `-- name: ExpireReviews :execrows
UPDATE reviews SET
    status = 'failed',
    tool_errors = '[{"tool":"review","error":"review lease expired"}]'::jsonb,
    completed_at = NOW()
WHERE pull_request_id = $1
  AND status = 'in_progress'
  AND COALESCE(started_at, created_at) <= $2`

type ExpireReviewsParams struct {
	PullRequestID uuid.UUID
	StartedBefore time.Time
}

func (q *Queries) ExpireReviews(ctx context.Context, arg ExpireReviewsParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, expireReviews, arg.PullRequestID, arg.StartedBefore)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countActiveReviews = `-- name: CountActiveReviews :one
SELECT COUNT(*) FROM reviews
WHERE pull_request_id = $1
  AND (status = 'pending'
    OR (status = 'in_progress' AND COALESCE(started_at, created_at) > $2))`

type CountActiveReviewsParams struct {
	PullRequestID uuid.UUID
	StartedAfter  time.Time
}

func (q *Queries) CountActiveReviews(ctx context.Context, arg CountActiveReviewsParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countActiveReviews, arg.PullRequestID, arg.StartedAfter)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createReview = `-- name: CreateReview :one
INSERT INTO reviews (pull_request_id, status)
VALUES ($1, 'pending')
RETURNING ` + ReviewColumns

func (q *Queries) CreateReview(ctx context.Context, pullRequestID uuid.UUID) (Review, error) {
	return ScanReview(q.db.QueryRowContext(ctx, createReview, pullRequestID))
}

const markReviewInProgress = `-- name: MarkReviewInProgress :execrows
UPDATE reviews SET status = 'in_progress', started_at = $2
WHERE id = $1 AND status = 'pending'`

type MarkReviewInProgressParams struct {
	ID        uuid.UUID
	StartedAt time.Time
}

func (q *Queries) MarkReviewInProgress(ctx context.Context, arg MarkReviewInProgressParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, markReviewInProgress, arg.ID, arg.StartedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const completeReview = `-- name: CompleteReview :execrows
UPDATE reviews SET
    status = 'completed',
    overall_score = $2,
    summary = $3,
    critical_count = $4,
    warning_count = $5,
    info_count = $6,
    tool_errors = $7,
    completed_at = $8
WHERE id = $1 AND status = 'in_progress'`

type CompleteReviewParams struct {
	ID            uuid.UUID
	OverallScore  sql.NullInt32
	Summary       sql.NullString
	CriticalCount int32
	WarningCount  int32
	InfoCount     int32
	ToolErrors    []byte
	CompletedAt   sql.NullTime
}

func (q *Queries) CompleteReview(ctx context.Context, arg CompleteReviewParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, completeReview,
		arg.ID,
		arg.OverallScore,
		arg.Summary,
		arg.CriticalCount,
		arg.WarningCount,
		arg.InfoCount,
		arg.ToolErrors,
		arg.CompletedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const failReview = `-- name: FailReview :execrows
UPDATE reviews SET status = 'failed', tool_errors = $2, completed_at = $3
WHERE id = $1 AND status IN ('pending', 'in_progress')`

type FailReviewParams struct {
	ID          uuid.UUID
	ToolErrors  []byte
	CompletedAt sql.NullTime
}

func (q *Queries) FailReview(ctx context.Context, arg FailReviewParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, failReview, arg.ID, arg.ToolErrors, arg.CompletedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getReviewByID = `-- name: GetReviewByID :one
SELECT ` + ReviewColumns + ` FROM reviews WHERE id = $1`

func (q *Queries) GetReviewByID(ctx context.Context, id uuid.UUID) (Review, error) {
	return ScanReview(q.db.QueryRowContext(ctx, getReviewByID, id))
}

const deleteReview = `-- name: DeleteReview :execrows
DELETE FROM reviews WHERE id = $1`

func (q *Queries) DeleteReview(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteReview, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const failStaleReviews = `-- name: FailStaleReviews :execrows
UPDATE reviews SET status = 'failed', completed_at = NOW()
WHERE status IN ('pending', 'in_progress') AND COALESCE(started_at, created_at) < $1`

func (q *Queries) FailStaleReviews(ctx context.Context, startedBefore time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, failStaleReviews, startedBefore)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
