package database

import (
	"context"
	"database/sql"
)

const getReviewStats = `-- name: GetReviewStats :one
SELECT
    COUNT(*) AS total_reviews,
    COUNT(*) FILTER (WHERE status = 'pending') AS pending_reviews,
    COUNT(*) FILTER (WHERE status = 'in_progress') AS in_progress_reviews,
    COUNT(*) FILTER (WHERE status = 'completed') AS completed_reviews,
    COUNT(*) FILTER (WHERE status = 'failed') AS failed_reviews,
    AVG(overall_score) FILTER (WHERE status = 'completed')::float8 AS avg_score,
    COALESCE(SUM(critical_count) FILTER (WHERE status = 'completed'), 0)::bigint AS total_critical,
    COALESCE(SUM(warning_count) FILTER (WHERE status = 'completed'), 0)::bigint AS total_warning,
    COALESCE(SUM(info_count) FILTER (WHERE status = 'completed'), 0)::bigint AS total_info
FROM reviews`

type GetReviewStatsRow struct {
	TotalReviews      int64
	PendingReviews    int64
	InProgressReviews int64
	CompletedReviews  int64
	FailedReviews     int64
	AvgScore          sql.NullFloat64
	TotalCritical     int64
	TotalWarning      int64
	TotalInfo         int64
}

func (q *Queries) GetReviewStats(ctx context.Context) (GetReviewStatsRow, error) {
	row := q.db.QueryRowContext(ctx, getReviewStats)
	var i GetReviewStatsRow
	err := row.Scan(
		&i.TotalReviews,
		&i.PendingReviews,
		&i.InProgressReviews,
		&i.CompletedReviews,
		&i.FailedReviews,
		&i.AvgScore,
		&i.TotalCritical,
		&i.TotalWarning,
		&i.TotalInfo,
	)
	return i, err
}
