package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"code-review-service/internal/database"
	"code-review-service/internal/domain"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// ReviewRepository реализует хранение ревью и их находок в PostgreSQL.
type ReviewRepository struct {
	db      *sql.DB
	queries *database.Queries
	builder squirrel.StatementBuilderType
}

// NewReviewRepository создает новый экземпляр ReviewRepository.
func NewReviewRepository(db *sql.DB, queries *database.Queries) domain.ReviewRepository {
	return &ReviewRepository{
		db:      db,
		queries: queries,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreatePending создает ревью в статусе pending под advisory-блокировкой PR.
func (r *ReviewRepository) CreatePending(ctx context.Context, prID uuid.UUID, lease time.Duration) (*domain.Review, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txQueries := r.queries.WithTx(tx)

	if err = txQueries.LockPullRequestReviews(ctx, prID); err != nil {
		return nil, fmt.Errorf("failed to lock pull request reviews: %w", err)
	}

	// Ревью, превысившие lease, больше не блокируют PR
	leaseStart := time.Now().Add(-lease)
	if _, err = txQueries.ExpireReviews(ctx, database.ExpireReviewsParams{
		PullRequestID: prID,
		StartedBefore: leaseStart,
	}); err != nil {
		return nil, fmt.Errorf("failed to expire reviews: %w", err)
	}

	active, err := txQueries.CountActiveReviews(ctx, database.CountActiveReviewsParams{
		PullRequestID: prID,
		StartedAfter:  leaseStart,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count active reviews: %w", err)
	}
	if active > 0 {
		err = domain.ErrReviewInProgress
		return nil, err
	}

	dbReview, err := txQueries.CreateReview(ctx, prID)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return toDomainReview(dbReview)
}

// MarkInProgress переводит ревью из pending в in_progress.
func (r *ReviewRepository) MarkInProgress(ctx context.Context, reviewID uuid.UUID, startedAt time.Time) error {
	affected, err := r.queries.MarkReviewInProgress(ctx, database.MarkReviewInProgressParams{
		ID:        reviewID,
		StartedAt: startedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to mark review in progress: %w", err)
	}
	if affected == 0 {
		return domain.ErrReviewNotActive
	}
	return nil
}

// Complete в одной транзакции сохраняет находки и финальное состояние ревью.
func (r *ReviewRepository) Complete(ctx context.Context, review *domain.Review, findings []*domain.Finding) error {
	toolErrors, err := marshalToolErrors(review.ToolErrors)
	if err != nil {
		return fmt.Errorf("failed to encode tool errors: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txQueries := r.queries.WithTx(tx)

	for _, f := range findings {
		var created database.Finding
		created, err = txQueries.CreateFinding(ctx, database.CreateFindingParams{
			ReviewID:    review.ID,
			Category:    string(f.Category),
			Severity:    string(f.Severity),
			Title:       f.Title,
			Description: f.Description,
			FilePath:    nullString(f.FilePath),
			LineNumber:  nullInt32(f.LineNumber),
			CodeSnippet: nullString(f.CodeSnippet),
			Suggestion:  nullString(f.Suggestion),
			ToolSource:  f.ToolSource,
		})
		if err != nil {
			return fmt.Errorf("failed to create finding: %w", err)
		}
		f.ID = created.ID
		f.ReviewID = created.ReviewID
		f.CreatedAt = created.CreatedAt
	}

	affected, err := txQueries.CompleteReview(ctx, database.CompleteReviewParams{
		ID:            review.ID,
		OverallScore:  nullInt32(review.OverallScore),
		Summary:       nullString(review.Summary),
		CriticalCount: int32(review.CriticalCount),
		WarningCount:  int32(review.WarningCount),
		InfoCount:     int32(review.InfoCount),
		ToolErrors:    toolErrors,
		CompletedAt:   nullTime(review.CompletedAt),
	})
	if err != nil {
		return fmt.Errorf("failed to complete review: %w", err)
	}
	if affected == 0 {
		err = domain.ErrReviewNotActive
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// MarkFailed переводит ревью в failed, сохраняя ошибки анализаторов.
func (r *ReviewRepository) MarkFailed(ctx context.Context, review *domain.Review) error {
	toolErrors, err := marshalToolErrors(review.ToolErrors)
	if err != nil {
		return fmt.Errorf("failed to encode tool errors: %w", err)
	}

	affected, err := r.queries.FailReview(ctx, database.FailReviewParams{
		ID:          review.ID,
		ToolErrors:  toolErrors,
		CompletedAt: nullTime(review.CompletedAt),
	})
	if err != nil {
		return fmt.Errorf("failed to mark review failed: %w", err)
	}
	if affected == 0 {
		return domain.ErrReviewNotActive
	}
	return nil
}

// GetByID возвращает ревью по ID.
func (r *ReviewRepository) GetByID(ctx context.Context, reviewID uuid.UUID) (*domain.Review, error) {
	dbReview, err := r.queries.GetReviewByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	review, err := toDomainReview(dbReview)
	if err != nil {
		return nil, fmt.Errorf("failed to decode review: %w", err)
	}
	return review, nil
}

// List возвращает страницу ревью (новые первыми) и общее количество по фильтру.
func (r *ReviewRepository) List(ctx context.Context, filter domain.ReviewFilter) ([]*domain.Review, int64, error) {
	where := squirrel.Eq{}
	if filter.Status != nil {
		where["status"] = string(*filter.Status)
	}
	if filter.PullRequestID != nil {
		where["pull_request_id"] = *filter.PullRequestID
	}

	total, err := r.count(ctx, "reviews", where)
	if err != nil {
		return nil, 0, err
	}

	q := r.builder.Select(database.ReviewColumns).
		From("reviews").
		Where(where).
		OrderBy("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list reviews query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*domain.Review, 0)
	for rows.Next() {
		dbReview, err := database.ScanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		review, err := toDomainReview(dbReview)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decode review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate reviews: %w", err)
	}

	return reviews, total, nil
}

// Delete удаляет ревью; находки удаляются каскадно.
func (r *ReviewRepository) Delete(ctx context.Context, reviewID uuid.UUID) error {
	affected, err := r.queries.DeleteReview(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if affected == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

// FailStale помечает failed ревью в pending/in_progress, начатые (или созданные) до olderThan.
func (r *ReviewRepository) FailStale(ctx context.Context, olderThan time.Time) (int64, error) {
	affected, err := r.queries.FailStaleReviews(ctx, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to fail stale reviews: %w", err)
	}
	return affected, nil
}

func (r *ReviewRepository) count(ctx context.Context, table string, where squirrel.Eq) (int64, error) {
	query, args, err := r.builder.Select("COUNT(*)").From(table).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return total, nil
}
