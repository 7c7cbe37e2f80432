package repository

import (
	"context"
	"database/sql"
	"fmt"

	"code-review-service/internal/database"
	"code-review-service/internal/domain"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// Находки сортируются от critical к info, затем по файлу и строке.
const findingOrder = `CASE severity WHEN 'critical' THEN 0 WHEN 'warning' THEN 1 ELSE 2 END, file_path NULLS LAST, line_number NULLS LAST, created_at`

// FindingRepository реализует чтение находок ревью.
type FindingRepository struct {
	db      *sql.DB
	queries *database.Queries
	builder squirrel.StatementBuilderType
}

// NewFindingRepository создает новый экземпляр FindingRepository.
func NewFindingRepository(db *sql.DB, queries *database.Queries) domain.FindingRepository {
	return &FindingRepository{
		db:      db,
		queries: queries,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListByReview возвращает страницу находок ревью и их общее количество по фильтру.
func (r *FindingRepository) ListByReview(ctx context.Context, reviewID uuid.UUID, filter domain.FindingFilter) ([]*domain.Finding, int64, error) {
	where := squirrel.Eq{"review_id": reviewID}
	if filter.Severity != nil {
		where["severity"] = string(*filter.Severity)
	}
	if filter.Category != nil {
		where["category"] = string(*filter.Category)
	}

	countQuery, countArgs, err := r.builder.Select("COUNT(*)").From("findings").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count findings query: %w", err)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count findings: %w", err)
	}

	q := r.builder.Select(database.FindingColumns).
		From("findings").
		Where(where).
		OrderBy(findingOrder)
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list findings query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list findings: %w", err)
	}
	defer rows.Close()

	findings := make([]*domain.Finding, 0)
	for rows.Next() {
		f, err := database.ScanFinding(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan finding: %w", err)
		}
		findings = append(findings, toDomainFinding(f))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate findings: %w", err)
	}

	return findings, total, nil
}

// CountBySeverity возвращает количество всех находок ревью по уровням.
func (r *FindingRepository) CountBySeverity(ctx context.Context, reviewID uuid.UUID) (domain.SeverityCounts, error) {
	rows, err := r.queries.CountFindingsBySeverity(ctx, reviewID)
	if err != nil {
		return domain.SeverityCounts{}, fmt.Errorf("failed to count findings by severity: %w", err)
	}

	var counts domain.SeverityCounts
	for _, row := range rows {
		switch domain.Severity(row.Severity) {
		case domain.SeverityCritical:
			counts.Critical = int(row.Count)
		case domain.SeverityWarning:
			counts.Warning = int(row.Count)
		case domain.SeverityInfo:
			counts.Info = int(row.Count)
		}
	}
	return counts, nil
}
