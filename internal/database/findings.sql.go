package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// FindingColumns перечисляет колонки таблицы findings в порядке ScanFinding.
const FindingColumns = `id, review_id, category, severity, title, description, file_path, line_number,
code_snippet, suggestion, tool_source, created_at`

// ScanFinding читает строку, выбранную по FindingColumns.
func ScanFinding(row interface{ Scan(...interface{}) error }) (Finding, error) {
	var i Finding
	err := row.Scan(
		&i.ID,
		&i.ReviewID,
		&i.Category,
		&i.Severity,
		&i.Title,
		&i.Description,
		&i.FilePath,
		&i.LineNumber,
		&i.CodeSnippet,
		&i.Suggestion,
		&i.ToolSource,
		&i.CreatedAt,
	)
	return i, err
}

const createFinding = `-- name: CreateFinding :one
INSERT INTO findings (
    review_id, category, severity, title, description,
    file_path, line_number, code_snippet, suggestion, tool_source
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + FindingColumns

type CreateFindingParams struct {
	ReviewID    uuid.UUID
	Category    string
	Severity    string
	Title       string
	Description string
	FilePath    sql.NullString
	LineNumber  sql.NullInt32
	CodeSnippet sql.NullString
	Suggestion  sql.NullString
	ToolSource  string
}

func (q *Queries) CreateFinding(ctx context.Context, arg CreateFindingParams) (Finding, error) {
	row := q.db.QueryRowContext(ctx, createFinding,
		arg.ReviewID,
		arg.Category,
		arg.Severity,
		arg.Title,
		arg.Description,
		arg.FilePath,
		arg.LineNumber,
		arg.CodeSnippet,
		arg.Suggestion,
		arg.ToolSource,
	)
	return ScanFinding(row)
}

const countFindingsBySeverity = `-- name: CountFindingsBySeverity :many
SELECT severity, COUNT(*) FROM findings
WHERE review_id = $1
GROUP BY severity`

type CountFindingsBySeverityRow struct {
	Severity string
	Count    int64
}

func (q *Queries) CountFindingsBySeverity(ctx context.Context, reviewID uuid.UUID) ([]CountFindingsBySeverityRow, error) {
	rows, err := q.db.QueryContext(ctx, countFindingsBySeverity, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CountFindingsBySeverityRow
	for rows.Next() {
		var i CountFindingsBySeverityRow
		if err := rows.Scan(&i.Severity, &i.Count); err != nil {
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
