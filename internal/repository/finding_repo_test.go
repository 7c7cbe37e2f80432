package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"code-review-service/internal/database"
	"code-review-service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var findingRowColumns = []string{
	"id", "review_id", "category", "severity", "title", "description", "file_path", "line_number",
	"code_snippet", "suggestion", "tool_source", "created_at",
}

func TestFindingRepository_ListByReview(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFindingRepository(db, database.New(db))
	reviewID := uuid.New()
	findingID := uuid.New()
	severity := domain.SeverityCritical
	category := domain.CategorySecurity

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM findings WHERE category = \$1 AND review_id = \$2 AND severity = \$3`).
		WithArgs("security", reviewID, "critical").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT .+ FROM findings WHERE category = \$1 AND review_id = \$2 AND severity = \$3 ORDER BY CASE severity`).
		WithArgs("security", reviewID, "critical").
		WillReturnRows(sqlmock.NewRows(findingRowColumns).AddRow(
			findingID.String(), reviewID.String(), "security", "critical", "B602", "shell=True",
			"run.py", 12, "subprocess.call(cmd, shell=True)", "Avoid shell=True", "bandit", time.Now(),
		))

	findings, total, err := repo.ListByReview(context.Background(), reviewID, domain.FindingFilter{
		Severity: &severity,
		Category: &category,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, findings, 1)
	assert.Equal(t, findingID, findings[0].ID)
	require.NotNil(t, findings[0].LineNumber)
	assert.Equal(t, 12, *findings[0].LineNumber)
	assert.Equal(t, "run.py", *findings[0].FilePath)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindingRepository_ListByReview_CountError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFindingRepository(db, database.New(db))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM findings`).WillReturnError(errors.New("connection reset"))

	findings, total, err := repo.ListByReview(context.Background(), uuid.New(), domain.FindingFilter{})

	assert.Error(t, err)
	assert.Nil(t, findings)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindingRepository_CountBySeverity(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFindingRepository(db, database.New(db))
	reviewID := uuid.New()

	mock.ExpectQuery("SELECT severity, COUNT").
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows([]string{"severity", "count"}).
			AddRow("critical", 2).
			AddRow("info", 5))

	counts, err := repo.CountBySeverity(context.Background(), reviewID)

	require.NoError(t, err)
	assert.Equal(t, domain.SeverityCounts{Critical: 2, Warning: 0, Info: 5}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
