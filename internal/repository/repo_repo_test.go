package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"code-review-service/internal/database"
	"code-review-service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var repoRowColumns = []string{
	"id", "github_id", "name", "full_name", "owner", "is_active", "webhook_id", "created_at", "updated_at",
}

func TestRepoRepository_SetActive(t *testing.T) {
	ctx := context.Background()
	repoID := uuid.New()
	now := time.Now()

	t.Run("updates flag", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepoRepository(database.New(db))

		mock.ExpectQuery(`UPDATE repositories SET is_active = \$2`).
			WithArgs(repoID, false).
			WillReturnRows(sqlmock.NewRows(repoRowColumns).AddRow(
				repoID.String(), 42, "app", "octo/app", "octo", false, 7, now, now,
			))

		got, err := repo.SetActive(ctx, repoID, false)

		require.NoError(t, err)
		assert.False(t, got.IsActive)
		assert.Equal(t, "octo/app", got.FullName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown repository", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepoRepository(database.New(db))

		mock.ExpectQuery(`UPDATE repositories SET is_active`).
			WithArgs(repoID, true).
			WillReturnError(sql.ErrNoRows)

		got, err := repo.SetActive(ctx, repoID, true)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, domain.ErrRepoNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepoRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repoID := uuid.New()

	t.Run("deletes row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepoRepository(database.New(db))

		mock.ExpectExec(`DELETE FROM repositories WHERE id = \$1`).
			WithArgs(repoID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(ctx, repoID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown repository", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepoRepository(database.New(db))

		mock.ExpectExec(`DELETE FROM repositories`).
			WithArgs(repoID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, repoID), domain.ErrRepoNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
