package mocks

import (
	"context"
	"time"

	"code-review-service/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ReviewRepository struct {
	mock.Mock
}

func (m *ReviewRepository) CreatePending(ctx context.Context, prID uuid.UUID, lease time.Duration) (*domain.Review, error) {
	args := m.Called(ctx, prID, lease)
	return value[*domain.Review](args, 0), args.Error(1)
}

func (m *ReviewRepository) MarkInProgress(ctx context.Context, reviewID uuid.UUID, startedAt time.Time) error {
	return m.Called(ctx, reviewID, startedAt).Error(0)
}

func (m *ReviewRepository) Complete(ctx context.Context, review *domain.Review, findings []*domain.Finding) error {
	return m.Called(ctx, review, findings).Error(0)
}

func (m *ReviewRepository) MarkFailed(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *ReviewRepository) GetByID(ctx context.Context, reviewID uuid.UUID) (*domain.Review, error) {
	args := m.Called(ctx, reviewID)
	return value[*domain.Review](args, 0), args.Error(1)
}

func (m *ReviewRepository) List(ctx context.Context, filter domain.ReviewFilter) ([]*domain.Review, int64, error) {
	args := m.Called(ctx, filter)
	return value[[]*domain.Review](args, 0), value[int64](args, 1), args.Error(2)
}

func (m *ReviewRepository) Delete(ctx context.Context, reviewID uuid.UUID) error {
	return m.Called(ctx, reviewID).Error(0)
}

func (m *ReviewRepository) FailStale(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return value[int64](args, 0), args.Error(1)
}

type FindingRepository struct {
	mock.Mock
}

func (m *FindingRepository) ListByReview(ctx context.Context, reviewID uuid.UUID, filter domain.FindingFilter) ([]*domain.Finding, int64, error) {
	args := m.Called(ctx, reviewID, filter)
	return value[[]*domain.Finding](args, 0), value[int64](args, 1), args.Error(2)
}

func (m *FindingRepository) CountBySeverity(ctx context.Context, reviewID uuid.UUID) (domain.SeverityCounts, error) {
	args := m.Called(ctx, reviewID)
	return value[domain.SeverityCounts](args, 0), args.Error(1)
}

type PRRepository struct {
	mock.Mock
}

func (m *PRRepository) Upsert(ctx context.Context, pr *domain.PullRequest) (*domain.PullRequest, error) {
	args := m.Called(ctx, pr)
	return value[*domain.PullRequest](args, 0), args.Error(1)
}

func (m *PRRepository) GetByID(ctx context.Context, prID uuid.UUID) (*domain.PullRequest, error) {
	args := m.Called(ctx, prID)
	return value[*domain.PullRequest](args, 0), args.Error(1)
}

func (m *PRRepository) GetByNumber(ctx context.Context, repoID uuid.UUID, number int) (*domain.PullRequest, error) {
	args := m.Called(ctx, repoID, number)
	return value[*domain.PullRequest](args, 0), args.Error(1)
}

func (m *PRRepository) UpdateState(ctx context.Context, prID uuid.UUID, state string) (*domain.PullRequest, error) {
	args := m.Called(ctx, prID, state)
	return value[*domain.PullRequest](args, 0), args.Error(1)
}

func (m *PRRepository) List(ctx context.Context, filter domain.PRFilter) ([]*domain.PullRequest, error) {
	args := m.Called(ctx, filter)
	return value[[]*domain.PullRequest](args, 0), args.Error(1)
}

type RepoRepository struct {
	mock.Mock
}

func (m *RepoRepository) Create(ctx context.Context, repo *domain.Repo) (*domain.Repo, error) {
	args := m.Called(ctx, repo)
	return value[*domain.Repo](args, 0), args.Error(1)
}

func (m *RepoRepository) GetByID(ctx context.Context, repoID uuid.UUID) (*domain.Repo, error) {
	args := m.Called(ctx, repoID)
	return value[*domain.Repo](args, 0), args.Error(1)
}

func (m *RepoRepository) GetByGitHubID(ctx context.Context, githubID int64) (*domain.Repo, error) {
	args := m.Called(ctx, githubID)
	return value[*domain.Repo](args, 0), args.Error(1)
}

func (m *RepoRepository) ExistsByGitHubID(ctx context.Context, githubID int64) (bool, error) {
	args := m.Called(ctx, githubID)
	return args.Bool(0), args.Error(1)
}

func (m *RepoRepository) SetWebhookID(ctx context.Context, repoID uuid.UUID, webhookID int64) error {
	return m.Called(ctx, repoID, webhookID).Error(0)
}

func (m *RepoRepository) SetActive(ctx context.Context, repoID uuid.UUID, active bool) (*domain.Repo, error) {
	args := m.Called(ctx, repoID, active)
	return value[*domain.Repo](args, 0), args.Error(1)
}

func (m *RepoRepository) Delete(ctx context.Context, repoID uuid.UUID) error {
	return m.Called(ctx, repoID).Error(0)
}

func (m *RepoRepository) List(ctx context.Context) ([]*domain.Repo, error) {
	args := m.Called(ctx)
	return value[[]*domain.Repo](args, 0), args.Error(1)
}

type StatsRepository struct {
	mock.Mock
}

func (m *StatsRepository) GetReviewStats(ctx context.Context) (*domain.ReviewStats, error) {
	args := m.Called(ctx)
	return value[*domain.ReviewStats](args, 0), args.Error(1)
}
