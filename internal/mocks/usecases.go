package mocks

import (
	"context"

	"code-review-service/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ReviewUseCase struct {
	mock.Mock
}

func (m *ReviewUseCase) ReviewPullRequest(ctx context.Context, prID uuid.UUID) (*domain.Review, error) {
	args := m.Called(ctx, prID)
	return value[*domain.Review](args, 0), args.Error(1)
}

func (m *ReviewUseCase) RequestReview(ctx context.Context, prID uuid.UUID) (*domain.Review, error) {
	args := m.Called(ctx, prID)
	return value[*domain.Review](args, 0), args.Error(1)
}

func (m *ReviewUseCase) ScheduleFollowUp(ctx context.Context, prID uuid.UUID) error {
	return m.Called(ctx, prID).Error(0)
}

func (m *ReviewUseCase) GetReview(ctx context.Context, reviewID uuid.UUID) (*domain.Review, error) {
	args := m.Called(ctx, reviewID)
	return value[*domain.Review](args, 0), args.Error(1)
}

func (m *ReviewUseCase) ListReviews(ctx context.Context, filter domain.ReviewFilter) ([]*domain.Review, int64, error) {
	args := m.Called(ctx, filter)
	return value[[]*domain.Review](args, 0), value[int64](args, 1), args.Error(2)
}

func (m *ReviewUseCase) ListFindings(ctx context.Context, reviewID uuid.UUID, filter domain.FindingFilter) (*domain.FindingList, error) {
	args := m.Called(ctx, reviewID, filter)
	return value[*domain.FindingList](args, 0), args.Error(1)
}

func (m *ReviewUseCase) DeleteReview(ctx context.Context, reviewID uuid.UUID) error {
	return m.Called(ctx, reviewID).Error(0)
}

type PRUseCase struct {
	mock.Mock
}

func (m *PRUseCase) HandleEvent(ctx context.Context, event domain.PullRequestEvent) (*domain.PullRequest, error) {
	args := m.Called(ctx, event)
	return value[*domain.PullRequest](args, 0), args.Error(1)
}

func (m *PRUseCase) SyncPullRequest(ctx context.Context, repoID uuid.UUID, number int) (*domain.PullRequest, error) {
	args := m.Called(ctx, repoID, number)
	return value[*domain.PullRequest](args, 0), args.Error(1)
}

func (m *PRUseCase) GetPullRequest(ctx context.Context, prID uuid.UUID) (*domain.PullRequest, error) {
	args := m.Called(ctx, prID)
	return value[*domain.PullRequest](args, 0), args.Error(1)
}

func (m *PRUseCase) ListPullRequests(ctx context.Context, filter domain.PRFilter) ([]*domain.PullRequest, error) {
	args := m.Called(ctx, filter)
	return value[[]*domain.PullRequest](args, 0), args.Error(1)
}

func (m *PRUseCase) SyncRepositoryPulls(ctx context.Context, repoID uuid.UUID, state string) (*domain.SyncResult, error) {
	args := m.Called(ctx, repoID, state)
	return value[*domain.SyncResult](args, 0), args.Error(1)
}

type RepoUseCase struct {
	mock.Mock
}

func (m *RepoUseCase) RegisterRepo(ctx context.Context, fullName string, installWebhook bool) (*domain.Repo, error) {
	args := m.Called(ctx, fullName, installWebhook)
	return value[*domain.Repo](args, 0), args.Error(1)
}

func (m *RepoUseCase) ListRepos(ctx context.Context) ([]*domain.Repo, error) {
	args := m.Called(ctx)
	return value[[]*domain.Repo](args, 0), args.Error(1)
}

func (m *RepoUseCase) GetRepo(ctx context.Context, repoID uuid.UUID) (*domain.Repo, error) {
	args := m.Called(ctx, repoID)
	return value[*domain.Repo](args, 0), args.Error(1)
}

func (m *RepoUseCase) UpdateRepo(ctx context.Context, repoID uuid.UUID, update domain.RepoUpdate) (*domain.Repo, error) {
	args := m.Called(ctx, repoID, update)
	return value[*domain.Repo](args, 0), args.Error(1)
}

func (m *RepoUseCase) DeleteRepo(ctx context.Context, repoID uuid.UUID) error {
	return m.Called(ctx, repoID).Error(0)
}

type StatsUseCase struct {
	mock.Mock
}

func (m *StatsUseCase) GetReviewStats(ctx context.Context) (*domain.ReviewStats, error) {
	args := m.Called(ctx)
	return value[*domain.ReviewStats](args, 0), args.Error(1)
}
