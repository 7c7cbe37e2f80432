package usecase_test

import (
	"context"
	"testing"

	"code-review-service/internal/domain"
	"code-review-service/internal/mocks"
	"code-review-service/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type prFixture struct {
	prRepo   *mocks.PRRepository
	repoRepo *mocks.RepoRepository
	gateway  *mocks.GitHubGateway
	reviews  *mocks.ReviewUseCase
	repo     *domain.Repo
}

func newPRFixture() *prFixture {
	return &prFixture{
		prRepo:   &mocks.PRRepository{},
		repoRepo: &mocks.RepoRepository{},
		gateway:  &mocks.GitHubGateway{},
		reviews:  &mocks.ReviewUseCase{},
		repo:     &domain.Repo{ID: uuid.New(), GitHubID: 4242, FullName: "acme/api", IsActive: true},
	}
}

func (f *prFixture) useCase(autoReview bool) domain.PRUseCase {
	return usecase.NewPRUseCase(f.prRepo, f.repoRepo, f.gateway, f.reviews, autoReview, testLogger())
}

func event(action string) domain.PullRequestEvent {
	return domain.PullRequestEvent{
		Action:       action,
		RepoGitHubID: 4242,
		RepoFullName: "acme/api",
		PullRequest:  domain.PullRequest{Number: 7, Title: "Add auth", State: "open"},
	}
}

func TestHandleEvent_OpenedTriggersReview(t *testing.T) {
	ctx := context.Background()
	f := newPRFixture()
	saved := &domain.PullRequest{ID: uuid.New(), RepositoryID: f.repo.ID, Number: 7, State: domain.PRStateOpen}

	f.repoRepo.On("GetByGitHubID", ctx, int64(4242)).Return(f.repo, nil)
	f.prRepo.On("Upsert", ctx, mock.MatchedBy(func(pr *domain.PullRequest) bool {
		return pr.RepositoryID == f.repo.ID && pr.Number == 7 && pr.State == domain.PRStateOpen
	})).Return(saved, nil)
	f.reviews.On("RequestReview", ctx, saved.ID).Return(&domain.Review{ID: uuid.New()}, nil)

	pr, err := f.useCase(true).HandleEvent(ctx, event(usecase.ActionOpened))

	require.NoError(t, err)
	assert.Equal(t, saved, pr)
	f.repoRepo.AssertExpectations(t)
	f.prRepo.AssertExpectations(t)
	f.reviews.AssertExpectations(t)
}

func TestHandleEvent_SynchronizeWithoutAutoReview(t *testing.T) {
	ctx := context.Background()
	f := newPRFixture()
	saved := &domain.PullRequest{ID: uuid.New()}

	f.repoRepo.On("GetByGitHubID", ctx, int64(4242)).Return(f.repo, nil)
	f.prRepo.On("Upsert", ctx, mock.Anything).Return(saved, nil)

	pr, err := f.useCase(false).HandleEvent(ctx, event(usecase.ActionSynchronize))

	require.NoError(t, err)
	assert.Equal(t, saved, pr)
	f.reviews.AssertNotCalled(t, "RequestReview", mock.Anything, mock.Anything)
}

func TestHandleEvent_ReviewInProgressIsNotAnError(t *testing.T) {
	ctx := context.Background()
	f := newPRFixture()
	saved := &domain.PullRequest{ID: uuid.New()}

	f.repoRepo.On("GetByGitHubID", ctx, int64(4242)).Return(f.repo, nil)
	f.prRepo.On("Upsert", ctx, mock.Anything).Return(saved, nil)
	f.reviews.On("RequestReview", ctx, saved.ID).Return(nil, domain.ErrReviewInProgress)

	pr, err := f.useCase(true).HandleEvent(ctx, event(usecase.ActionReopened))

	require.NoError(t, err)
	assert.Equal(t, saved, pr)
	f.reviews.AssertNotCalled(t, "ScheduleFollowUp", mock.Anything, mock.Anything)
}

func TestHandleEvent_SynchronizeDuringReviewSchedulesFollowUp(t *testing.T) {
	ctx := context.Background()
	f := newPRFixture()
	saved := &domain.PullRequest{ID: uuid.New(), Number: 7}

	f.repoRepo.On("GetByGitHubID", ctx, int64(4242)).Return(f.repo, nil)
	f.prRepo.On("Upsert", ctx, mock.Anything).Return(saved, nil)
	f.reviews.On("RequestReview", ctx, saved.ID).Return(nil, domain.ErrReviewInProgress)
	f.reviews.On("ScheduleFollowUp", ctx, saved.ID).Return(nil)

	pr, err := f.useCase(true).HandleEvent(ctx, event(usecase.ActionSynchronize))

	require.NoError(t, err)
	assert.Equal(t, saved, pr)
	f.reviews.AssertExpectations(t)
}

func TestHandleEvent_ClosedMerged(t *testing.T) {
	ctx := context.Background()
	f := newPRFixture()
	existing := &domain.PullRequest{ID: uuid.New(), Number: 7, State: domain.PRStateOpen}
	merged := &domain.PullRequest{ID: existing.ID, Number: 7, State: domain.PRStateMerged}

	f.repoRepo.On("GetByGitHubID", ctx, int64(4242)).Return(f.repo, nil)
	f.prRepo.On("GetByNumber", ctx, f.repo.ID, 7).Return(existing, nil)
	f.prRepo.On("UpdateState", ctx, existing.ID, domain.PRStateMerged).Return(merged, nil)

	e := event(usecase.ActionClosed)
	e.Merged = true
	pr, err := f.useCase(true).HandleEvent(ctx, e)

	require.NoError(t, err)
	assert.Equal(t, domain.PRStateMerged, pr.State)
	f.prRepo.AssertExpectations(t)
}

func TestHandleEvent_ClosedUnknownPRIsStored(t *testing.T) {
	ctx := context.Background()
	f := newPRFixture()
	stored := &domain.PullRequest{ID: uuid.New(), State: domain.PRStateClosed}

	f.repoRepo.On("GetByGitHubID", ctx, int64(4242)).Return(f.repo, nil)
	f.prRepo.On("GetByNumber", ctx, f.repo.ID, 7).Return(nil, domain.ErrPRNotFound)
	f.prRepo.On("Upsert", ctx, mock.MatchedBy(func(pr *domain.PullRequest) bool {
		return pr.State == domain.PRStateClosed
	})).Return(stored, nil)

	pr, err := f.useCase(true).HandleEvent(ctx, event(usecase.ActionClosed))

	require.NoError(t, err)
	assert.Equal(t, stored, pr)
}

func TestHandleEvent_IgnoredAndRejected(t *testing.T) {
	ctx := context.Background()

	t.Run("unsupported action", func(t *testing.T) {
		f := newPRFixture()
		f.repoRepo.On("GetByGitHubID", ctx, int64(4242)).Return(f.repo, nil)

		pr, err := f.useCase(true).HandleEvent(ctx, event("labeled"))

		assert.NoError(t, err)
		assert.Nil(t, pr)
		f.prRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("unknown repository", func(t *testing.T) {
		f := newPRFixture()
		f.repoRepo.On("GetByGitHubID", ctx, int64(4242)).Return(nil, domain.ErrRepoNotFound)

		pr, err := f.useCase(true).HandleEvent(ctx, event(usecase.ActionOpened))

		assert.ErrorIs(t, err, domain.ErrRepoNotFound)
		assert.Nil(t, pr)
	})

	t.Run("inactive repository", func(t *testing.T) {
		f := newPRFixture()
		f.repo.IsActive = false
		f.repoRepo.On("GetByGitHubID", ctx, int64(4242)).Return(f.repo, nil)

		_, err := f.useCase(true).HandleEvent(ctx, event(usecase.ActionOpened))

		assert.ErrorIs(t, err, domain.ErrRepoInactive)
	})

	t.Run("invalid number", func(t *testing.T) {
		f := newPRFixture()
		e := event(usecase.ActionOpened)
		e.PullRequest.Number = 0

		_, err := f.useCase(true).HandleEvent(ctx, e)

		assert.ErrorIs(t, err, domain.ErrInvalidPRNumber)
	})
}

func TestSyncPullRequest(t *testing.T) {
	ctx := context.Background()
	f := newPRFixture()
	remote := &domain.PullRequest{Number: 9, Title: "Refactor", State: domain.PRStateOpen}
	saved := &domain.PullRequest{ID: uuid.New(), Number: 9}

	f.repoRepo.On("GetByID", ctx, f.repo.ID).Return(f.repo, nil)
	f.gateway.On("GetPullRequest", ctx, "acme/api", 9).Return(remote, nil)
	f.prRepo.On("Upsert", ctx, remote).Return(saved, nil)

	pr, err := f.useCase(false).SyncPullRequest(ctx, f.repo.ID, 9)

	require.NoError(t, err)
	assert.Equal(t, saved, pr)
	assert.Equal(t, f.repo.ID, remote.RepositoryID)
	f.gateway.AssertExpectations(t)
}

func TestSyncPullRequest_Errors(t *testing.T) {
	ctx := context.Background()
	f := newPRFixture()

	_, err := f.useCase(false).SyncPullRequest(ctx, f.repo.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidPRNumber)

	f.repoRepo.On("GetByID", ctx, f.repo.ID).Return(f.repo, nil)
	f.gateway.On("GetPullRequest", ctx, "acme/api", 3).Return(nil, domain.ErrPRNotFound)

	_, err = f.useCase(false).SyncPullRequest(ctx, f.repo.ID, 3)
	assert.ErrorIs(t, err, domain.ErrPRNotFound)
}

func TestListPullRequests(t *testing.T) {
	ctx := context.Background()
	f := newPRFixture()
	state := domain.PRStateOpen
	f.prRepo.On("List", ctx, domain.PRFilter{State: &state, Limit: 10}).Return([]*domain.PullRequest{{Number: 1}}, nil)

	prs, err := f.useCase(false).ListPullRequests(ctx, domain.PRFilter{State: &state, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, prs, 1)

	bad := "draft"
	_, err = f.useCase(false).ListPullRequests(ctx, domain.PRFilter{State: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidPRState)
}

func TestGetPullRequest_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newPRFixture()
	id := uuid.New()
	f.prRepo.On("GetByID", ctx, id).Return(nil, domain.ErrPRNotFound)

	_, err := f.useCase(false).GetPullRequest(ctx, id)

	assert.ErrorIs(t, err, domain.ErrPRNotFound)
}

func TestSyncRepositoryPulls(t *testing.T) {
	ctx := context.Background()
	f := newPRFixture()
	known := &domain.PullRequest{Number: 7, Title: "Add auth (v2)", State: domain.PRStateOpen}
	fresh := &domain.PullRequest{Number: 8, Title: "Fix typo", State: domain.PRStateMerged}

	f.repoRepo.On("GetByID", ctx, f.repo.ID).Return(f.repo, nil)
	f.gateway.On("ListPullRequests", ctx, "acme/api", domain.SyncStateAll).Return([]*domain.PullRequest{known, fresh}, nil)
	f.prRepo.On("GetByNumber", ctx, f.repo.ID, 7).Return(&domain.PullRequest{ID: uuid.New(), Number: 7}, nil)
	f.prRepo.On("GetByNumber", ctx, f.repo.ID, 8).Return(nil, domain.ErrPRNotFound)
	f.prRepo.On("Upsert", ctx, mock.MatchedBy(func(pr *domain.PullRequest) bool {
		return pr.RepositoryID == f.repo.ID
	})).Return(&domain.PullRequest{ID: uuid.New()}, nil).Twice()

	result, err := f.useCase(true).SyncRepositoryPulls(ctx, f.repo.ID, domain.SyncStateAll)

	require.NoError(t, err)
	assert.Equal(t, &domain.SyncResult{Total: 2, Created: 1, Updated: 1}, result)
	f.prRepo.AssertExpectations(t)
	f.reviews.AssertNotCalled(t, "RequestReview", mock.Anything, mock.Anything)
}

func TestSyncRepositoryPulls_DefaultsToOpen(t *testing.T) {
	ctx := context.Background()
	f := newPRFixture()
	f.repoRepo.On("GetByID", ctx, f.repo.ID).Return(f.repo, nil)
	f.gateway.On("ListPullRequests", ctx, "acme/api", domain.SyncStateOpen).Return([]*domain.PullRequest{}, nil)

	result, err := f.useCase(false).SyncRepositoryPulls(ctx, f.repo.ID, "")

	require.NoError(t, err)
	assert.Zero(t, result.Total)
	f.gateway.AssertExpectations(t)
}

func TestSyncRepositoryPulls_Errors(t *testing.T) {
	ctx := context.Background()
	f := newPRFixture()
	missing := uuid.New()
	f.repoRepo.On("GetByID", ctx, missing).Return(nil, domain.ErrRepoNotFound)

	_, err := f.useCase(false).SyncRepositoryPulls(ctx, f.repo.ID, "merged")
	assert.ErrorIs(t, err, domain.ErrInvalidSyncState)

	_, err = f.useCase(false).SyncRepositoryPulls(ctx, missing, domain.SyncStateOpen)
	assert.ErrorIs(t, err, domain.ErrRepoNotFound)
	f.gateway.AssertNotCalled(t, "ListPullRequests", mock.Anything, mock.Anything, mock.Anything)
}
