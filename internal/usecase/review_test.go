package usecase_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"code-review-service/internal/domain"
	"code-review-service/internal/mocks"
	"code-review-service/internal/usecase"
	"code-review-service/internal/worker"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testLease = 10 * time.Minute

type reviewFixture struct {
	reviews    *mocks.ReviewRepository
	findings   *mocks.FindingRepository
	prs        *mocks.PRRepository
	diffs      *mocks.DiffProvider
	summarizer *mocks.Summarizer
	dispatcher *mocks.Dispatcher
	security   *mocks.Analyzer
	quality    *mocks.Analyzer
	ai         *mocks.Analyzer
	uc         domain.ReviewUseCase

	pr     *domain.PullRequest
	review *domain.Review
	diff   *domain.Diff
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newAnalyzer(name string) *mocks.Analyzer {
	a := &mocks.Analyzer{}
	a.On("Name").Return(name).Maybe()
	return a
}

func newReviewFixture(opts ...func(*usecase.ReviewDeps)) *reviewFixture {
	f := &reviewFixture{
		reviews:    &mocks.ReviewRepository{},
		findings:   &mocks.FindingRepository{},
		prs:        &mocks.PRRepository{},
		diffs:      &mocks.DiffProvider{},
		summarizer: &mocks.Summarizer{},
		dispatcher: &mocks.Dispatcher{},
		security:   newAnalyzer("security"),
		quality:    newAnalyzer("quality"),
		ai:         newAnalyzer("ai"),
	}

	deps := usecase.ReviewDeps{
		Reviews:    f.reviews,
		Findings:   f.findings,
		PRs:        f.prs,
		Diffs:      f.diffs,
		Analyzers:  []domain.Analyzer{f.security, f.quality, f.ai},
		Summarizer: f.summarizer,
		Dispatcher: f.dispatcher,
		Lease:      testLease,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	f.uc = usecase.NewReviewUseCase(deps, testLogger())

	f.pr = &domain.PullRequest{ID: uuid.New(), Number: 7, RepoFullName: "acme/api", Title: "Add auth"}
	f.review = &domain.Review{ID: uuid.New(), PullRequestID: f.pr.ID, Status: domain.ReviewStatusPending}
	f.diff = &domain.Diff{Title: f.pr.Title, Files: []domain.FileDiff{{Path: "app/auth.py", Language: "Python", Content: "x = 1"}}}
	return f
}

// expectStart настраивает шаги до запуска анализаторов.
func (f *reviewFixture) expectStart() {
	f.prs.On("GetByID", mock.Anything, f.pr.ID).Return(f.pr, nil)
	f.reviews.On("CreatePending", mock.Anything, f.pr.ID, testLease).Return(f.review, nil)
	f.reviews.On("MarkInProgress", mock.Anything, f.review.ID, mock.AnythingOfType("time.Time")).Return(nil)
	f.diffs.On("GetDiff", mock.Anything, f.pr).Return(f.diff, nil)
}

func (f *reviewFixture) assertExpectations(t *testing.T) {
	for _, m := range []interface{ AssertExpectations(mock.TestingT) bool }{
		f.reviews, f.findings, f.prs, f.diffs, f.summarizer, f.dispatcher, f.security, f.quality, f.ai,
	} {
		m.AssertExpectations(t)
	}
}

func drafts(severity domain.Severity, category domain.Category, n int) []domain.FindingDraft {
	out := make([]domain.FindingDraft, n)
	for i := range out {
		out[i] = domain.FindingDraft{Category: category, Severity: severity, Title: "issue"}
	}
	return out
}

func TestReviewPullRequest_Completed(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.expectStart()

	f.security.On("Analyze", mock.Anything, f.diff).Return(drafts(domain.SeverityCritical, domain.CategorySecurity, 2), nil)
	f.quality.On("Analyze", mock.Anything, f.diff).Return(drafts(domain.SeverityWarning, domain.CategoryQuality, 3), nil)
	f.ai.On("Analyze", mock.Anything, f.diff).Return(drafts(domain.SeverityInfo, domain.CategoryStyle, 1), nil)
	f.summarizer.On("Summarize", mock.Anything, mock.AnythingOfType("[]*domain.Finding")).Return("Critical issues found.", nil)

	var saved []*domain.Finding
	f.reviews.On("Complete", mock.Anything, f.review, mock.AnythingOfType("[]*domain.Finding")).
		Run(func(args mock.Arguments) { saved = args.Get(2).([]*domain.Finding) }).
		Return(nil)

	review, err := f.uc.ReviewPullRequest(ctx, f.pr.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusCompleted, review.Status)
	require.NotNil(t, review.OverallScore)
	assert.Equal(t, 54, *review.OverallScore)
	assert.Equal(t, 2, review.CriticalCount)
	assert.Equal(t, 3, review.WarningCount)
	assert.Equal(t, 1, review.InfoCount)
	assert.Equal(t, "Critical issues found.", *review.Summary)
	assert.Empty(t, review.ToolErrors)
	assert.NotNil(t, review.StartedAt)
	assert.NotNil(t, review.CompletedAt)

	require.Len(t, saved, 6)
	for _, finding := range saved {
		assert.Equal(t, review.ID, finding.ReviewID)
	}
	assert.Equal(t, review.CriticalCount+review.WarningCount+review.InfoCount, len(saved))
	f.assertExpectations(t)
}

func TestReviewPullRequest_PartialFailure(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.expectStart()

	f.security.On("Analyze", mock.Anything, f.diff).Return(drafts(domain.SeverityWarning, domain.CategorySecurity, 1), nil)
	f.quality.On("Analyze", mock.Anything, f.diff).Return(nil, errors.New("pylint not installed"))
	f.ai.On("Analyze", mock.Anything, f.diff).Return(nil, nil)
	f.summarizer.On("Summarize", mock.Anything, mock.Anything).Return("ok", nil)
	f.reviews.On("Complete", mock.Anything, f.review, mock.Anything).Return(nil)

	review, err := f.uc.ReviewPullRequest(ctx, f.pr.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusCompleted, review.Status)
	assert.Equal(t, 95, *review.OverallScore)
	assert.Equal(t, []domain.ToolError{{Tool: "quality", Error: "pylint not installed"}}, review.ToolErrors)
	f.assertExpectations(t)
}

func TestReviewPullRequest_AllAnalyzersFail(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.expectStart()

	f.security.On("Analyze", mock.Anything, f.diff).Return(nil, errors.New("bandit crashed"))
	f.quality.On("Analyze", mock.Anything, f.diff).Return(nil, errors.New("pylint crashed"))
	f.ai.On("Analyze", mock.Anything, f.diff).Return(nil, errors.New("anthropic 529"))
	f.reviews.On("MarkFailed", mock.Anything, f.review).Return(nil)

	review, err := f.uc.ReviewPullRequest(ctx, f.pr.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusFailed, review.Status)
	assert.Nil(t, review.OverallScore)
	assert.Zero(t, review.CriticalCount+review.WarningCount+review.InfoCount)
	assert.Len(t, review.ToolErrors, 3)
	f.reviews.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
	f.summarizer.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestReviewPullRequest_SingleAIInfo(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.expectStart()

	f.security.On("Analyze", mock.Anything, f.diff).Return(nil, nil)
	f.quality.On("Analyze", mock.Anything, f.diff).Return([]domain.FindingDraft{}, nil)
	f.ai.On("Analyze", mock.Anything, f.diff).Return([]domain.FindingDraft{{
		Category:    domain.CategoryAISuggestion,
		Severity:    domain.SeverityInfo,
		Title:       "AI Code Review",
		Description: "Looks fine",
	}}, nil)
	f.summarizer.On("Summarize", mock.Anything, mock.Anything).Return("fine", nil)
	f.reviews.On("Complete", mock.Anything, f.review, mock.Anything).Return(nil)

	review, err := f.uc.ReviewPullRequest(ctx, f.pr.ID)

	require.NoError(t, err)
	assert.Equal(t, 99, *review.OverallScore)
	assert.Equal(t, 1, review.InfoCount)
	f.assertExpectations(t)
}

func TestReviewPullRequest_SummaryFailureKeepsReview(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.expectStart()

	f.security.On("Analyze", mock.Anything, f.diff).Return(nil, nil)
	f.quality.On("Analyze", mock.Anything, f.diff).Return(nil, nil)
	f.ai.On("Analyze", mock.Anything, f.diff).Return(nil, nil)
	f.summarizer.On("Summarize", mock.Anything, mock.Anything).Return("", errors.New("rate limited"))
	f.reviews.On("Complete", mock.Anything, f.review, mock.Anything).Return(nil)

	review, err := f.uc.ReviewPullRequest(ctx, f.pr.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusCompleted, review.Status)
	assert.Equal(t, 100, *review.OverallScore)
	assert.Nil(t, review.Summary)
	f.assertExpectations(t)
}

func TestReviewPullRequest_DiffUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.prs.On("GetByID", mock.Anything, f.pr.ID).Return(f.pr, nil)
	f.reviews.On("CreatePending", mock.Anything, f.pr.ID, testLease).Return(f.review, nil)
	f.reviews.On("MarkInProgress", mock.Anything, f.review.ID, mock.Anything).Return(nil)
	f.diffs.On("GetDiff", mock.Anything, f.pr).Return(nil, domain.ErrDiffUnavailable)
	f.reviews.On("MarkFailed", mock.Anything, f.review).Return(nil)

	review, err := f.uc.ReviewPullRequest(ctx, f.pr.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusFailed, review.Status)
	require.Len(t, review.ToolErrors, 1)
	assert.Equal(t, "github", review.ToolErrors[0].Tool)
	f.security.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestReviewPullRequest_UnknownPR(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	prID := uuid.New()
	f.prs.On("GetByID", mock.Anything, prID).Return(nil, domain.ErrPRNotFound)

	review, err := f.uc.ReviewPullRequest(ctx, prID)

	assert.ErrorIs(t, err, domain.ErrPRNotFound)
	assert.Nil(t, review)
	f.reviews.AssertNotCalled(t, "CreatePending", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewPullRequest_AlreadyInProgress(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.prs.On("GetByID", mock.Anything, f.pr.ID).Return(f.pr, nil)
	f.reviews.On("CreatePending", mock.Anything, f.pr.ID, testLease).Return(nil, domain.ErrReviewInProgress)

	review, err := f.uc.ReviewPullRequest(ctx, f.pr.ID)

	assert.ErrorIs(t, err, domain.ErrReviewInProgress)
	assert.Nil(t, review)
	f.diffs.AssertNotCalled(t, "GetDiff", mock.Anything, mock.Anything)
}

func TestReviewPullRequest_CancelledMarksFailed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := newReviewFixture()
	f.expectStart()

	blocking := func(args mock.Arguments) {
		<-args.Get(0).(context.Context).Done()
	}
	started := make(chan struct{}, 3)
	for _, a := range []*mocks.Analyzer{f.security, f.quality, f.ai} {
		a.On("Analyze", mock.Anything, f.diff).
			Run(func(args mock.Arguments) { started <- struct{}{}; blocking(args) }).
			Return(nil, context.Canceled)
	}

	notCancelled := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
	f.reviews.On("MarkFailed", notCancelled, f.review).Return(nil)

	go func() {
		for i := 0; i < 3; i++ {
			<-started
		}
		cancel()
	}()

	review, err := f.uc.ReviewPullRequest(ctx, f.pr.ID)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, review)
	assert.Equal(t, domain.ReviewStatusFailed, review.Status)
	assert.NotEqual(t, domain.ReviewStatusInProgress, review.Status)
	f.reviews.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestReviewPullRequest_StoreFailure(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.expectStart()

	f.security.On("Analyze", mock.Anything, f.diff).Return(nil, nil)
	f.quality.On("Analyze", mock.Anything, f.diff).Return(nil, nil)
	f.ai.On("Analyze", mock.Anything, f.diff).Return(nil, nil)
	f.summarizer.On("Summarize", mock.Anything, mock.Anything).Return("ok", nil)
	f.reviews.On("Complete", mock.Anything, f.review, mock.Anything).Return(errors.New("connection reset"))
	f.reviews.On("MarkFailed", mock.Anything, f.review).Return(nil)

	review, err := f.uc.ReviewPullRequest(ctx, f.pr.ID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save review")
	assert.Nil(t, review)
	f.assertExpectations(t)
}

func TestRequestReview_RunsInBackground(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.expectStart()
	f.dispatcher.On("Submit", "review:"+f.review.ID.String(), mock.AnythingOfType("worker.Job")).Return(nil)

	f.security.On("Analyze", mock.Anything, f.diff).Return(nil, nil)
	f.quality.On("Analyze", mock.Anything, f.diff).Return(nil, nil)
	f.ai.On("Analyze", mock.Anything, f.diff).Return(nil, nil)
	f.summarizer.On("Summarize", mock.Anything, mock.Anything).Return("ok", nil)
	f.reviews.On("Complete", mock.Anything, mock.MatchedBy(func(r *domain.Review) bool {
		return r.ID == f.review.ID && r.Status == domain.ReviewStatusCompleted
	}), mock.Anything).Return(nil)

	review, err := f.uc.RequestReview(ctx, f.pr.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusPending, review.Status)
	f.reviews.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)

	f.dispatcher.Run(ctx)

	assert.Equal(t, domain.ReviewStatusPending, review.Status)
	f.assertExpectations(t)
}

func TestRequestReview_QueueFull(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.prs.On("GetByID", mock.Anything, f.pr.ID).Return(f.pr, nil)
	f.reviews.On("CreatePending", mock.Anything, f.pr.ID, testLease).Return(f.review, nil)
	f.dispatcher.On("Submit", mock.Anything, mock.Anything).Return(worker.ErrQueueFull)
	f.reviews.On("MarkFailed", mock.Anything, f.review).Return(nil)

	review, err := f.uc.RequestReview(ctx, f.pr.ID)

	assert.ErrorIs(t, err, worker.ErrQueueFull)
	assert.Nil(t, review)
	assert.Equal(t, domain.ReviewStatusFailed, f.review.Status)
	f.assertExpectations(t)
}

func TestRequestReview_ShutdownBeforeStart(t *testing.T) {
	f := newReviewFixture()
	f.prs.On("GetByID", mock.Anything, f.pr.ID).Return(f.pr, nil)
	f.reviews.On("CreatePending", mock.Anything, f.pr.ID, testLease).Return(f.review, nil)
	f.dispatcher.On("Submit", mock.Anything, mock.Anything).Return(nil)
	f.reviews.On("MarkFailed", mock.Anything, mock.MatchedBy(func(r *domain.Review) bool {
		return r.ID == f.review.ID && r.Status == domain.ReviewStatusFailed
	})).Return(nil)

	_, err := f.uc.RequestReview(context.Background(), f.pr.ID)
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	f.dispatcher.Run(cancelled)

	f.reviews.AssertNotCalled(t, "MarkInProgress", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestListFindings(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	severity := domain.SeverityCritical
	filter := domain.FindingFilter{Severity: &severity}
	expectedFilter := domain.FindingFilter{Severity: &severity, Limit: 50}
	list := []*domain.Finding{{ID: uuid.New(), Severity: domain.SeverityCritical}}
	counts := domain.SeverityCounts{Critical: 1, Warning: 4}

	f.reviews.On("GetByID", mock.Anything, f.review.ID).Return(f.review, nil)
	f.findings.On("ListByReview", mock.Anything, f.review.ID, expectedFilter).Return(list, int64(1), nil)
	f.findings.On("CountBySeverity", mock.Anything, f.review.ID).Return(counts, nil)

	result, err := f.uc.ListFindings(ctx, f.review.ID, filter)

	require.NoError(t, err)
	assert.Equal(t, list, result.Findings)
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, counts, result.Counts)
	f.assertExpectations(t)
}

func TestListFindings_Errors(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	badSeverity := domain.Severity("blocker")
	badCategory := domain.Category("docs")
	missing := uuid.New()
	f.reviews.On("GetByID", mock.Anything, missing).Return(nil, domain.ErrReviewNotFound)

	testCases := []struct {
		name     string
		reviewID uuid.UUID
		filter   domain.FindingFilter
		expected error
	}{
		{"invalid severity", f.review.ID, domain.FindingFilter{Severity: &badSeverity}, domain.ErrInvalidSeverity},
		{"invalid category", f.review.ID, domain.FindingFilter{Category: &badCategory}, domain.ErrInvalidCategory},
		{"negative offset", f.review.ID, domain.FindingFilter{Offset: -1}, domain.ErrInvalidPagination},
		{"unknown review", missing, domain.FindingFilter{}, domain.ErrReviewNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := f.uc.ListFindings(ctx, tc.reviewID, tc.filter)
			assert.ErrorIs(t, err, tc.expected)
			assert.Nil(t, result)
		})
	}
}

func TestListReviews(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	status := domain.ReviewStatusCompleted
	f.reviews.On("List", mock.Anything, domain.ReviewFilter{Status: &status, Limit: 50}).
		Return([]*domain.Review{f.review}, int64(12), nil)

	reviews, total, err := f.uc.ListReviews(ctx, domain.ReviewFilter{Status: &status})

	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.Equal(t, int64(12), total)

	bad := domain.ReviewStatus("done")
	_, _, err = f.uc.ListReviews(ctx, domain.ReviewFilter{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, _, err = f.uc.ListReviews(ctx, domain.ReviewFilter{Limit: 1000})
	assert.ErrorIs(t, err, domain.ErrInvalidPagination)
}

func TestDeleteReview(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.reviews.On("Delete", mock.Anything, f.review.ID).Return(domain.ErrReviewNotFound)

	err := f.uc.DeleteReview(ctx, f.review.ID)

	assert.ErrorIs(t, err, domain.ErrReviewNotFound)
}

func TestReviewByID_NilID(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()

	review, err := f.uc.GetReview(ctx, uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrInvalidReviewID)
	assert.Nil(t, review)

	list, err := f.uc.ListFindings(ctx, uuid.Nil, domain.FindingFilter{})
	assert.ErrorIs(t, err, domain.ErrInvalidReviewID)
	assert.Nil(t, list)

	assert.ErrorIs(t, f.uc.DeleteReview(ctx, uuid.Nil), domain.ErrInvalidReviewID)
	f.reviews.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.reviews.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func (f *reviewFixture) analyzersReturnNothing() {
	for _, a := range []*mocks.Analyzer{f.security, f.quality, f.ai} {
		a.On("Analyze", mock.Anything, f.diff).Return(nil, nil)
	}
}

var liveCtx = mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })

func TestReviewPullRequest_SlowSummaryKeepsDeadlineForSave(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	f := newReviewFixture()
	f.expectStart()
	f.analyzersReturnNothing()

	f.summarizer.On("Summarize", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return("", context.DeadlineExceeded)
	f.reviews.On("Complete", liveCtx, f.review, mock.Anything).Return(nil)

	review, err := f.uc.ReviewPullRequest(ctx, f.pr.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusCompleted, review.Status)
	assert.Equal(t, 100, *review.OverallScore)
	assert.Nil(t, review.Summary)
	f.reviews.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestReviewPullRequest_SummaryTimeout(t *testing.T) {
	f := newReviewFixture(func(d *usecase.ReviewDeps) { d.SummaryTimeout = 20 * time.Millisecond })
	f.expectStart()
	f.analyzersReturnNothing()

	var summaryDeadline bool
	f.summarizer.On("Summarize", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			summaryCtx := args.Get(0).(context.Context)
			_, summaryDeadline = summaryCtx.Deadline()
			<-summaryCtx.Done()
		}).
		Return("", context.DeadlineExceeded)
	f.reviews.On("Complete", liveCtx, f.review, mock.Anything).Return(nil)

	review, err := f.uc.ReviewPullRequest(context.Background(), f.pr.ID)

	require.NoError(t, err)
	assert.True(t, summaryDeadline)
	assert.Equal(t, domain.ReviewStatusCompleted, review.Status)
	f.assertExpectations(t)
}

func TestReviewPullRequest_LeaseBoundsRun(t *testing.T) {
	lease := 50 * time.Millisecond
	f := newReviewFixture(func(d *usecase.ReviewDeps) { d.Lease = lease })
	f.prs.On("GetByID", mock.Anything, f.pr.ID).Return(f.pr, nil)
	f.reviews.On("CreatePending", mock.Anything, f.pr.ID, lease).Return(f.review, nil)
	f.reviews.On("MarkInProgress", mock.Anything, f.review.ID, mock.Anything).Return(nil)
	f.diffs.On("GetDiff", mock.Anything, f.pr).
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return(nil, context.DeadlineExceeded)
	f.reviews.On("MarkFailed", liveCtx, f.review).Return(nil)

	review, err := f.uc.ReviewPullRequest(context.Background(), f.pr.ID)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotNil(t, review)
	assert.Equal(t, domain.ReviewStatusFailed, review.Status)
	f.assertExpectations(t)
}

func TestReviewPullRequest_FinalizedElsewhere(t *testing.T) {
	f := newReviewFixture()
	f.expectStart()
	f.analyzersReturnNothing()
	f.summarizer.On("Summarize", mock.Anything, mock.Anything).Return("ok", nil)
	f.reviews.On("Complete", mock.Anything, f.review, mock.Anything).Return(domain.ErrReviewNotActive)

	review, err := f.uc.ReviewPullRequest(context.Background(), f.pr.ID)

	assert.ErrorIs(t, err, domain.ErrReviewNotActive)
	assert.Nil(t, review)
	f.reviews.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestScheduleFollowUp_RunsAfterActiveReview(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	followUp := &domain.Review{ID: uuid.New(), PullRequestID: f.pr.ID, Status: domain.ReviewStatusPending}

	f.prs.On("GetByID", mock.Anything, f.pr.ID).Return(f.pr, nil)
	f.reviews.On("CreatePending", mock.Anything, f.pr.ID, testLease).Return(f.review, nil).Once()
	f.reviews.On("CreatePending", mock.Anything, f.pr.ID, testLease).Return(nil, domain.ErrReviewInProgress).Once()
	f.reviews.On("CreatePending", mock.Anything, f.pr.ID, testLease).Return(followUp, nil).Once()
	f.reviews.On("MarkInProgress", mock.Anything, f.review.ID, mock.Anything).Return(nil)
	f.diffs.On("GetDiff", mock.Anything, f.pr).Return(f.diff, nil)
	f.analyzersReturnNothing()
	f.summarizer.On("Summarize", mock.Anything, mock.Anything).Return("ok", nil)
	f.reviews.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.dispatcher.On("Submit", "review:"+f.review.ID.String(), mock.Anything).Return(nil)
	f.dispatcher.On("Submit", "review:"+followUp.ID.String(), mock.Anything).Return(nil)

	_, err := f.uc.RequestReview(ctx, f.pr.ID)
	require.NoError(t, err)

	require.NoError(t, f.uc.ScheduleFollowUp(ctx, f.pr.ID))
	f.dispatcher.AssertNotCalled(t, "Submit", "review:"+followUp.ID.String(), mock.Anything)

	f.dispatcher.Run(ctx)

	assert.Len(t, f.dispatcher.Jobs, 1)
	f.reviews.AssertNumberOfCalls(t, "CreatePending", 3)
	f.assertExpectations(t)
}

func TestScheduleFollowUp_NothingActive(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.expectStart()
	f.analyzersReturnNothing()
	f.summarizer.On("Summarize", mock.Anything, mock.Anything).Return("ok", nil)
	f.reviews.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.dispatcher.On("Submit", "review:"+f.review.ID.String(), mock.Anything).Return(nil)

	require.NoError(t, f.uc.ScheduleFollowUp(ctx, f.pr.ID))
	f.dispatcher.Run(ctx)

	assert.Empty(t, f.dispatcher.Jobs)
	f.reviews.AssertNumberOfCalls(t, "CreatePending", 1)
	f.assertExpectations(t)
}

func TestScheduleFollowUp_Error(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.prs.On("GetByID", mock.Anything, f.pr.ID).Return(nil, domain.ErrPRNotFound)

	err := f.uc.ScheduleFollowUp(ctx, f.pr.ID)

	assert.ErrorIs(t, err, domain.ErrPRNotFound)
}
