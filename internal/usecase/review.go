package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"code-review-service/internal/domain"
	"code-review-service/internal/worker"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	diffToolName    = "github"
)

// Dispatcher ставит фоновые ревью в очередь.
type Dispatcher interface {
	Submit(name string, fn worker.Job) error
}

// ReviewDeps содержит зависимости ReviewUseCase.
type ReviewDeps struct {
	Reviews    domain.ReviewRepository
	Findings   domain.FindingRepository
	PRs        domain.PRRepository
	Diffs      domain.DiffProvider
	Analyzers  []domain.Analyzer
	Summarizer domain.Summarizer
	Dispatcher Dispatcher
	// Lease задает, сколько активное ревью блокирует новые ревью того же PR.
	// Дольше Lease ревью не выполняется.
	Lease time.Duration
	// SummaryTimeout ограничивает генерацию резюме.
	SummaryTimeout time.Duration
}

// ReviewUseCase реализует конвейер агрегации ревью.
type ReviewUseCase struct {
	reviewRepo  domain.ReviewRepository
	findingRepo domain.FindingRepository
	prRepo      domain.PRRepository
	diffs       domain.DiffProvider
	analyzers   []domain.Analyzer
	summarizer  domain.Summarizer
	dispatcher  Dispatcher
	lease       time.Duration
	summaryTTL  time.Duration
	logger      *logrus.Logger
	now         func() time.Time

	followMu  sync.Mutex
	followUps map[uuid.UUID]struct{}
}

// NewReviewUseCase создает новый экземпляр ReviewUseCase.
func NewReviewUseCase(deps ReviewDeps, logger *logrus.Logger) domain.ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:  deps.Reviews,
		findingRepo: deps.Findings,
		prRepo:      deps.PRs,
		diffs:       deps.Diffs,
		analyzers:   deps.Analyzers,
		summarizer:  deps.Summarizer,
		dispatcher:  deps.Dispatcher,
		lease:       deps.Lease,
		summaryTTL:  deps.SummaryTimeout,
		logger:      logger,
		now:         time.Now,
		followUps:   make(map[uuid.UUID]struct{}),
	}
}

// ReviewPullRequest синхронно выполняет ревью PR.
// Ошибки анализаторов не возвращаются: они отражаются в статусе и toolErrors.
func (uc *ReviewUseCase) ReviewPullRequest(ctx context.Context, prID uuid.UUID) (*domain.Review, error) {
	pr, err := uc.prRepo.GetByID(ctx, prID)
	if err != nil {
		return nil, err
	}

	review, err := uc.reviewRepo.CreatePending(ctx, pr.ID, uc.lease)
	if err != nil {
		return nil, err
	}
	defer uc.afterReview(pr.ID)

	return uc.execute(ctx, review, pr)
}

// RequestReview создает ревью и отдает его фоновому воркеру.
func (uc *ReviewUseCase) RequestReview(ctx context.Context, prID uuid.UUID) (*domain.Review, error) {
	pr, err := uc.prRepo.GetByID(ctx, prID)
	if err != nil {
		return nil, err
	}

	review, err := uc.reviewRepo.CreatePending(ctx, pr.ID, uc.lease)
	if err != nil {
		return nil, err
	}

	queued := *review
	err = uc.dispatcher.Submit("review:"+review.ID.String(), func(jobCtx context.Context) {
		defer uc.afterReview(pr.ID)
		if _, err := uc.execute(jobCtx, &queued, pr); err != nil {
			uc.logger.WithError(err).WithField("review_id", queued.ID).Error("Background review failed")
		}
	})
	if err != nil {
		_ = uc.fail(ctx, review, []domain.ToolError{{Tool: "queue", Error: err.Error()}})
		return nil, fmt.Errorf("failed to enqueue review: %w", err)
	}

	return review, nil
}

// ScheduleFollowUp запрашивает ревью PR. Если ревью уже идет, новое будет
// запрошено сразу после его завершения.
func (uc *ReviewUseCase) ScheduleFollowUp(ctx context.Context, prID uuid.UUID) error {
	uc.followMu.Lock()
	uc.followUps[prID] = struct{}{}
	uc.followMu.Unlock()

	_, err := uc.RequestReview(ctx, prID)
	if errors.Is(err, domain.ErrReviewInProgress) {
		uc.logger.WithField("pull_request_id", prID).Info("Review in progress, follow-up scheduled")
		return nil
	}

	uc.followMu.Lock()
	delete(uc.followUps, prID)
	uc.followMu.Unlock()
	return err
}

// afterReview запускает отложенное повторное ревью PR, если оно было запрошено.
func (uc *ReviewUseCase) afterReview(prID uuid.UUID) {
	uc.followMu.Lock()
	_, scheduled := uc.followUps[prID]
	delete(uc.followUps, prID)
	uc.followMu.Unlock()

	if !scheduled {
		return
	}

	review, err := uc.RequestReview(context.Background(), prID)
	if err != nil {
		uc.logger.WithError(err).WithField("pull_request_id", prID).Warn("Follow-up review was not queued")
		return
	}
	uc.logger.WithFields(logrus.Fields{
		"pull_request_id": prID,
		"review_id":       review.ID,
	}).Info("Follow-up review queued")
}

type analyzerResult struct {
	name   string
	drafts []domain.FindingDraft
	err    error
}

// execute проводит ревью, уже созданное в статусе pending.
func (uc *ReviewUseCase) execute(ctx context.Context, review *domain.Review, pr *domain.PullRequest) (*domain.Review, error) {
	log := uc.logger.WithFields(logrus.Fields{
		"review_id":       review.ID,
		"pull_request_id": pr.ID,
	})

	if err := ctx.Err(); err != nil {
		return uc.cancelled(ctx, review, err)
	}

	if uc.lease > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.lease)
		defer cancel()
	}

	startedAt := uc.now()
	if err := uc.reviewRepo.MarkInProgress(ctx, review.ID, startedAt); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return uc.cancelled(ctx, review, ctxErr)
		}
		if !errors.Is(err, domain.ErrReviewNotActive) {
			_ = uc.fail(ctx, review, nil)
		}
		return nil, fmt.Errorf("failed to start review: %w", err)
	}
	review.Status = domain.ReviewStatusInProgress
	review.StartedAt = &startedAt
	log.Info("Review started")

	diff, err := uc.diffs.GetDiff(ctx, pr)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return uc.cancelled(ctx, review, ctxErr)
		}
		log.WithError(err).Warn("Failed to fetch diff")
		if err := uc.fail(ctx, review, []domain.ToolError{{Tool: diffToolName, Error: err.Error()}}); err != nil {
			return nil, err
		}
		return review, nil
	}

	results := uc.runAnalyzers(ctx, diff)
	if err := ctx.Err(); err != nil {
		return uc.cancelled(ctx, review, err)
	}

	var (
		findings   []*domain.Finding
		toolErrors []domain.ToolError
	)
	for _, r := range results {
		if r.err != nil {
			log.WithError(r.err).WithField("tool", r.name).Warn("Analyzer failed")
			toolErrors = append(toolErrors, domain.ToolError{Tool: r.name, Error: r.err.Error()})
			continue
		}
		findings = append(findings, normalizeDrafts(review.ID, r.name, r.drafts)...)
	}

	if len(results) > 0 && len(toolErrors) == len(results) {
		log.WithError(domain.ErrAllAnalyzersFailed).Error("Review failed")
		if err := uc.fail(ctx, review, toolErrors); err != nil {
			return nil, err
		}
		return review, nil
	}

	counts := domain.CountSeverities(findings)
	score := domain.Score(counts)

	review.Status = domain.ReviewStatusCompleted
	review.OverallScore = &score
	review.CriticalCount = counts.Critical
	review.WarningCount = counts.Warning
	review.InfoCount = counts.Info
	review.ToolErrors = toolErrors
	review.Summary = uc.summarize(ctx, log, findings)
	completedAt := uc.now()
	review.CompletedAt = &completedAt

	if err := uc.reviewRepo.Complete(ctx, review, findings); err != nil {
		if errors.Is(err, domain.ErrReviewNotActive) {
			log.WithError(err).Warn("Review was finalized elsewhere, result discarded")
			return nil, fmt.Errorf("failed to save review: %w", err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return uc.cancelled(ctx, review, ctxErr)
		}
		_ = uc.fail(ctx, review, toolErrors)
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	log.WithFields(logrus.Fields{
		"score":    score,
		"findings": len(findings),
		"critical": counts.Critical,
	}).Info("Review completed")

	return review, nil
}

// runAnalyzers запускает анализаторы параллельно и ждет всех.
func (uc *ReviewUseCase) runAnalyzers(ctx context.Context, diff *domain.Diff) []analyzerResult {
	results := make([]analyzerResult, len(uc.analyzers))

	var g errgroup.Group
	for i, a := range uc.analyzers {
		i, a := i, a
		g.Go(func() error {
			results[i].name = a.Name()
			defer func() {
				if r := recover(); r != nil {
					results[i].err = fmt.Errorf("analyzer panicked: %v", r)
				}
			}()
			results[i].drafts, results[i].err = a.Analyze(ctx, diff)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// summarize возвращает nil, если резюме получить не удалось.
func (uc *ReviewUseCase) summarize(ctx context.Context, log *logrus.Entry, findings []*domain.Finding) *string {
	if uc.summarizer == nil {
		return nil
	}
	summaryCtx, cancel := uc.summaryContext(ctx)
	defer cancel()

	text, err := uc.summarizer.Summarize(summaryCtx, findings)
	if err != nil {
		log.WithError(err).Warn("Summary generation failed")
		return nil
	}
	return &text
}

// summaryContext ограничивает резюме SummaryTimeout и половиной времени,
// оставшегося до дедлайна ревью: сохранению результата всегда остается запас.
func (uc *ReviewUseCase) summaryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	budget := uc.summaryTTL
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline {
		if half := time.Until(deadline) / 2; budget <= 0 || half < budget {
			budget = half
		}
	}
	if !hasDeadline && budget <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, budget)
}

// fail переводит ревью в failed. Запись выполняется даже при отмененном ctx.
func (uc *ReviewUseCase) fail(ctx context.Context, review *domain.Review, toolErrors []domain.ToolError) error {
	completedAt := uc.now()
	review.Status = domain.ReviewStatusFailed
	review.OverallScore = nil
	review.Summary = nil
	review.CriticalCount, review.WarningCount, review.InfoCount = 0, 0, 0
	review.ToolErrors = toolErrors
	review.CompletedAt = &completedAt

	if err := uc.reviewRepo.MarkFailed(context.WithoutCancel(ctx), review); err != nil {
		uc.logger.WithError(err).WithField("review_id", review.ID).Error("Failed to mark review as failed")
		return fmt.Errorf("failed to mark review failed: %w", err)
	}
	return nil
}

func (uc *ReviewUseCase) cancelled(ctx context.Context, review *domain.Review, cause error) (*domain.Review, error) {
	uc.logger.WithField("review_id", review.ID).Warn("Review cancelled")
	if err := uc.fail(ctx, review, []domain.ToolError{{Tool: "review", Error: cause.Error()}}); err != nil {
		return nil, errors.Join(cause, err)
	}
	return review, fmt.Errorf("review cancelled: %w", cause)
}

func (uc *ReviewUseCase) GetReview(ctx context.Context, reviewID uuid.UUID) (*domain.Review, error) {
	if reviewID == uuid.Nil {
		return nil, domain.ErrInvalidReviewID
	}
	return uc.reviewRepo.GetByID(ctx, reviewID)
}

// ListReviews возвращает страницу ревью и общее количество по фильтру.
func (uc *ReviewUseCase) ListReviews(ctx context.Context, filter domain.ReviewFilter) ([]*domain.Review, int64, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, domain.ErrInvalidStatus
	}
	limit, err := pageLimit(filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	filter.Limit = limit

	return uc.reviewRepo.List(ctx, filter)
}

// ListFindings возвращает находки ревью. Counts считаются по всем находкам ревью, без учета фильтра.
func (uc *ReviewUseCase) ListFindings(ctx context.Context, reviewID uuid.UUID, filter domain.FindingFilter) (*domain.FindingList, error) {
	if reviewID == uuid.Nil {
		return nil, domain.ErrInvalidReviewID
	}
	if filter.Severity != nil && !filter.Severity.IsValid() {
		return nil, domain.ErrInvalidSeverity
	}
	if filter.Category != nil && !filter.Category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	limit, err := pageLimit(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	filter.Limit = limit

	if _, err := uc.reviewRepo.GetByID(ctx, reviewID); err != nil {
		return nil, err
	}

	findings, total, err := uc.findingRepo.ListByReview(ctx, reviewID, filter)
	if err != nil {
		return nil, err
	}

	counts, err := uc.findingRepo.CountBySeverity(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	return &domain.FindingList{
		Findings: findings,
		Total:    total,
		Counts:   counts,
	}, nil
}

func (uc *ReviewUseCase) DeleteReview(ctx context.Context, reviewID uuid.UUID) error {
	if reviewID == uuid.Nil {
		return domain.ErrInvalidReviewID
	}
	return uc.reviewRepo.Delete(ctx, reviewID)
}

// pageLimit проверяет пагинацию и подставляет размер страницы по умолчанию.
func pageLimit(limit, offset int) (int, error) {
	if limit < 0 || offset < 0 || limit > maxPageSize {
		return 0, domain.ErrInvalidPagination
	}
	if limit == 0 {
		return defaultPageSize, nil
	}
	return limit, nil
}
