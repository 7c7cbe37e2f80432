package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"code-review-service/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// NewBreaker создает предохранитель, который размыкается после threshold
// подряд идущих отказов и через cooldown пропускает один пробный вызов.
func NewBreaker(name string, threshold int, cooldown time.Duration, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	if threshold <= 0 {
		threshold = 1
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		IsSuccessful: func(err error) bool {
			var c *cancelledError
			return err == nil || errors.As(err, &c)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
}

// cancelledError помечает отказ из-за отмены внешнего ctx: он не считается сбоем зависимости.
type cancelledError struct {
	err error
}

func (e *cancelledError) Error() string { return e.err.Error() }

func (e *cancelledError) Unwrap() error { return e.err }

// execute выполняет fn через предохранитель с собственным таймаутом.
func execute[T any](ctx context.Context, cb *gobreaker.CircuitBreaker, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	result, err := cb.Execute(func() (interface{}, error) {
		runCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		value, err := fn(runCtx)
		if err != nil && ctx.Err() != nil {
			return nil, &cancelledError{err: err}
		}
		return value, err
	})

	var c *cancelledError
	switch {
	case errors.As(err, &c):
		return zero, c.err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return zero, fmt.Errorf("%s: %w", cb.Name(), domain.ErrAnalyzerOpen)
	case err != nil:
		return zero, err
	}
	return result.(T), nil
}

// Guard изолирует анализатор: собственный таймаут и предохранитель.
type Guard struct {
	inner   domain.Analyzer
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
}

// NewGuard оборачивает анализатор.
func NewGuard(inner domain.Analyzer, timeout time.Duration, breaker *gobreaker.CircuitBreaker) *Guard {
	return &Guard{
		inner:   inner,
		timeout: timeout,
		breaker: breaker,
	}
}

func (g *Guard) Name() string {
	return g.inner.Name()
}

func (g *Guard) Analyze(ctx context.Context, diff *domain.Diff) ([]domain.FindingDraft, error) {
	return execute(ctx, g.breaker, g.timeout, func(runCtx context.Context) ([]domain.FindingDraft, error) {
		return g.inner.Analyze(runCtx, diff)
	})
}

// GuardedSummarizer ограничивает основной генератор резюме таймаутом и
// предохранителем, при любом отказе отдает резюме запасного.
type GuardedSummarizer struct {
	primary  domain.Summarizer
	fallback domain.Summarizer
	timeout  time.Duration
	breaker  *gobreaker.CircuitBreaker
	logger   *logrus.Logger
}

func NewGuardedSummarizer(primary, fallback domain.Summarizer, timeout time.Duration, breaker *gobreaker.CircuitBreaker, logger *logrus.Logger) *GuardedSummarizer {
	return &GuardedSummarizer{
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
		breaker:  breaker,
		logger:   logger,
	}
}

func (s *GuardedSummarizer) Summarize(ctx context.Context, findings []*domain.Finding) (string, error) {
	text, err := execute(ctx, s.breaker, s.timeout, func(runCtx context.Context) (string, error) {
		return s.primary.Summarize(runCtx, findings)
	})
	if err == nil {
		return text, nil
	}

	s.logger.WithError(err).Warn("Summary generation failed, using template")
	return s.fallback.Summarize(ctx, findings)
}
