package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull   = errors.New("review queue is full")
	ErrPoolStopped = errors.New("review queue is stopped")
)

// Job выполняется воркером. Контекст уже отменен, если пул останавливается
// раньше, чем задача дошла до исполнения.
type Job func(ctx context.Context)

type task struct {
	name string
	fn   Job
}

// Pool представляет ограниченный пул воркеров фоновых ревью.
type Pool struct {
	mu      sync.RWMutex
	queue   chan task
	stopped bool

	draining atomic.Bool
	baseCtx  context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	workers int
	timeout time.Duration
	logger  *logrus.Logger
}

// NewPool создает пул. timeout ограничивает одну задачу, 0 отключает ограничение.
func NewPool(workers, queueSize int, timeout time.Duration, logger *logrus.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers * 16
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		queue:   make(chan task, queueSize),
		baseCtx: ctx,
		cancel:  cancel,
		workers: workers,
		timeout: timeout,
		logger:  logger,
	}
}

// Start запускает воркеры.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.loop(i)
	}
	p.logger.WithField("workers", p.workers).Info("Review workers started")
}

// Submit ставит задачу в очередь без блокировки.
func (p *Pool) Submit(name string, fn Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.queue <- task{name: name, fn: fn}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop перестает принимать задачи, отменяет еще не начатые и ждет выполняющиеся.
// Если ctx истекает раньше, выполняющиеся задачи тоже отменяются.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		// draining до close: задача, взятая из закрытой очереди, всегда получает отмененный ctx
		p.draining.Store(true)
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return ctx.Err()
	}
}

func (p *Pool) loop(id int) {
	defer p.wg.Done()
	for t := range p.queue {
		p.run(id, t)
	}
}

func (p *Pool) run(id int, t task) {
	log := p.logger.WithFields(logrus.Fields{"worker": id, "job": t.name})

	ctx, cancel := context.WithCancel(p.baseCtx)
	defer cancel()
	if p.draining.Load() {
		cancel()
		log.Warn("Job cancelled by shutdown")
	} else if p.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Job panicked")
		}
	}()

	start := time.Now()
	t.fn(ctx)
	log.WithField("duration", time.Since(start).String()).Debug("Job finished")
}
