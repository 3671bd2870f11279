package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/mailcraft/pkg/logger"
)

// Runner executes fire-and-forget tasks that must outlive the request that
// started them. Tasks never report back to the caller; failures are logged.
type Runner struct {
	log     *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTaskTimeout bounds each task. Zero disables the bound.
func WithTaskTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = d
	}
}

// NewRunner creates a Runner that logs through log.
func NewRunner(log *slog.Logger, opts ...RunnerOption) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	r := &Runner{log: log.With(logger.Component("async"))}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Go starts fn in the background. The task context keeps ctx values (request
// id, logger extractors) but is never canceled by ctx.
func (r *Runner) Go(ctx context.Context, name string, fn func(context.Context) error) {
	taskCtx := context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		runCtx := taskCtx
		if r.timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(taskCtx, r.timeout)
			defer cancel()
		}

		start := time.Now()
		if err := guard(runCtx, fn); err != nil {
			r.log.ErrorContext(runCtx, "background task failed",
				logger.Event(name),
				logger.Duration(time.Since(start)),
				logger.Error(err),
			)
			return
		}
		r.log.DebugContext(runCtx, "background task finished",
			logger.Event(name),
			logger.Duration(time.Since(start)),
		)
	}()
}

// Wait blocks until every started task has returned or ctx ends.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
