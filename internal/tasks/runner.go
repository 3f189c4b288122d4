// Package tasks runs best-effort side effects (view counters, stale image
// cleanup, alert emails) detached from the request that triggered them.
//
// Delivery is at most once. A task is attempted a single time, is not
// retried, and is lost if the process exits before it runs. Failures are
// logged and recorded on the returned Ticket, which callers may discard.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chucuoi/flower-storefront/internal/logger"
	"github.com/chucuoi/flower-storefront/internal/metrics"
)

var ErrRunnerClosed = errors.New("task runner is shut down")

// Func is the body of a detached task. ctx carries the caller's values but
// not its cancellation, and is bounded by the runner timeout.
type Func func(ctx context.Context) error

// Ticket tracks one detached task. It is safe to ignore.
type Ticket struct {
	name string
	done chan struct{}
	err  error
}

func (t *Ticket) Name() string { return t.name }

// Done is closed once the task has finished.
func (t *Ticket) Done() <-chan struct{} { return t.done }

// Err reports the task outcome. It is only meaningful after Done.
func (t *Ticket) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task finishes or ctx ends.
func (t *Ticket) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type Runner struct {
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Runner{timeout: timeout}
}

// Go starts fn in the background and returns immediately.
func (r *Runner) Go(ctx context.Context, name string, fn Func) *Ticket {
	ticket := &Ticket{name: name, done: make(chan struct{})}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		ticket.err = ErrRunnerClosed
		close(ticket.done)
		metrics.RecordDetachedTask(name, "rejected")

		return ticket
	}
	r.wg.Add(1)
	r.mu.Unlock()

	taskLogger := logger.FromContext(ctx).With(slog.String("task", name))
	detached := context.WithoutCancel(ctx)

	go func() {
		defer r.wg.Done()
		defer close(ticket.done)

		taskCtx, cancel := context.WithTimeout(detached, r.timeout)
		defer cancel()

		ticket.err = r.run(taskCtx, fn)

		if ticket.err != nil {
			taskLogger.Warn("Detached task failed", slog.String("error", ticket.err.Error()))
			metrics.RecordDetachedTask(name, "failed")

			return
		}

		taskLogger.Debug("Detached task completed")
		metrics.RecordDetachedTask(name, "succeeded")
	}()

	return ticket
}

func (r *Runner) run(ctx context.Context, fn Func) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task panicked: %v", p)
		}
	}()

	return fn(ctx)
}

// Shutdown stops accepting tasks and waits for in-flight ones until ctx ends.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for detached tasks: %w", ctx.Err())
	}
}
