package tasks_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chucuoi/flower-storefront/internal/logger"
	"github.com/chucuoi/flower-storefront/internal/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Go(t *testing.T) {
	t.Run("Success - Task runs detached from caller cancellation", func(t *testing.T) {
		// Arrange
		runner := tasks.NewRunner(time.Second)
		ctx, cancel := context.WithCancel(context.Background())
		started := make(chan struct{})
		release := make(chan struct{})

		// Act
		ticket := runner.Go(ctx, "test.detached", func(taskCtx context.Context) error {
			close(started)
			<-release
			return taskCtx.Err()
		})
		<-started
		cancel()
		close(release)

		// Assert
		require.NoError(t, ticket.Wait(context.Background()))
		assert.Equal(t, "test.detached", ticket.Name())
	})

	t.Run("Failure - Error is recorded on the ticket", func(t *testing.T) {
		// Arrange
		runner := tasks.NewRunner(time.Second)
		taskErr := errors.New("media host unavailable")

		// Act
		ticket := runner.Go(t.Context(), "test.failing", func(context.Context) error {
			return taskErr
		})

		// Assert
		assert.ErrorIs(t, ticket.Wait(t.Context()), taskErr)
		assert.ErrorIs(t, ticket.Err(), taskErr)
	})

	t.Run("Failure - Logged with the caller's logger", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		ctx := logger.WithContext(t.Context(), slog.New(slog.NewJSONHandler(&buf, nil)))
		runner := tasks.NewRunner(time.Second)

		// Act
		ticket := runner.Go(ctx, "test.logged", func(context.Context) error {
			return errors.New("quota exceeded")
		})
		require.Error(t, ticket.Wait(t.Context()))

		// Assert
		assert.Contains(t, buf.String(), `"msg":"Detached task failed"`)
		assert.Contains(t, buf.String(), `"task":"test.logged"`)
		assert.Contains(t, buf.String(), `"error":"quota exceeded"`)
	})

	t.Run("Failure - Panic is contained", func(t *testing.T) {
		runner := tasks.NewRunner(time.Second)

		ticket := runner.Go(t.Context(), "test.panic", func(context.Context) error {
			panic("boom")
		})

		err := ticket.Wait(t.Context())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("Failure - Timeout bounds the task", func(t *testing.T) {
		runner := tasks.NewRunner(20 * time.Millisecond)

		ticket := runner.Go(t.Context(), "test.slow", func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})

		assert.ErrorIs(t, ticket.Wait(t.Context()), context.DeadlineExceeded)
	})

	t.Run("Caller is not blocked", func(t *testing.T) {
		runner := tasks.NewRunner(time.Second)
		release := make(chan struct{})
		defer close(release)

		start := time.Now()
		ticket := runner.Go(t.Context(), "test.blocking", func(context.Context) error {
			<-release
			return nil
		})

		assert.Less(t, time.Since(start), 100*time.Millisecond)
		assert.NoError(t, ticket.Err(), "Err is nil while the task is still running")
	})
}

func TestRunner_Shutdown(t *testing.T) {
	t.Run("Success - Waits for in-flight tasks", func(t *testing.T) {
		runner := tasks.NewRunner(time.Second)
		var finished atomic.Int32

		for range 5 {
			runner.Go(t.Context(), "test.inflight", func(context.Context) error {
				time.Sleep(10 * time.Millisecond)
				finished.Add(1)
				return nil
			})
		}

		require.NoError(t, runner.Shutdown(t.Context()))
		assert.Equal(t, int32(5), finished.Load())
	})

	t.Run("Failure - Rejects tasks after shutdown", func(t *testing.T) {
		runner := tasks.NewRunner(time.Second)
		require.NoError(t, runner.Shutdown(t.Context()))

		ticket := runner.Go(t.Context(), "test.late", func(context.Context) error { return nil })

		assert.ErrorIs(t, ticket.Wait(t.Context()), tasks.ErrRunnerClosed)
	})

	t.Run("Failure - Deadline while waiting", func(t *testing.T) {
		runner := tasks.NewRunner(time.Second)
		release := make(chan struct{})
		defer close(release)

		runner.Go(t.Context(), "test.stuck", func(context.Context) error {
			<-release
			return nil
		})

		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()

		assert.ErrorIs(t, runner.Shutdown(ctx), context.DeadlineExceeded)
	})
}
