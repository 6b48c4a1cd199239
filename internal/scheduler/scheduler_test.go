package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerationScheduler(t *testing.T) {
	t.Run("Start rejects invalid schedules", func(t *testing.T) {
		s := NewGenerationScheduler("every day", func(context.Context) error { return nil }, quietLogger())
		err := s.Start(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid cron schedule")
		assert.False(t, s.IsRunning())
		assert.Nil(t, s.NextRunTime())
	})

	t.Run("Start and Stop", func(t *testing.T) {
		s := NewGenerationScheduler("0 * * * *", func(context.Context) error { return nil }, quietLogger())
		require.NoError(t, s.Start(context.Background()))
		assert.True(t, s.IsRunning())

		next := s.NextRunTime()
		require.NotNil(t, next)
		assert.Equal(t, 0, next.Minute())

		s.Stop()
		assert.False(t, s.IsRunning())
		s.Stop()
	})

	t.Run("cancelling the context stops the scheduler", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		s := NewGenerationScheduler("*/5 * * * *", func(context.Context) error { return nil }, quietLogger())
		require.NoError(t, s.Start(ctx))

		cancel()
		assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
	})

	t.Run("RunNow runs the job and returns its error", func(t *testing.T) {
		var calls atomic.Int32
		jobErr := errors.New("boom")
		s := NewGenerationScheduler("0 * * * *", func(context.Context) error {
			calls.Add(1)
			return jobErr
		}, quietLogger())

		assert.ErrorIs(t, s.RunNow(context.Background()), jobErr)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("overlapping ticks are skipped", func(t *testing.T) {
		var calls atomic.Int32
		release := make(chan struct{})
		s := NewGenerationScheduler("0 * * * *", func(context.Context) error {
			calls.Add(1)
			<-release
			return nil
		}, quietLogger())
		s.ctx = context.Background()

		done := make(chan struct{})
		go func() {
			s.runJob()
			close(done)
		}()
		assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

		s.runJob()
		assert.Equal(t, int32(1), calls.Load())

		close(release)
		<-done
	})
}
