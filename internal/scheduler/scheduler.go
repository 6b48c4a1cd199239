package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job performs one full vault rebuild.
type Job func(ctx context.Context) error

// Parser accepts standard five-field cron specs.
var Parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// GenerationScheduler runs a Job on a cron schedule. Ticks never overlap:
// a tick that fires while the previous rebuild is still running is skipped.
type GenerationScheduler struct {
	schedule string
	job      Job
	logger   *slog.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
	ctx       context.Context
	jobMu     sync.Mutex
}

func NewGenerationScheduler(schedule string, job Job, logger *slog.Logger) *GenerationScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationScheduler{
		schedule: schedule,
		job:      job,
		logger:   logger,
		cron:     cron.New(cron.WithParser(Parser)),
	}
}

// Start registers the job and starts the cron loop. The scheduler stops
// when ctx is cancelled.
func (s *GenerationScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.runJob)
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID
	// Set before the cron loop starts; runJob reads it without the lock.
	s.ctx = ctx

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("scheduler started",
		slog.String("schedule", s.schedule),
		slog.String("description", Describe(s.schedule)),
		slog.Time("next_run", s.cron.Entry(entryID).Next),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running rebuild to complete.
func (s *GenerationScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false

	s.logger.Info("scheduler stopped")
}

// RunNow performs a rebuild synchronously, outside the schedule.
func (s *GenerationScheduler) RunNow(ctx context.Context) error {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	return s.job(ctx)
}

func (s *GenerationScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns nil when the scheduler is not running.
func (s *GenerationScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	t := s.cron.Entry(s.entryID).Next
	return &t
}

func (s *GenerationScheduler) runJob() {
	if !s.jobMu.TryLock() {
		s.logger.Warn("previous rebuild still running, skipping tick")
		return
	}
	defer s.jobMu.Unlock()

	started := time.Now()
	if err := s.job(s.ctx); err != nil {
		s.logger.Error("scheduled rebuild failed", slog.Any("error", err))
		return
	}
	s.logger.Info("scheduled rebuild finished", slog.Duration("duration", time.Since(started).Round(time.Millisecond)))
}
