// Package cron runs the periodic reset of the demo todo list.
package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// TodoPurger deletes todos created before a unix timestamp.
type TodoPurger interface {
	PurgeTodos(ctx context.Context, cutoffTs int64) (int64, error)
}

// PurgeRecorder observes how many todos a run removed.
type PurgeRecorder interface {
	RecordTodosPurged(count int64)
}

// TodoReset deletes todos older than the retention window on a cron schedule,
// so visitors' demo entries do not accumulate.
type TodoReset struct {
	purger    TodoPurger
	recorder  PurgeRecorder
	schedule  string
	retention time.Duration
	now       func() time.Time

	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

func NewTodoReset(purger TodoPurger, schedule string, retention time.Duration, recorder PurgeRecorder) *TodoReset {
	return &TodoReset{
		purger:    purger,
		recorder:  recorder,
		schedule:  schedule,
		retention: retention,
		now:       time.Now,
		cron:      cron.New(),
		logger:    slog.Default().With("component", "todo.reset"),
	}
}

// Start schedules the job. An empty schedule disables it.
//
// Common schedules:
//   - "@daily"       - Every day at midnight
//   - "0 */6 * * *"  - Every 6 hours
func (r *TodoReset) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.schedule == "" {
		r.logger.Info("todo reset schedule not configured, skipping")
		return nil
	}
	if r.retention <= 0 {
		return fmt.Errorf("todo retention must be positive, got %s", r.retention)
	}

	if _, err := cron.ParseStandard(r.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", r.schedule, err)
	}

	if _, err := r.cron.AddFunc(r.schedule, func() {
		if _, err := r.RunOnce(ctx); err != nil {
			r.logger.Error("scheduled todo reset failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule todo reset: %w", err)
	}

	r.cron.Start()
	r.running = true
	r.logger.Info("todo reset scheduler started",
		"schedule", r.schedule,
		"retention", r.retention.String(),
	)
	return nil
}

// RunOnce deletes todos older than the retention window.
func (r *TodoReset) RunOnce(ctx context.Context) (int64, error) {
	cutoff := r.now().Add(-r.retention).Unix()
	deleted, err := r.purger.PurgeTodos(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if r.recorder != nil {
		r.recorder.RecordTodosPurged(deleted)
	}
	if deleted > 0 {
		r.logger.Info("todo reset completed", "deleted_count", deleted)
	} else {
		r.logger.Debug("todo reset completed, nothing to delete")
	}
	return deleted, nil
}

// Stop stops the scheduler and waits for a running job to complete.
func (r *TodoReset) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		<-r.cron.Stop().Done()
		r.running = false
		r.logger.Info("todo reset scheduler stopped")
	}
}

func (r *TodoReset) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// NextRun returns the next scheduled run, or nil when not scheduled.
func (r *TodoReset) NextRun() *time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
