// Package sweeper provides the adapter that runs the recurring deletion
// sweep.
package sweeper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hmodding/website-jobs/config"
	"github.com/hmodding/website-jobs/internal/core"
	"github.com/hmodding/website-jobs/internal/data"
	"github.com/hmodding/website-jobs/internal/observability/statsd"
	"github.com/hmodding/website-jobs/internal/service"
)

// Runner executes deletion sweeps on a self-rescheduling cadence: the pause
// until the next sweep starts only after the current one finishes, so a slow
// sweep never overlaps the next.
type Runner struct {
	deletions *service.DeletionService
	interval  time.Duration
	logger    *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB     *sql.DB
	Files  core.FileStore
	Config config.DeletionConfig
	Logger *slog.Logger

	// Optional dependency injection for testing/decoupling
	Schedules   core.DeletionScheduleRepository
	ScanRecords core.ScanRecordRepository
	Mods        core.ModRepository
	Metrics     statsd.Sink
}

// NewRunner creates a new deletion sweeper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := validateRunnerOptions(&opts); err != nil {
		return nil, err
	}

	deletions, err := service.NewDeletionService(service.DeletionServiceOptions{
		Repos: service.DeletionRepos{
			Schedules:   opts.Schedules,
			ScanRecords: opts.ScanRecords,
			Mods:        opts.Mods,
		},
		Files:   opts.Files,
		Config:  opts.Config,
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("wire deletion service: %w", err)
	}

	return &Runner{
		deletions: deletions,
		interval:  opts.Config.SweepInterval,
		logger:    opts.Logger,
	}, nil
}

// validateRunnerOptions validates and sets defaults for RunnerOptions.
func validateRunnerOptions(opts *RunnerOptions) error {
	if opts.Files == nil {
		return errors.New("file store is required")
	}
	if opts.Config.SweepInterval <= 0 {
		return errors.New("sweep interval must be positive")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	needsDB := opts.Schedules == nil || opts.ScanRecords == nil || opts.Mods == nil
	if needsDB && opts.DB == nil {
		return errors.New("database connection is required")
	}
	if opts.Schedules == nil {
		opts.Schedules = data.NewDeletionScheduleRepo(opts.DB)
	}
	if opts.ScanRecords == nil {
		opts.ScanRecords = data.NewScanRecordRepo(opts.DB)
	}
	if opts.Mods == nil {
		opts.Mods = data.NewModRepo(opts.DB)
	}
	return nil
}

// Deletions exposes the deletion service so the bootstrap layer can accept
// new schedule requests.
func (r *Runner) Deletions() *service.DeletionService {
	return r.deletions
}

// Run sweeps immediately, then keeps sweeping one interval after each sweep
// completes until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting deletion sweeper", "interval", r.interval)

	for {
		r.sweep(ctx)

		timer := time.NewTimer(r.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			r.logger.InfoContext(ctx, "deletion sweeper stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Runner) sweep(ctx context.Context) {
	processed, err := r.deletions.Sweep(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "deletion sweep failed", "error", err)
		return
	}
	if processed > 0 {
		r.logger.InfoContext(ctx, "deletion sweep finished", "processed", processed)
	}
}
