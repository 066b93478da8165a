// Package trackergc provides the adapter that garbage-collects expired
// download trackers.
package trackergc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hmodding/website-jobs/config"
	"github.com/hmodding/website-jobs/internal/core"
	"github.com/hmodding/website-jobs/internal/data"
	"github.com/hmodding/website-jobs/internal/observability/statsd"
	"github.com/hmodding/website-jobs/internal/service"
)

// Runner executes download tracker garbage collection on a self-rescheduling
// cadence.
type Runner struct {
	downloads *service.DownloadService
	interval  time.Duration
	logger    *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB     *sql.DB
	Redis  redis.UniversalClient
	Config config.DownloadsConfig
	Logger *slog.Logger

	// Optional dependency injection for testing/decoupling
	Trackers core.DownloadTrackerRepository
	Metrics  statsd.Sink
}

// NewRunner creates a new tracker GC runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := validateRunnerOptions(&opts); err != nil {
		return nil, err
	}

	downloads, err := service.NewDownloadService(service.DownloadServiceOptions{
		Trackers: opts.Trackers,
		Config:   opts.Config,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("wire download service: %w", err)
	}

	return &Runner{
		downloads: downloads,
		interval:  opts.Config.GCInterval,
		logger:    opts.Logger,
	}, nil
}

// validateRunnerOptions validates and sets defaults for RunnerOptions.
func validateRunnerOptions(opts *RunnerOptions) error {
	if opts.Config.GCInterval <= 0 {
		return errors.New("gc interval must be positive")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Trackers == nil {
		switch opts.Config.Backend {
		case config.DownloadsBackendRedis:
			if opts.Redis == nil {
				return errors.New("redis client is required for the redis backend")
			}
			opts.Trackers = data.NewRedisDownloadTrackerRepo(opts.Redis)
		default:
			if opts.DB == nil {
				return errors.New("database connection is required")
			}
			opts.Trackers = data.NewDownloadTrackerRepo(opts.DB)
		}
	}
	return nil
}

// Downloads exposes the download service so the bootstrap layer can track
// incoming hits.
func (r *Runner) Downloads() *service.DownloadService {
	return r.downloads
}

// Run collects immediately, then keeps collecting one interval after each
// pass completes until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting download tracker gc", "interval", r.interval)

	for {
		if _, err := r.downloads.CollectExpired(ctx); err != nil {
			r.logger.ErrorContext(ctx, "download tracker gc failed", "error", err)
		}

		timer := time.NewTimer(r.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			r.logger.InfoContext(ctx, "download tracker gc stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-timer.C:
		}
	}
}
