// Package scanner provides the adapter that runs the virus-scan worker:
// startup reconciliation followed by the rate-limited dispatch loop.
package scanner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hmodding/website-jobs/config"
	"github.com/hmodding/website-jobs/internal/adapters/virustotal"
	"github.com/hmodding/website-jobs/internal/core"
	"github.com/hmodding/website-jobs/internal/data"
	"github.com/hmodding/website-jobs/internal/observability/statsd"
	"github.com/hmodding/website-jobs/internal/service"
)

// Runner wires the scan workflow engine, the startup reconciler and the
// rate-limited dispatcher, and runs them as one unit.
type Runner struct {
	dispatcher *service.RateLimitedDispatcher
	resume     *service.ResumeService
	scans      *service.ScanService
	logger     *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB     *sql.DB
	Files  core.FileStore
	Config config.ScanConfig
	Logger *slog.Logger

	// Optional dependency injection for testing/decoupling
	Records  core.ScanRecordRepository
	Provider core.ScanProvider
	Metrics  statsd.Sink
}

// NewRunner creates a new scan worker runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := validateRunnerOptions(&opts); err != nil {
		return nil, err
	}

	dispatcher, err := service.NewRateLimitedDispatcher(service.DispatcherOptions{
		Interval: opts.Config.DispatchInterval,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("wire dispatcher: %w", err)
	}

	scans, err := service.NewScanService(service.ScanServiceOptions{
		Records:    opts.Records,
		Provider:   opts.Provider,
		Dispatcher: dispatcher,
		Config:     opts.Config,
		Logger:     opts.Logger,
		Metrics:    opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("wire scan service: %w", err)
	}

	resume, err := service.NewResumeService(service.ResumeServiceOptions{
		Records: opts.Records,
		Files:   opts.Files,
		Scans:   scans,
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("wire resume service: %w", err)
	}

	return &Runner{
		dispatcher: dispatcher,
		resume:     resume,
		scans:      scans,
		logger:     opts.Logger,
	}, nil
}

// validateRunnerOptions validates and sets defaults for RunnerOptions.
func validateRunnerOptions(opts *RunnerOptions) error {
	if opts.Files == nil {
		return errors.New("file store is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Records == nil {
		if opts.DB == nil {
			return errors.New("database connection is required")
		}
		opts.Records = data.NewScanRecordRepo(opts.DB)
	}

	if opts.Provider == nil {
		provider, err := virustotal.NewClient(virustotal.Config{
			BaseURL: opts.Config.ProviderBaseURL,
			APIKey:  opts.Config.ProviderAPIKey,
		})
		if err != nil {
			return fmt.Errorf("wire scan provider: %w", err)
		}
		opts.Provider = provider
	}

	return nil
}

// Scans exposes the workflow engine so the bootstrap layer can hand new
// uploads to it.
func (r *Runner) Scans() *service.ScanService {
	return r.scans
}

// Run reconciles unfinished scan records from the database and then serves
// the dispatch loop until the context is cancelled. In-memory queue state is
// disposable; a restart rebuilds it from persisted records.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting scan worker")

	if _, err := r.resume.Resume(ctx); err != nil {
		return fmt.Errorf("resume unfinished scans: %w", err)
	}

	return r.dispatcher.Run(ctx)
}
