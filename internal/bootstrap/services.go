package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/hmodding/website-jobs/config"
	"github.com/hmodding/website-jobs/internal/adapters/localfs"
	"github.com/hmodding/website-jobs/internal/adapters/objstore"
	"github.com/hmodding/website-jobs/internal/adapters/scanner"
	"github.com/hmodding/website-jobs/internal/adapters/sweeper"
	"github.com/hmodding/website-jobs/internal/adapters/trackergc"
	"github.com/hmodding/website-jobs/internal/core"
	"github.com/hmodding/website-jobs/internal/observability/statsd"
	"github.com/hmodding/website-jobs/internal/service"
)

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	DB     *sql.DB
	Redis  redis.UniversalClient
	Logger *slog.Logger
}

// namedRunner pairs a background loop with a name for logs.
type namedRunner struct {
	name string
	run  func(ctx context.Context) error
}

// ServiceContainer holds the wired services and their background runners.
// Service fields are nil when the corresponding mode is disabled.
type ServiceContainer struct {
	Scans     *service.ScanService
	Deletions *service.DeletionService
	Downloads *service.DownloadService
	Files     core.FileStore
	Metrics   *statsd.Client

	logger  *slog.Logger
	runners []namedRunner
}

// NewServices wires every enabled service mode and its dependencies.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("service dependencies are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	container := &ServiceContainer{logger: logger}

	container.Metrics = buildMetricsSink(logger, cfg.Observability)
	var metrics statsd.Sink
	if container.Metrics != nil {
		metrics = container.Metrics
	}

	files, err := buildFileStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("wire file store: %w", err)
	}
	container.Files = files

	if cfg.IsScannerEnabled() {
		runner, err := scanner.NewRunner(scanner.RunnerOptions{
			DB:      deps.DB,
			Files:   files,
			Config:  cfg.Scan,
			Logger:  logger,
			Metrics: metrics,
		})
		if err != nil {
			return nil, fmt.Errorf("wire scan worker: %w", err)
		}
		container.Scans = runner.Scans()
		container.runners = append(container.runners, namedRunner{name: "scanner", run: runner.Run})
	}

	if cfg.IsDeletionSweeperEnabled() {
		runner, err := sweeper.NewRunner(sweeper.RunnerOptions{
			DB:      deps.DB,
			Files:   files,
			Config:  cfg.Deletion,
			Logger:  logger,
			Metrics: metrics,
		})
		if err != nil {
			return nil, fmt.Errorf("wire deletion sweeper: %w", err)
		}
		container.Deletions = runner.Deletions()
		container.runners = append(container.runners, namedRunner{name: "deletion-sweeper", run: runner.Run})
	}

	if cfg.IsDownloadGCEnabled() {
		runner, err := trackergc.NewRunner(trackergc.RunnerOptions{
			DB:      deps.DB,
			Redis:   deps.Redis,
			Config:  cfg.Downloads,
			Logger:  logger,
			Metrics: metrics,
		})
		if err != nil {
			return nil, fmt.Errorf("wire download tracker gc: %w", err)
		}
		container.Downloads = runner.Downloads()
		container.runners = append(container.runners, namedRunner{name: "download-gc", run: runner.Run})
	}

	return container, nil
}

// buildMetricsSink configures the StatsD client, or returns nil when metrics
// are disabled or the client cannot be initialised.
func buildMetricsSink(logger *slog.Logger, cfg config.ObservabilityConfig) *statsd.Client {
	if !cfg.Metrics.IsEnabled() {
		return nil
	}

	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.Metrics.StatsdAddress,
		Prefix:  "modjobs",
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

// buildFileStore selects the storage backend.
//
//nolint:ireturn // the backend is chosen at runtime from configuration.
func buildFileStore(cfg config.StorageConfig) (core.FileStore, error) {
	if cfg.Backend == config.StorageBackendS3 {
		return objstore.NewStore(cfg)
	}
	return localfs.NewStore(cfg.Root)
}

// Run starts every enabled background runner and blocks until a shutdown
// signal arrives or a runner fails. A clean SIGINT/SIGTERM shutdown returns
// nil; queued in-memory work is dropped and rebuilt from the database on the
// next start.
func (c *ServiceContainer) Run(ctx context.Context) error {
	if len(c.runners) == 0 {
		return errors.New("no services enabled")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, gctx := errgroup.WithContext(ctx)
	for _, runner := range c.runners {
		runner := runner
		c.logger.InfoContext(ctx, "starting service", "service", runner.name)
		group.Go(func() error {
			if err := runner.run(gctx); err != nil {
				return fmt.Errorf("%s: %w", runner.name, err)
			}
			c.logger.Info("service stopped", "service", runner.name)
			return nil
		})
	}

	err := group.Wait()

	if c.Metrics != nil {
		if closeErr := c.Metrics.Close(); closeErr != nil {
			c.logger.Error("close statsd client failed", "error", closeErr)
		}
	}

	return err
}
