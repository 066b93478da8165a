package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hmodding/website-jobs/config"
	"github.com/hmodding/website-jobs/internal/core"
	"github.com/hmodding/website-jobs/internal/data"
	"github.com/hmodding/website-jobs/internal/domain/model"
	"github.com/hmodding/website-jobs/internal/observability/metrics"
	"github.com/hmodding/website-jobs/internal/observability/statsd"
)

// DownloadServiceOptions groups dependencies for DownloadService.
type DownloadServiceOptions struct {
	Trackers core.DownloadTrackerRepository // Required: tracker repository
	Config   config.DownloadsConfig         // Required: tracking configuration
	Time     data.TimeProvider              // Optional: clock (defaults to real time)
	Logger   *slog.Logger                   // Optional: structured logger
	Metrics  statsd.Sink                    // Optional: metrics sink
}

// DownloadService deduplicates download counting. A caller/path pair counts
// as one view per tracking window; raw caller addresses are salted and
// hashed before they reach the store.
type DownloadService struct {
	trackers core.DownloadTrackerRepository
	cfg      config.DownloadsConfig
	time     data.TimeProvider
	logger   *slog.Logger
	metrics  statsd.Sink
}

// NewDownloadService constructs a new DownloadService.
func NewDownloadService(opts DownloadServiceOptions) (*DownloadService, error) {
	if opts.Trackers == nil {
		return nil, errors.New("DownloadTrackerRepository is required")
	}
	if opts.Time == nil {
		opts.Time = &data.RealTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "download_service")
	}

	return &DownloadService{
		trackers: opts.Trackers,
		cfg:      opts.Config,
		time:     opts.Time,
		logger:   logger,
		metrics:  opts.Metrics,
	}, nil
}

// TrackDownload registers a download hit. onFirstView runs only when the
// hit opened a fresh tracking window; duplicate hits inside a live window
// do nothing. Returns whether the hit counted as a first view.
func (s *DownloadService) TrackDownload(
	ctx context.Context,
	callerAddr, path string,
	onFirstView func(),
) (bool, error) {
	if callerAddr == "" || path == "" {
		return false, errors.New("caller address and path are required")
	}

	now := s.time.Now().UTC()
	first, err := s.trackers.Touch(ctx, core.TouchDownloadParams{
		IPHash:    model.HashCallerAddress(callerAddr, s.cfg.Salt),
		Path:      path,
		Now:       now,
		ExpiresAt: now.Add(s.cfg.Window),
	})
	if err != nil {
		return false, fmt.Errorf("track download of %s: %w", path, err)
	}

	if first {
		if s.metrics != nil {
			s.metrics.Count("downloads.counted", 1, nil)
		}
		if onFirstView != nil {
			onFirstView()
		}
	}
	return first, nil
}

// CollectExpired garbage-collects trackers whose window has elapsed. The
// Redis backend expires keys natively, in which case this is a no-op.
func (s *DownloadService) CollectExpired(ctx context.Context) (int64, error) {
	start := time.Now()

	removed, err := s.trackers.DeleteExpired(ctx, s.time.Now().UTC())
	if err != nil {
		metrics.EmitSweep(s.metrics, metrics.SweepMetric{Sweep: "download_gc", Err: err})
		return 0, fmt.Errorf("collect expired download trackers: %w", err)
	}

	if removed > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "expired download trackers removed", "removed", removed)
	}
	metrics.EmitSweep(s.metrics, metrics.SweepMetric{
		Sweep:     "download_gc",
		Processed: removed,
		Elapsed:   time.Since(start),
	})
	return removed, nil
}
