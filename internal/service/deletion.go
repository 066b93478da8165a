package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hmodding/website-jobs/config"
	"github.com/hmodding/website-jobs/internal/core"
	"github.com/hmodding/website-jobs/internal/data"
	"github.com/hmodding/website-jobs/internal/domain/model"
	"github.com/hmodding/website-jobs/internal/observability/metrics"
	"github.com/hmodding/website-jobs/internal/observability/statsd"
)

// DeletionRepos groups the repositories the teardown sequence touches.
type DeletionRepos struct {
	Schedules   core.DeletionScheduleRepository
	ScanRecords core.ScanRecordRepository
	Mods        core.ModRepository
}

// DeletionServiceOptions groups dependencies for DeletionService.
type DeletionServiceOptions struct {
	Repos   DeletionRepos          // Required: schedule, scan record and mod repositories
	Files   core.FileStore         // Required: file store for tree removal
	Config  config.DeletionConfig  // Required: deletion configuration
	Time    data.TimeProvider      // Optional: clock (defaults to real time)
	Logger  *slog.Logger           // Optional: structured logger
	Metrics statsd.Sink            // Optional: metrics sink
}

// DeletionService schedules delayed entity deletions and executes the
// recurring sweep that tears down entities whose grace period has elapsed.
type DeletionService struct {
	schedules   core.DeletionScheduleRepository
	scanRecords core.ScanRecordRepository
	mods        core.ModRepository
	files       core.FileStore
	cfg         config.DeletionConfig
	time        data.TimeProvider
	logger      *slog.Logger
	metrics     statsd.Sink
}

// NewDeletionService constructs a new DeletionService.
func NewDeletionService(opts DeletionServiceOptions) (*DeletionService, error) {
	if opts.Repos.Schedules == nil {
		return nil, errors.New("DeletionScheduleRepository is required")
	}
	if opts.Repos.ScanRecords == nil {
		return nil, errors.New("ScanRecordRepository is required")
	}
	if opts.Repos.Mods == nil {
		return nil, errors.New("ModRepository is required")
	}
	if opts.Files == nil {
		return nil, errors.New("FileStore is required")
	}
	if opts.Time == nil {
		opts.Time = &data.RealTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "deletion_service")
	}

	return &DeletionService{
		schedules:   opts.Repos.Schedules,
		scanRecords: opts.Repos.ScanRecords,
		mods:        opts.Repos.Mods,
		files:       opts.Files,
		cfg:         opts.Config,
		time:        opts.Time,
		logger:      logger,
		metrics:     opts.Metrics,
	}, nil
}

// ScheduleDeletion marks an entity for removal after the configured grace
// interval. Scheduling an entity without a stored mod row returns
// data.ErrModNotFound. A second request while a schedule is pending returns
// data.ErrDeletionAlreadyScheduled and leaves the existing delete time
// untouched; both messages are safe to show to the requesting user.
func (s *DeletionService) ScheduleDeletion(
	ctx context.Context,
	entityID, issuer string,
) (*model.DeletionSchedule, error) {
	sched, err := model.NewDeletionSchedule(model.NewDeletionScheduleParams{
		EntityID: entityID,
		IssuedBy: issuer,
		Now:      s.time.Now().UTC(),
		Interval: s.cfg.Interval,
	})
	if err != nil {
		return nil, err
	}

	exists, err := s.mods.Exists(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("check entity %s: %w", entityID, err)
	}
	if !exists {
		return nil, data.ErrModNotFound
	}

	if err := s.schedules.Create(ctx, sched); err != nil {
		if errors.Is(err, data.ErrDeletionAlreadyScheduled) {
			return nil, err
		}
		return nil, fmt.Errorf("schedule deletion of %s: %w", entityID, err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "deletion scheduled",
			"entity_id", sched.EntityID,
			"issued_by", sched.IssuedBy,
			"delete_at", sched.DeleteAt)
	}
	if s.metrics != nil {
		s.metrics.Count("deletion.scheduled", 1, nil)
	}

	return sched, nil
}

// Sweep tears down every entity whose deletion time has elapsed and
// returns the number of entities fully removed. A failing teardown is
// logged and skipped; the schedule row survives, so the next sweep retries
// that entity from the top.
func (s *DeletionService) Sweep(ctx context.Context) (int, error) {
	start := time.Now()
	now := s.time.Now().UTC()

	// Correlates all log lines of one sweep run.
	sweepID := uuid.NewString()

	due, err := s.schedules.FindDue(ctx, now, s.cfg.BatchSize)
	if err != nil {
		metrics.EmitSweep(s.metrics, metrics.SweepMetric{Sweep: "deletion", Err: err})
		return 0, fmt.Errorf("find due deletions: %w", err)
	}

	processed := 0
	for _, sched := range due {
		if ctx.Err() != nil {
			break
		}
		if err := s.teardown(ctx, sched.EntityID); err != nil {
			if s.logger != nil {
				s.logger.ErrorContext(ctx, "entity teardown failed",
					"sweep_id", sweepID,
					"entity_id", sched.EntityID, "error", err)
			}
			continue
		}
		processed++
		if s.logger != nil {
			s.logger.InfoContext(ctx, "expired entity removed",
				"sweep_id", sweepID,
				"entity_id", sched.EntityID,
				"scheduled_by", sched.IssuedBy,
				"delete_at", sched.DeleteAt)
		}
	}

	metrics.EmitSweep(s.metrics, metrics.SweepMetric{
		Sweep:     "deletion",
		Processed: int64(processed),
		Elapsed:   time.Since(start),
	})
	return processed, nil
}

// teardownStep names one stage of the ordered teardown sequence.
type teardownStep struct {
	name string
	fn   func(ctx context.Context, entityID string) error
}

// teardown runs the strictly ordered, best-effort removal sequence. The
// first failing step aborts the rest for this entity; every step is
// idempotent so retrying from the top is safe. The schedule row is removed
// before the root row.
func (s *DeletionService) teardown(ctx context.Context, entityID string) error {
	steps := []teardownStep{
		{name: "delete file tree", fn: s.deleteFileTree},
		{name: "delete scan records", fn: s.deleteScanRecords},
		{name: "delete versions", fn: s.deleteVersions},
		{name: "delete schedule", fn: s.deleteSchedule},
		{name: "delete root row", fn: s.deleteRoot},
	}

	for _, step := range steps {
		if err := step.fn(ctx, entityID); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

func (s *DeletionService) deleteFileTree(ctx context.Context, entityID string) error {
	return s.files.DeleteTree(ctx, model.FilePrefix(entityID))
}

func (s *DeletionService) deleteScanRecords(ctx context.Context, entityID string) error {
	removed, err := s.scanRecords.DeleteByPathPrefix(ctx, model.FilePrefix(entityID))
	if err != nil {
		return err
	}
	if removed > 0 && s.logger != nil {
		s.logger.DebugContext(ctx, "cascaded scan records", "entity_id", entityID, "removed", removed)
	}
	return nil
}

func (s *DeletionService) deleteVersions(ctx context.Context, entityID string) error {
	_, err := s.mods.DeleteVersions(ctx, entityID)
	return err
}

func (s *DeletionService) deleteSchedule(ctx context.Context, entityID string) error {
	_, err := s.schedules.Delete(ctx, entityID)
	return err
}

func (s *DeletionService) deleteRoot(ctx context.Context, entityID string) error {
	_, err := s.mods.Delete(ctx, entityID)
	return err
}
