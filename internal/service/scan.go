package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/hmodding/website-jobs/config"
	"github.com/hmodding/website-jobs/internal/core"
	"github.com/hmodding/website-jobs/internal/data"
	"github.com/hmodding/website-jobs/internal/domain/model"
	"github.com/hmodding/website-jobs/internal/observability/metrics"
	"github.com/hmodding/website-jobs/internal/observability/statsd"
)

// ScanServiceOptions groups dependencies for ScanService.
type ScanServiceOptions struct {
	Records    core.ScanRecordRepository // Required: scan record repository
	Provider   core.ScanProvider         // Required: external scan provider
	Dispatcher core.Dispatcher           // Required: rate-limited dispatcher
	Config     config.ScanConfig         // Required: scan configuration
	Time       data.TimeProvider         // Optional: clock (defaults to real time)
	Logger     *slog.Logger              // Optional: structured logger
	Metrics    statsd.Sink               // Optional: metrics sink
}

// ScanService orchestrates the per-file virus-scan workflow:
// create-record, rate-limited submit, delayed poll, retry-until-ready,
// persist-result.
//
// Failures at submit or poll time are logged and the attempt is abandoned;
// the resume-on-startup reconciler is the sole recovery path for stuck
// records.
type ScanService struct {
	records    core.ScanRecordRepository
	provider   core.ScanProvider
	dispatcher core.Dispatcher
	cfg        config.ScanConfig
	time       data.TimeProvider
	logger     *slog.Logger
	metrics    statsd.Sink

	// inflight suppresses duplicate submissions for a file URL while a
	// submit/poll cycle is active in this process. Cross-restart duplicates
	// are degraded to a no-op by the idempotent record creation instead.
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewScanService constructs a new ScanService.
func NewScanService(opts ScanServiceOptions) (*ScanService, error) {
	if opts.Records == nil {
		return nil, errors.New("ScanRecordRepository is required")
	}
	if opts.Provider == nil {
		return nil, errors.New("ScanProvider is required")
	}
	if opts.Dispatcher == nil {
		return nil, errors.New("Dispatcher is required")
	}
	if opts.Time == nil {
		opts.Time = &data.RealTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "scan_service")
	}

	return &ScanService{
		records:    opts.Records,
		provider:   opts.Provider,
		dispatcher: opts.Dispatcher,
		cfg:        opts.Config,
		time:       opts.Time,
		logger:     logger,
		metrics:    opts.Metrics,
		inflight:   make(map[string]struct{}),
	}, nil
}

// EnsureRecord creates the scan record for a file URL if none exists.
// Calling it twice produces exactly one stored record.
func (s *ScanService) EnsureRecord(ctx context.Context, fileURL string) (*model.ScanRecord, error) {
	rec, err := s.records.Create(ctx, fileURL)
	if err != nil {
		return nil, fmt.Errorf("ensure scan record: %w", err)
	}
	return rec, nil
}

// SubmitForScan hands a file to the external provider. The record is
// created if absent; a record that already has a report is never
// re-dispatched, and a URL with an active submit/poll cycle in this process
// is suppressed as a duplicate.
func (s *ScanService) SubmitForScan(ctx context.Context, contents []byte, fileName, fileURL string) error {
	rec, err := s.EnsureRecord(ctx, fileURL)
	if err != nil {
		return err
	}

	if rec.State() == model.ScanStateComplete {
		if s.logger != nil {
			s.logger.DebugContext(ctx, "file already scanned, skipping", "file_url", fileURL)
		}
		return nil
	}

	if !s.beginAttempt(fileURL) {
		if s.logger != nil {
			s.logger.InfoContext(ctx, "scan already in flight, suppressing duplicate submission",
				"file_url", fileURL)
		}
		return nil
	}

	// The workflow outlives the caller's request scope. The detached
	// context keeps log correlation values but only process shutdown
	// stops dispatched work.
	workCtx := context.WithoutCancel(ctx)
	s.dispatcher.Enqueue(func() {
		s.runSubmit(workCtx, contents, fileName, fileURL)
	})
	return nil
}

// ResumePoll re-enters report polling for a record that already holds a
// submission id, without the initial delay. Used by the startup reconciler.
func (s *ScanService) ResumePoll(ctx context.Context, fileURL, submissionID string) {
	if !s.beginAttempt(fileURL) {
		return
	}
	workCtx := context.WithoutCancel(ctx)
	s.dispatcher.Enqueue(func() {
		s.runPoll(workCtx, fileURL, submissionID)
	})
}

// runSubmit performs the rate-limited submit call and arms the first poll.
func (s *ScanService) runSubmit(ctx context.Context, contents []byte, fileName, fileURL string) {
	submissionID, err := s.provider.Submit(ctx, contents, fileName)
	if err != nil {
		s.abandonAttempt(ctx, fileURL, "submit", err)
		return
	}

	if err := s.records.MarkSubmitted(ctx, fileURL, submissionID); err != nil {
		s.abandonAttempt(ctx, fileURL, "submit", err)
		return
	}

	metrics.EmitScanStep(s.metrics, metrics.ScanMetric{Step: "submit", Result: metrics.ResultSuccess})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "file submitted for scanning",
			"file_url", fileURL, "submission_id", submissionID)
	}

	s.armPoll(ctx, fileURL, submissionID)
}

// armPoll waits the configured delay and then queues a rate-limited report
// poll. The wait is cooperative: cancelling the context releases the
// goroutine without queueing the poll.
func (s *ScanService) armPoll(ctx context.Context, fileURL, submissionID string) {
	go func() {
		timer := time.NewTimer(s.cfg.PollDelay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			s.endAttempt(fileURL)
		case <-timer.C:
			s.dispatcher.Enqueue(func() {
				s.runPoll(ctx, fileURL, submissionID)
			})
		}
	}()
}

// runPoll fetches the report for a submission. "Not ready" re-arms the same
// delayed poll indefinitely; only process lifetime bounds the retries.
func (s *ScanService) runPoll(ctx context.Context, fileURL, submissionID string) {
	outcome, err := s.provider.Report(ctx, submissionID)
	if err != nil {
		s.abandonAttempt(ctx, fileURL, "poll", err)
		return
	}

	if !outcome.Ready {
		if s.logger != nil {
			s.logger.DebugContext(ctx, "scan report not ready yet",
				"file_url", fileURL, "submission_id", submissionID)
		}
		s.armPoll(ctx, fileURL, submissionID)
		return
	}

	s.completeScan(ctx, fileURL, outcome.Report)
}

func (s *ScanService) completeScan(ctx context.Context, fileURL string, report model.ScanReport) {
	defer s.endAttempt(fileURL)

	if err := s.records.MarkComplete(ctx, fileURL, report); err != nil {
		if errors.Is(err, model.ErrScanAlreadyComplete) {
			// A concurrent attempt won the race; their report stands.
			if s.logger != nil {
				s.logger.DebugContext(ctx, "scan report already persisted", "file_url", fileURL)
			}
			return
		}
		s.logError(ctx, "persist scan report failed", fileURL, err)
		metrics.EmitScanStep(s.metrics, metrics.ScanMetric{Step: "poll", Result: metrics.ResultError, Err: err})
		return
	}

	metrics.EmitScanStep(s.metrics, metrics.ScanMetric{Step: "poll", Result: metrics.ResultSuccess})

	if report.Malicious() {
		// Alert-worthy: operators decide what to do with the file; the
		// coordinator never blocks downloads itself.
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "virus scan flagged file",
				"file_url", fileURL,
				"positives", report.Positives,
				"total", report.Total,
				"permalink", report.Permalink)
		}
		if s.metrics != nil {
			s.metrics.Count("scan.flagged", 1, nil)
		}
		return
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "virus scan completed clean",
			"file_url", fileURL, "total", report.Total)
	}
}

// abandonAttempt logs a failed submit/poll step and releases the in-flight
// slot. No automatic re-submission happens; the record stays unfinished for
// the next startup reconciliation.
func (s *ScanService) abandonAttempt(ctx context.Context, fileURL, step string, err error) {
	s.endAttempt(fileURL)
	s.logError(ctx, "scan "+step+" failed, abandoning attempt", fileURL, err)
	metrics.EmitScanStep(s.metrics, metrics.ScanMetric{Step: step, Result: metrics.ResultError, Err: err})
}

func (s *ScanService) logError(ctx context.Context, msg, fileURL string, err error) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, msg, "file_url", fileURL, "error", err)
	}
}

func (s *ScanService) beginAttempt(fileURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, active := s.inflight[fileURL]; active {
		return false
	}
	s.inflight[fileURL] = struct{}{}
	return true
}

func (s *ScanService) endAttempt(fileURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, fileURL)
}

// LocalPath resolves a file URL to a site-relative storage path. It returns
// ok=false for externally hosted URLs, which cannot be (re)scanned.
func (s *ScanService) LocalPath(fileURL string) (string, bool) {
	return localPath(fileURL, s.cfg.PublicBaseURL)
}

func localPath(fileURL, publicBaseURL string) (string, bool) {
	if publicBaseURL != "" && strings.HasPrefix(fileURL, publicBaseURL+"/") {
		return strings.TrimPrefix(fileURL, publicBaseURL), true
	}
	if strings.HasPrefix(fileURL, "/") {
		return fileURL, true
	}
	return "", false
}

// fileNameFromPath extracts the upload's file name for provider submission.
func fileNameFromPath(p string) string {
	return path.Base(p)
}
