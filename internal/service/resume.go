package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hmodding/website-jobs/internal/core"
	"github.com/hmodding/website-jobs/internal/observability/metrics"
	"github.com/hmodding/website-jobs/internal/observability/statsd"
)

// scanWorkflow is the slice of ScanService behavior the reconciler needs.
type scanWorkflow interface {
	SubmitForScan(ctx context.Context, contents []byte, fileName, fileURL string) error
	ResumePoll(ctx context.Context, fileURL, submissionID string)
	LocalPath(fileURL string) (string, bool)
}

// ResumeServiceOptions groups dependencies for ResumeService.
type ResumeServiceOptions struct {
	Records core.ScanRecordRepository // Required: scan record repository
	Files   core.FileStore            // Required: file store for re-reading uploads
	Scans   scanWorkflow              // Required: scan workflow engine
	Logger  *slog.Logger              // Optional: structured logger
	Metrics statsd.Sink               // Optional: metrics sink
}

// ResumeService re-derives in-flight scan work purely from persisted state
// after a restart. Records without a submission id are re-submitted from
// the file store; records with a submission id but no report re-enter
// polling with the stored id.
type ResumeService struct {
	records core.ScanRecordRepository
	files   core.FileStore
	scans   scanWorkflow
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewResumeService constructs a new ResumeService.
func NewResumeService(opts ResumeServiceOptions) (*ResumeService, error) {
	if opts.Records == nil {
		return nil, errors.New("ScanRecordRepository is required")
	}
	if opts.Files == nil {
		return nil, errors.New("FileStore is required")
	}
	if opts.Scans == nil {
		return nil, errors.New("scan workflow is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "resume_service")
	}

	return &ResumeService{
		records: opts.Records,
		files:   opts.Files,
		scans:   opts.Scans,
		logger:  logger,
		metrics: opts.Metrics,
	}, nil
}

// Resume re-enters every unfinished scan record into the workflow engine
// and returns the number of resumed items. Records referencing externally
// hosted files cannot be rescanned and are reported as errors, not retried.
func (s *ResumeService) Resume(ctx context.Context) (int, error) {
	unfinished, err := s.records.ListUnfinished(ctx)
	if err != nil {
		return 0, fmt.Errorf("list unfinished scan records: %w", err)
	}

	resumed := 0
	unrecoverable := 0
	failed := 0

	for _, rec := range unfinished {
		switch {
		case rec.SubmissionID != nil:
			s.scans.ResumePoll(ctx, rec.FileURL, *rec.SubmissionID)
			resumed++

		default:
			localPath, ok := s.scans.LocalPath(rec.FileURL)
			if !ok {
				unrecoverable++
				if s.logger != nil {
					s.logger.ErrorContext(ctx, "cannot rescan externally hosted file",
						"file_url", rec.FileURL)
				}
				continue
			}

			contents, readErr := s.files.Read(ctx, localPath)
			if readErr != nil {
				failed++
				if s.logger != nil {
					s.logger.ErrorContext(ctx, "read file for rescan failed",
						"file_url", rec.FileURL, "error", readErr)
				}
				continue
			}

			if submitErr := s.scans.SubmitForScan(ctx, contents, fileNameFromPath(localPath), rec.FileURL); submitErr != nil {
				failed++
				if s.logger != nil {
					s.logger.ErrorContext(ctx, "resubmit for scan failed",
						"file_url", rec.FileURL, "error", submitErr)
				}
				continue
			}
			resumed++
		}
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "resumed unfinished scans",
			"resumed", resumed,
			"unrecoverable", unrecoverable,
			"failed", failed)
	}
	if s.metrics != nil {
		s.metrics.Gauge("scan.resumed", float64(resumed), nil)
	}
	metrics.EmitScanStep(s.metrics, metrics.ScanMetric{Step: "resume", Result: metrics.ResultSuccess})

	return resumed, nil
}
