// Package core defines the port interfaces between the service layer and
// its collaborators (repositories, the scan provider, file storage).
// Service implementations depend on these interfaces, never on concrete
// adapters.
package core

import (
	"context"
	"time"

	"github.com/hmodding/website-jobs/internal/domain/model"
)

// ScanRecordRepository defines the persistence contract for scan records.
type ScanRecordRepository interface {
	// Find returns the record for a file URL, or data.ErrScanRecordNotFound.
	Find(ctx context.Context, fileURL string) (*model.ScanRecord, error)
	// Create inserts a record for a file URL if none exists and returns the
	// stored record either way. Calling it twice is a no-op.
	Create(ctx context.Context, fileURL string) (*model.ScanRecord, error)
	// MarkSubmitted persists the provider's submission id for a record.
	MarkSubmitted(ctx context.Context, fileURL, submissionID string) error
	// MarkComplete persists the sanitized report. The report column is only
	// written while it is still null; a second write is rejected.
	MarkComplete(ctx context.Context, fileURL string, report model.ScanReport) error
	// ListUnfinished returns all records without a persisted report.
	ListUnfinished(ctx context.Context) ([]*model.ScanRecord, error)
	// DeleteByPathPrefix removes all records whose file URL starts with the
	// given prefix and returns the number of rows removed.
	DeleteByPathPrefix(ctx context.Context, prefix string) (int64, error)
}

// DeletionScheduleRepository defines the persistence contract for pending
// entity deletions.
type DeletionScheduleRepository interface {
	// Create inserts a schedule. A schedule already pending for the same
	// entity yields data.ErrDeletionAlreadyScheduled; the existing row is
	// never altered.
	Create(ctx context.Context, schedule *model.DeletionSchedule) error
	// FindDue returns up to limit schedules whose delete time has elapsed.
	FindDue(ctx context.Context, now time.Time, limit int) ([]*model.DeletionSchedule, error)
	// Delete removes a schedule row, reporting whether a row existed.
	Delete(ctx context.Context, entityID string) (bool, error)
}

// TouchDownloadParams groups inputs for DownloadTrackerRepository.Touch.
type TouchDownloadParams struct {
	IPHash    string
	Path      string
	Now       time.Time
	ExpiresAt time.Time
}

// DownloadTrackerRepository defines the persistence contract for download
// deduplication windows.
type DownloadTrackerRepository interface {
	// Touch registers a download hit. It returns true when the hit opened a
	// fresh tracking window (first view), false when a live window already
	// covered the caller/path pair.
	Touch(ctx context.Context, params TouchDownloadParams) (bool, error)
	// DeleteExpired garbage-collects trackers whose window has elapsed and
	// returns the number of rows removed. Stores with native expiry may
	// implement this as a no-op.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// ModRepository defines the subset of mod persistence the deletion workflow
// needs. The web layer owns the full CRUD surface.
type ModRepository interface {
	// Exists reports whether the root mod row is present.
	Exists(ctx context.Context, modID string) (bool, error)
	// DeleteVersions removes all version rows of a mod and returns the count.
	DeleteVersions(ctx context.Context, modID string) (int64, error)
	// Delete removes the root mod row, reporting whether a row existed.
	Delete(ctx context.Context, modID string) (bool, error)
}

// ScanOutcome is the provider's answer to a report poll.
type ScanOutcome struct {
	// Ready is false while the provider is still analyzing the file.
	Ready bool
	// Report carries the sanitized result once Ready is true.
	Report model.ScanReport
}

// ScanProvider defines the external virus-scan service contract. Both calls
// may fail with transport errors; neither retries internally.
type ScanProvider interface {
	// Submit uploads file contents for scanning and returns the provider's
	// opaque submission id.
	Submit(ctx context.Context, contents []byte, fileName string) (string, error)
	// Report fetches the scan outcome for a prior submission.
	Report(ctx context.Context, submissionID string) (*ScanOutcome, error)
}

// FileStore defines the file storage contract used to re-read files for
// resumed scans and to remove file trees during teardown.
type FileStore interface {
	// Read returns the contents of a stored file by its site-relative path.
	Read(ctx context.Context, path string) ([]byte, error)
	// DeleteTree removes everything under a path prefix. Removing an absent
	// tree is a no-op, not an error.
	DeleteTree(ctx context.Context, prefix string) error
}

// Dispatcher gates outbound provider calls. Implementations release queued
// tasks one at a time in FIFO order.
type Dispatcher interface {
	Enqueue(task func())
}
