// Package model defines the core data types used throughout the background
// job coordinator.
package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ScanState describes where a scan record sits in its lifecycle. The state
// is derived from the persisted fields rather than stored, so it can never
// disagree with the record.
type ScanState string

const (
	// ScanStateUnscanned means the record exists but was never handed to the provider.
	ScanStateUnscanned ScanState = "unscanned"
	// ScanStateSubmitted means the provider accepted the file and a report poll is pending.
	ScanStateSubmitted ScanState = "submitted"
	// ScanStateComplete means a report was persisted. Terminal.
	ScanStateComplete ScanState = "complete"
)

// ScanRecord tracks the virus-scan lifecycle of one uploaded file, keyed by
// the file's public URL.
type ScanRecord struct {
	FileURL      string      `json:"file_url"                db:"file_url"`
	SubmissionID *string     `json:"submission_id,omitempty" db:"submission_id"`
	Report       *ScanReport `json:"report,omitempty"        db:"report"`
	CreatedAt    time.Time   `json:"created_at"              db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"              db:"updated_at"`
}

// State derives the lifecycle state from the persisted fields.
func (r *ScanRecord) State() ScanState {
	switch {
	case r.Report != nil:
		return ScanStateComplete
	case r.SubmissionID != nil:
		return ScanStateSubmitted
	default:
		return ScanStateUnscanned
	}
}

// ScanReport is the sanitized result persisted once the provider finishes a
// scan. Per-engine verdict detail from the provider is stripped before it
// gets here; only the aggregate counts, the permalink, and a compact raw
// summary survive.
type ScanReport struct {
	Positives int             `json:"positives"`
	Total     int             `json:"total"`
	Permalink string          `json:"permalink,omitempty"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// Malicious reports whether any engine flagged the file.
func (p *ScanReport) Malicious() bool {
	return p != nil && p.Positives > 0
}

// Scan record transition errors.
var (
	ErrScanAlreadyComplete = errors.New("scan record already has a report")
	ErrScanNotSubmitted    = errors.New("scan record was never submitted")
	ErrEmptySubmissionID   = errors.New("submission id must not be empty")
)

// MarkSubmitted records the provider's submission id. A fresh attempt after
// a failed one may overwrite a previous id, but a completed record is
// immutable.
func (r *ScanRecord) MarkSubmitted(submissionID string) error {
	if r.Report != nil {
		return ErrScanAlreadyComplete
	}
	submissionID = strings.TrimSpace(submissionID)
	if submissionID == "" {
		return ErrEmptySubmissionID
	}
	r.SubmissionID = &submissionID
	return nil
}

// MarkComplete attaches the sanitized report. The report is set at most once
// and only after a submission id exists; illegal transitions are rejected
// rather than silently overwriting state.
func (r *ScanRecord) MarkComplete(report ScanReport) error {
	if r.Report != nil {
		return ErrScanAlreadyComplete
	}
	if r.SubmissionID == nil {
		return ErrScanNotSubmitted
	}
	r.Report = &report
	return nil
}

// ValidateFileURL checks a file URL key before record creation.
func ValidateFileURL(fileURL string) error {
	if strings.TrimSpace(fileURL) == "" {
		return errors.New("file_url is required")
	}
	return nil
}
