package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hmodding/website-jobs/internal/data/pgxutil"
	"github.com/hmodding/website-jobs/internal/domain/model"
)

// ScanRecordRepo provides database operations for scan records.
type ScanRecordRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewScanRecordRepo creates a new ScanRecordRepo with a real time provider.
func NewScanRecordRepo(db *sql.DB) *ScanRecordRepo {
	return &ScanRecordRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewScanRecordRepoWithTimeProvider creates a ScanRecordRepo with a custom
// time provider (useful for tests).
func NewScanRecordRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ScanRecordRepo {
	return &ScanRecordRepo{DB: db, timeProvider: tp}
}

const scanRecordColumns = `file_url, submission_id, report, created_at, updated_at`

// Find returns the record for a file URL, or ErrScanRecordNotFound.
func (r *ScanRecordRepo) Find(ctx context.Context, fileURL string) (*model.ScanRecord, error) {
	var out *model.ScanRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			SELECT `+scanRecordColumns+`
			FROM scan_records
			WHERE file_url = $1
		`, fileURL)

		rec, scanErr := scanScanRecord(row)
		if scanErr != nil {
			return scanErr
		}
		out = rec
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScanRecordNotFound
		}
		return nil, fmt.Errorf("find scan record: %w", err)
	}
	return out, nil
}

// Create inserts a record for a file URL if none exists and returns the
// stored record either way. Concurrent creates for the same URL collapse to
// a single row.
func (r *ScanRecordRepo) Create(ctx context.Context, fileURL string) (*model.ScanRecord, error) {
	if err := model.ValidateFileURL(fileURL); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `
			INSERT INTO scan_records (file_url, created_at, updated_at)
			VALUES ($1, $2, $2)
			ON CONFLICT (file_url) DO NOTHING
		`, fileURL, now)
		return execErr
	})
	if err != nil {
		return nil, fmt.Errorf("create scan record: %w", err)
	}

	return r.Find(ctx, fileURL)
}

// MarkSubmitted persists the provider's submission id. Completed records
// are immutable; attempting to touch one is rejected.
func (r *ScanRecordRepo) MarkSubmitted(ctx context.Context, fileURL, submissionID string) error {
	submissionID = strings.TrimSpace(submissionID)
	if submissionID == "" {
		return model.ErrEmptySubmissionID
	}

	tag, err := r.exec(ctx, `
		UPDATE scan_records
		SET submission_id = $2, updated_at = $3
		WHERE file_url = $1 AND report IS NULL
	`, fileURL, submissionID, r.timeProvider.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark scan record submitted: %w", err)
	}
	if tag == 0 {
		return r.explainMissedUpdate(ctx, fileURL, model.ErrScanAlreadyComplete)
	}
	return nil
}

// MarkComplete persists the sanitized report. The guarded UPDATE encodes
// the one-way transitions: a report is written only after a submission id
// exists and only while the report column is still null.
func (r *ScanRecordRepo) MarkComplete(ctx context.Context, fileURL string, report model.ScanReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal scan report: %w", err)
	}

	tag, err := r.exec(ctx, `
		UPDATE scan_records
		SET report = $2, updated_at = $3
		WHERE file_url = $1 AND submission_id IS NOT NULL AND report IS NULL
	`, fileURL, payload, r.timeProvider.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark scan record complete: %w", err)
	}
	if tag == 0 {
		return r.explainMissedComplete(ctx, fileURL)
	}
	return nil
}

// ListUnfinished returns all records without a persisted report, oldest
// first. This is the resume-on-startup working set.
func (r *ScanRecordRepo) ListUnfinished(ctx context.Context) ([]*model.ScanRecord, error) {
	return r.list(ctx, `
		SELECT `+scanRecordColumns+`
		FROM scan_records
		WHERE report IS NULL
		ORDER BY created_at ASC
	`)
}

// DeleteByPathPrefix removes all records whose file URL starts with the
// given prefix. Used by entity teardown to cascade scan records.
func (r *ScanRecordRepo) DeleteByPathPrefix(ctx context.Context, prefix string) (int64, error) {
	if strings.TrimSpace(prefix) == "" {
		return 0, errors.New("prefix is required")
	}

	tag, err := r.exec(ctx, `
		DELETE FROM scan_records
		WHERE file_url LIKE $1
	`, escapeLikePrefix(prefix)+"%")
	if err != nil {
		return 0, fmt.Errorf("delete scan records by prefix: %w", err)
	}
	return tag, nil
}

func (r *ScanRecordRepo) list(ctx context.Context, query string, args ...any) ([]*model.ScanRecord, error) {
	var out []*model.ScanRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, query, args...)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()

		for rows.Next() {
			rec, scanErr := scanScanRecord(rows)
			if scanErr != nil {
				return scanErr
			}
			out = append(out, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list scan records: %w", err)
	}
	return out, nil
}

func (r *ScanRecordRepo) exec(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, execErr := conn.Exec(ctx, query, args...)
		if execErr != nil {
			return execErr
		}
		affected = tag.RowsAffected()
		return nil
	})
	return affected, err
}

// explainMissedUpdate distinguishes "no such record" from "record already
// terminal" after a guarded UPDATE touched zero rows.
func (r *ScanRecordRepo) explainMissedUpdate(ctx context.Context, fileURL string, terminal error) error {
	rec, err := r.Find(ctx, fileURL)
	if err != nil {
		return err
	}
	if rec.Report != nil {
		return terminal
	}
	return ErrScanRecordNotFound
}

func (r *ScanRecordRepo) explainMissedComplete(ctx context.Context, fileURL string) error {
	rec, err := r.Find(ctx, fileURL)
	if err != nil {
		return err
	}
	switch {
	case rec.Report != nil:
		return model.ErrScanAlreadyComplete
	case rec.SubmissionID == nil:
		return model.ErrScanNotSubmitted
	default:
		return ErrScanRecordNotFound
	}
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanScanRecord(row rowScanner) (*model.ScanRecord, error) {
	var (
		rec       model.ScanRecord
		rawReport []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&rec.FileURL, &rec.SubmissionID, &rawReport, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if len(rawReport) > 0 {
		var report model.ScanReport
		if err := json.Unmarshal(rawReport, &report); err != nil {
			return nil, fmt.Errorf("unmarshal scan report: %w", err)
		}
		rec.Report = &report
	}
	rec.CreatedAt = createdAt
	rec.UpdatedAt = updatedAt
	return &rec, nil
}

// escapeLikePrefix escapes LIKE metacharacters so a path prefix matches
// literally.
func escapeLikePrefix(prefix string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(prefix)
}
