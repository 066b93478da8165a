package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hmodding/website-jobs/internal/core"
	"github.com/hmodding/website-jobs/internal/data/pgxutil"
)

// DownloadTrackerRepo provides Postgres-backed download deduplication.
// Expired rows are collected by the hourly download-gc sweep.
type DownloadTrackerRepo struct {
	DB *sql.DB
}

// NewDownloadTrackerRepo creates a new DownloadTrackerRepo.
func NewDownloadTrackerRepo(db *sql.DB) *DownloadTrackerRepo {
	return &DownloadTrackerRepo{DB: db}
}

// Touch registers a download hit in a single atomic upsert. The insert wins
// when no row exists; the conditional update wins when the existing window
// has expired. A live window leaves the row untouched and reports a
// duplicate.
func (r *DownloadTrackerRepo) Touch(ctx context.Context, params core.TouchDownloadParams) (bool, error) {
	if params.IPHash == "" || params.Path == "" {
		return false, errors.New("ip_hash and path are required")
	}

	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, execErr := conn.Exec(ctx, `
			INSERT INTO download_trackers (ip_hash, path, expires_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (ip_hash, path) DO UPDATE
			SET expires_at = EXCLUDED.expires_at
			WHERE download_trackers.expires_at <= $4
		`, params.IPHash, params.Path, params.ExpiresAt.UTC(), params.Now.UTC())
		if execErr != nil {
			return execErr
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("touch download tracker: %w", err)
	}
	return affected > 0, nil
}

// DeleteExpired garbage-collects trackers whose window has elapsed.
func (r *DownloadTrackerRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, execErr := conn.Exec(ctx, `
			DELETE FROM download_trackers
			WHERE expires_at <= $1
		`, now.UTC())
		if execErr != nil {
			return execErr
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete expired download trackers: %w", err)
	}
	return affected, nil
}
