package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hmodding/website-jobs/internal/data/pgxutil"
	"github.com/hmodding/website-jobs/internal/domain/model"
)

// DeletionScheduleRepo provides database operations for pending entity
// deletions.
type DeletionScheduleRepo struct {
	DB *sql.DB
}

// NewDeletionScheduleRepo creates a new DeletionScheduleRepo.
func NewDeletionScheduleRepo(db *sql.DB) *DeletionScheduleRepo {
	return &DeletionScheduleRepo{DB: db}
}

// Create inserts a schedule. The primary key on entity_id makes a second
// pending schedule a conflict; the existing row and its delete time are
// never altered.
func (r *DeletionScheduleRepo) Create(ctx context.Context, schedule *model.DeletionSchedule) error {
	if schedule == nil {
		return errors.New("deletion schedule is required")
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `
			INSERT INTO deletion_schedules (entity_id, delete_at, issued_by, created_at)
			VALUES ($1, $2, $3, $4)
		`, schedule.EntityID, schedule.DeleteAt.UTC(), schedule.IssuedBy, schedule.CreatedAt.UTC())
		return execErr
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDeletionAlreadyScheduled
		}
		return fmt.Errorf("create deletion schedule: %w", err)
	}
	return nil
}

// Find returns the schedule for an entity, or ErrDeletionScheduleNotFound.
func (r *DeletionScheduleRepo) Find(ctx context.Context, entityID string) (*model.DeletionSchedule, error) {
	var out model.DeletionSchedule
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT entity_id, delete_at, issued_by, created_at
			FROM deletion_schedules
			WHERE entity_id = $1
		`, entityID).Scan(&out.EntityID, &out.DeleteAt, &out.IssuedBy, &out.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDeletionScheduleNotFound
		}
		return nil, fmt.Errorf("find deletion schedule: %w", err)
	}
	return &out, nil
}

// FindDue returns up to limit schedules whose delete time has elapsed,
// oldest first.
func (r *DeletionScheduleRepo) FindDue(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*model.DeletionSchedule, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	var out []*model.DeletionSchedule
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, `
			SELECT entity_id, delete_at, issued_by, created_at
			FROM deletion_schedules
			WHERE delete_at < $1
			ORDER BY delete_at ASC
			LIMIT $2
		`, now.UTC(), limit)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()

		for rows.Next() {
			var sched model.DeletionSchedule
			if scanErr := rows.Scan(&sched.EntityID, &sched.DeleteAt, &sched.IssuedBy, &sched.CreatedAt); scanErr != nil {
				return scanErr
			}
			out = append(out, &sched)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("find due deletion schedules: %w", err)
	}
	return out, nil
}

// Delete removes a schedule row, reporting whether a row existed. Deleting
// an absent schedule is a no-op so a retried teardown stays idempotent.
func (r *DeletionScheduleRepo) Delete(ctx context.Context, entityID string) (bool, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, execErr := conn.Exec(ctx, `
			DELETE FROM deletion_schedules
			WHERE entity_id = $1
		`, entityID)
		if execErr != nil {
			return execErr
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete deletion schedule: %w", err)
	}
	return affected > 0, nil
}
