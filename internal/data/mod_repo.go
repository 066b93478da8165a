package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hmodding/website-jobs/internal/data/pgxutil"
)

// ModRepo provides the mod persistence operations the teardown sequence
// needs. Full mod CRUD lives in the web application.
type ModRepo struct {
	DB *sql.DB
}

// NewModRepo creates a new ModRepo.
func NewModRepo(db *sql.DB) *ModRepo {
	return &ModRepo{DB: db}
}

// DeleteVersions removes all version rows of a mod. Removing versions of an
// already-deleted mod affects zero rows and is not an error.
func (r *ModRepo) DeleteVersions(ctx context.Context, modID string) (int64, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, execErr := conn.Exec(ctx, `
			DELETE FROM mod_versions
			WHERE mod_id = $1
		`, modID)
		if execErr != nil {
			return execErr
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete mod versions: %w", err)
	}
	return affected, nil
}

// Exists reports whether the root mod row is present.
func (r *ModRepo) Exists(ctx context.Context, modID string) (bool, error) {
	var exists bool
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM mods WHERE id = $1)
		`, modID).Scan(&exists)
	})
	if err != nil {
		return false, fmt.Errorf("check mod exists: %w", err)
	}
	return exists, nil
}

// Delete removes the root mod row, reporting whether a row existed.
func (r *ModRepo) Delete(ctx context.Context, modID string) (bool, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, execErr := conn.Exec(ctx, `
			DELETE FROM mods
			WHERE id = $1
		`, modID)
		if execErr != nil {
			return execErr
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete mod: %w", err)
	}
	return affected > 0, nil
}
