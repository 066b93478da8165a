package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrScanRecordNotFound is returned when no scan record exists for a file URL.
	ErrScanRecordNotFound = errors.New("scan record not found")

	// ErrDeletionAlreadyScheduled is returned when a deletion schedule
	// already exists for an entity. The pending schedule is left untouched.
	ErrDeletionAlreadyScheduled = errors.New("a deletion is already scheduled for this entity")

	// ErrDeletionScheduleNotFound is returned when no schedule exists for an entity.
	ErrDeletionScheduleNotFound = errors.New("deletion schedule not found")

	// ErrModNotFound is returned when no mod row exists for an entity id.
	ErrModNotFound = errors.New("mod not found")
)
