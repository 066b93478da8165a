package model

import (
	"errors"
	"strings"
	"time"
)

// DeletionSchedule marks an entity (a mod) for removal at a future time.
// At most one schedule may exist per entity; a second request while one is
// pending is a conflict, never an overwrite.
type DeletionSchedule struct {
	EntityID  string    `json:"entity_id"   db:"entity_id"`
	DeleteAt  time.Time `json:"delete_at"   db:"delete_at"`
	IssuedBy  string    `json:"issued_by"   db:"issued_by"`
	CreatedAt time.Time `json:"created_at"  db:"created_at"`
}

// Due reports whether the schedule's deletion time has elapsed.
func (s *DeletionSchedule) Due(now time.Time) bool {
	return s.DeleteAt.Before(now)
}

// NewDeletionScheduleParams groups inputs for NewDeletionSchedule.
type NewDeletionScheduleParams struct {
	EntityID string
	IssuedBy string
	Now      time.Time
	Interval time.Duration
}

// NewDeletionSchedule builds a schedule whose deletion time is the request
// time plus the configured grace interval.
func NewDeletionSchedule(p NewDeletionScheduleParams) (*DeletionSchedule, error) {
	entityID := strings.TrimSpace(p.EntityID)
	if entityID == "" {
		return nil, errors.New("entity_id is required")
	}
	if p.Interval <= 0 {
		return nil, errors.New("deletion interval must be positive")
	}

	return &DeletionSchedule{
		EntityID:  entityID,
		DeleteAt:  p.Now.Add(p.Interval),
		IssuedBy:  strings.TrimSpace(p.IssuedBy),
		CreatedAt: p.Now,
	}, nil
}
