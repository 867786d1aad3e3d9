package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamps shared by every record
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity assigns a fresh id and stamps both timestamps with now
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// GetID returns the record id
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// SoftDeletable is implemented by every record that is removed logically
type SoftDeletable interface {
	Active() bool
	Deactivate() bool
}

// SoftDelete carries the logical-deletion flag and timestamp.
// Records are never removed physically.
type SoftDelete struct {
	IsActive      bool
	DeactivatedAt *time.Time
}

// NewSoftDelete returns an active record state
func NewSoftDelete() SoftDelete {
	return SoftDelete{IsActive: true}
}

// Active reports whether the record is visible to default queries
func (s *SoftDelete) Active() bool {
	return s.IsActive
}

// Deactivate marks the record inactive. It reports false and leaves the
// original timestamp untouched when the record was already inactive.
func (s *SoftDelete) Deactivate() bool {
	if !s.IsActive {
		return false
	}
	now := time.Now()
	s.IsActive = false
	s.DeactivatedAt = &now
	return true
}
