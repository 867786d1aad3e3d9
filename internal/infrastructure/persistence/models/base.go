package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/shared"
)

// BaseModel holds the identity and timestamp columns shared by every table.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *BaseModel) entity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func (m *BaseModel) setEntity(e shared.BaseEntity) {
	*m = BaseModel{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

// AggregateModel adds the optimistic-locking version of aggregate roots.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

func (m *AggregateModel) aggregate() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{BaseEntity: m.entity(), Version: m.Version}
}

func (m *AggregateModel) setAggregate(a shared.BaseAggregateRoot) {
	m.setEntity(a.BaseEntity)
	m.Version = a.Version
}

// SoftDeleteModel holds the logical-deletion columns. IsActive has no column
// default, otherwise gorm would skip writing a false value on insert.
type SoftDeleteModel struct {
	IsActive      bool `gorm:"not null;index"`
	DeactivatedAt *time.Time
}

func (m SoftDeleteModel) softDelete() shared.SoftDelete {
	return shared.SoftDelete{IsActive: m.IsActive, DeactivatedAt: m.DeactivatedAt}
}

func softDeleteColumns(s shared.SoftDelete) SoftDeleteModel {
	return SoftDeleteModel{IsActive: s.IsActive, DeactivatedAt: s.DeactivatedAt}
}
