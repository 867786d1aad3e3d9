package persistence

import (
	"context"
	"fmt"

	"github.com/tradedocs/backend/internal/domain/trade"
	"github.com/tradedocs/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequenceRepository implements trade.NumberSequence with a counter row per prefix
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next increments the counter of prefix and returns the new value
func (r *GormSequenceRepository) Next(ctx context.Context, prefix string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := nextSequence(tx, prefix)
		value = v
		return err
	})
	return value, err
}

// nextSequence bumps the counter inside tx. The upsert takes a row lock so
// concurrent transactions serialise on the same prefix.
func nextSequence(tx *gorm.DB, prefix string) (int64, error) {
	row := models.DocumentSequenceModel{Prefix: prefix, LastValue: 1}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "prefix"}},
		DoUpdates: clause.Assignments(map[string]any{
			"last_value": gorm.Expr("document_sequences.last_value + 1"),
		}),
	}).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", prefix, err)
	}

	var current models.DocumentSequenceModel
	if err := tx.Where("prefix = ?", prefix).First(&current).Error; err != nil {
		return 0, fmt.Errorf("failed to read sequence %s: %w", prefix, err)
	}
	return current.LastValue, nil
}

// assignDocumentNumber gives doc its number on first save
func assignDocumentNumber(tx *gorm.DB, doc trade.Numbered) error {
	if doc.HasNumber() {
		return nil
	}
	kind, year := doc.NumberKind(), doc.NumberYear()
	seq, err := nextSequence(tx, trade.NumberPrefix(kind, year))
	if err != nil {
		return err
	}
	doc.AssignNumber(trade.FormatDocumentNumber(kind, year, seq))
	return nil
}

var _ trade.NumberSequence = (*GormSequenceRepository)(nil)
