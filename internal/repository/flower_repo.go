package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/timmy/flowerpower/internal/catalog"
	"github.com/timmy/flowerpower/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FlowerRepository stores the imported flower catalog.
type FlowerRepository struct {
	db *gorm.DB
}

// NewFlowerRepository creates a new FlowerRepository.
func NewFlowerRepository(db *gorm.DB) *FlowerRepository {
	return &FlowerRepository{db: db}
}

// ReplaceAll swaps the stored catalog for entries in a single transaction.
// Rows sharing a name key collapse to the last one, matching the in-memory lookup.
// Returns the number of rows stored.
func (r *FlowerRepository) ReplaceAll(ctx context.Context, entries []catalog.Entry) (int, error) {
	rows := make([]domain.Flower, 0, len(entries))
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		key := catalog.NormalizeKey(e.DisplayName())
		row := domain.Flower{
			ID:       uuid.New().String(),
			NameKey:  key,
			Name:     e.Flower,
			Color:    e.Color,
			Meaning:  e.Meaning,
			Position: i,
		}
		if at, ok := index[key]; ok {
			row.ID = rows[at].ID
			rows[at] = row
			continue
		}
		index[key] = len(rows)
		rows = append(rows, row)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Flower{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name_key"}},
			UpdateAll: true,
		}).CreateInBatches(rows, 200).Error
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// ListOrdered returns every stored flower in original catalog order.
func (r *FlowerRepository) ListOrdered(ctx context.Context) ([]domain.Flower, error) {
	var flowers []domain.Flower
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&flowers).Error; err != nil {
		return nil, err
	}
	return flowers, nil
}

// Count returns the number of stored flowers.
func (r *FlowerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Flower{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
