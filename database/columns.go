package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ListColumns returns all columns owned by ownerID ordered by position, each
// with its tasks preloaded in the same order. Equal positions fall back to id
// so display order stays deterministic.
func (s *DataService) ListColumns(ctx context.Context, ownerID string) ([]Column, error) {
	var columns []Column
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("position ASC, id ASC").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Find(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	for i := range columns {
		if columns[i].Tasks == nil {
			columns[i].Tasks = []Task{}
		}
	}
	return columns, nil
}

// LastColumnPosition returns the highest position among the owner's columns,
// or nil when the owner has none yet.
func (s *DataService) LastColumnPosition(ctx context.Context, ownerID string) (*float64, error) {
	var column Column
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("position DESC").
		First(&column).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last column position: %w", err)
	}
	return &column.Position, nil
}

func (s *DataService) CreateColumn(ctx context.Context, column *Column) error {
	if err := s.db.WithContext(ctx).Create(column).Error; err != nil {
		return fmt.Errorf("create column: %w", err)
	}
	return nil
}

// GetColumn looks up a column by id scoped to its owner, with its tasks
// preloaded in display order. A column that exists under a different owner
// yields ErrNotFound, same as one that doesn't exist.
func (s *DataService) GetColumn(ctx context.Context, ownerID, id string) (*Column, error) {
	var column Column
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", ownerID, id).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		First(&column).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get column: %w", err)
	}
	if column.Tasks == nil {
		column.Tasks = []Task{}
	}
	return &column, nil
}

// UpdateColumn applies a partial set of field changes to an owned column and
// returns the updated row. Fields absent from updates are left untouched.
func (s *DataService) UpdateColumn(ctx context.Context, ownerID, id string, updates map[string]any) (*Column, error) {
	res := s.db.WithContext(ctx).Model(&Column{}).
		Where("user_id = ? AND id = ?", ownerID, id).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update column: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetColumn(ctx, ownerID, id)
}

// DeleteColumn removes an owned column and all of its tasks in one
// transaction. Deleting a column another user owns, or one that doesn't
// exist, yields ErrNotFound.
func (s *DataService) DeleteColumn(ctx context.Context, ownerID, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND id = ?", ownerID, id).Delete(&Column{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("user_id = ? AND column_id = ?", ownerID, id).Delete(&Task{}).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete column: %w", err)
	}
	return nil
}
