package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ListTasks returns every task owned by ownerID across all columns, ordered
// by position with id as tie-break.
func (s *DataService) ListTasks(ctx context.Context, ownerID string) ([]Task, error) {
	var tasks []Task
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("position ASC, id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// LastTaskPosition returns the highest position among the owner's tasks in
// the given column, or nil when the column has no tasks.
func (s *DataService) LastTaskPosition(ctx context.Context, ownerID, columnID string) (*float64, error) {
	var task Task
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND column_id = ?", ownerID, columnID).
		Order("position DESC").
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last task position: %w", err)
	}
	return &task.Position, nil
}

func (s *DataService) CreateTask(ctx context.Context, task *Task) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *DataService) GetTask(ctx context.Context, ownerID, id string) (*Task, error) {
	var task Task
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", ownerID, id).
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

// UpdateTask applies a partial set of field changes to an owned task and
// returns the updated row.
func (s *DataService) UpdateTask(ctx context.Context, ownerID, id string, updates map[string]any) (*Task, error) {
	res := s.db.WithContext(ctx).Model(&Task{}).
		Where("user_id = ? AND id = ?", ownerID, id).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetTask(ctx, ownerID, id)
}

// DeleteTask removes an owned task. 0 rows affected means the task is absent
// or belongs to someone else; both are ErrNotFound.
func (s *DataService) DeleteTask(ctx context.Context, ownerID, id string) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", ownerID, id).
		Delete(&Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
