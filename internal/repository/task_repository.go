package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"todo/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, title, description string, userID uint) (*model.Task, error)
	ListByUser(ctx context.Context, userID uint, completed *bool) ([]model.Task, error)
	GetByID(ctx context.Context, id uint) (*model.Task, error)
	Update(ctx context.Context, id uint, patch model.TaskUpdate) (*model.Task, error)
	Toggle(ctx context.Context, id uint) (*model.Task, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task owned by userID. The owner lookup and the
// insert run inside one transaction; a missing owner is reported as
// (nil, nil) and nothing is persisted.
func (r *TaskRepository) Create(ctx context.Context, title, description string, userID uint) (*model.Task, error) {
	var created *model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner model.User
		err := tx.First(&owner, "id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No owner, leave created nil
			return nil
		}
		if err != nil {
			return err
		}

		task := model.Task{
			Title:       title,
			Description: description,
			Completed:   false,
			UserID:      userID,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		created = &task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListByUser retrieves all tasks owned by userID, newest first. When
// completed is non-nil the result is restricted to that status. A user
// with no matching tasks yields an empty slice, not an error.
func (r *TaskRepository) ListByUser(ctx context.Context, userID uint, completed *bool) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if completed != nil {
		query = query.Where("completed = ?", *completed)
	}

	var tasks []model.Task
	// id DESC keeps ties on created_at stable within one query
	if err := query.Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetByID retrieves a task by its id alone; it is not scoped by owner.
// Ownership enforcement on point lookups is deliberately left to the caller.
func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Update applies only the fields supplied in patch and refreshes
// updated_at. The read and the write share one transaction. A missing
// task is reported as (nil, nil).
func (r *TaskRepository) Update(ctx context.Context, id uint, patch model.TaskUpdate) (*model.Task, error) {
	var updated *model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task model.Task
		err := tx.First(&task, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if patch.Title != nil {
			task.Title = *patch.Title
		}
		if patch.Description != nil {
			task.Description = *patch.Description
		}
		if patch.Completed != nil {
			task.Completed = *patch.Completed
		}
		now := time.Now().UTC()
		task.UpdatedAt = &now

		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		updated = &task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Toggle flips the completion flag and refreshes updated_at. The
// read-modify-write runs inside one transaction so the flip cannot be
// split across scopes. A missing task is reported as (nil, nil).
func (r *TaskRepository) Toggle(ctx context.Context, id uint) (*model.Task, error) {
	var toggled *model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task model.Task
		err := tx.First(&task, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		task.Completed = !task.Completed
		now := time.Now().UTC()
		task.UpdatedAt = &now

		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		toggled = &task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toggled, nil
}

// Delete removes a task by its id. A missing task yields (false, nil)
// and is a no-op; a removed row yields (true, nil).
func (r *TaskRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
