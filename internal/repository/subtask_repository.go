package repository

import (
	"gorm.io/gorm"

	"github.com/knagata/task-reminder-api/internal/models"
)

// GormSubtaskRepository is a GORM implementation of SubtaskRepository
type GormSubtaskRepository struct {
	db *gorm.DB
}

// NewSubtaskRepository creates a new SubtaskRepository
func NewSubtaskRepository(db *gorm.DB) SubtaskRepository {
	return &GormSubtaskRepository{db: db}
}

// Create creates a new subtask
func (r *GormSubtaskRepository) Create(subtask *models.Subtask) error {
	return r.db.Create(subtask).Error
}

// FindByTask lists subtasks of a task in insertion order
func (r *GormSubtaskRepository) FindByTask(taskID uint64) ([]models.Subtask, error) {
	var subtasks []models.Subtask
	if err := r.db.Where("task_id = ?", taskID).Order("id ASC").Find(&subtasks).Error; err != nil {
		return nil, err
	}
	return subtasks, nil
}

// FindByIDForTask finds a subtask scoped to its parent task
func (r *GormSubtaskRepository) FindByIDForTask(id, taskID uint64) (*models.Subtask, error) {
	var subtask models.Subtask
	if err := r.db.Where("id = ? AND task_id = ?", id, taskID).First(&subtask).Error; err != nil {
		return nil, err
	}
	return &subtask, nil
}

// Update persists changes to a subtask
func (r *GormSubtaskRepository) Update(subtask *models.Subtask) error {
	return r.db.Save(subtask).Error
}

// Delete removes a subtask scoped to its parent task
func (r *GormSubtaskRepository) Delete(id, taskID uint64) (bool, error) {
	res := r.db.Where("id = ? AND task_id = ?", id, taskID).Delete(&models.Subtask{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
