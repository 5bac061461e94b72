package repository

import (
	"gorm.io/gorm"

	"github.com/knagata/task-reminder-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID without an owner filter
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByIDForOwner finds a task by ID scoped to its owner
func (r *GormTaskRepository) FindByIDForOwner(id, ownerID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByOwner lists an owner's tasks, newest first
func (r *GormTaskRepository) FindByOwner(ownerID uint64, completed *bool) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Where("owner_id = ?", ownerID)
	if completed != nil {
		query = query.Where("completed = ?", *completed)
	}

	if err := query.Preload("Subtasks").Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task scoped to its owner, cascading subtasks and shares
func (r *GormTaskRepository) Delete(id, ownerID uint64) (bool, error) {
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Task{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true

		if err := tx.Where("task_id = ?", id).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}

		return tx.Where("task_id = ?", id).Delete(&models.TaskShare{}).Error
	})
	return deleted, err
}

// FindDueBetween lists incomplete tasks due inside [from, to]. The due_date
// column holds fixed-format "YYYY-MM-DD HH:MM" strings, so the string
// comparison the store performs is a chronological comparison.
func (r *GormTaskRepository) FindDueBetween(ownerID uint64, from, to string) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Where("owner_id = ? AND completed = ? AND due_date IS NOT NULL", ownerID, false).
		Where("due_date >= ? AND due_date <= ?", from, to).
		Order("due_date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindDueBefore lists incomplete tasks due strictly before the timestamp.
func (r *GormTaskRepository) FindDueBefore(ownerID uint64, before string) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Where("owner_id = ? AND completed = ? AND due_date IS NOT NULL", ownerID, false).
		Where("due_date < ?", before).
		Order("due_date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
