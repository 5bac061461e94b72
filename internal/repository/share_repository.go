package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/knagata/task-reminder-api/internal/models"
)

// GormShareRepository is a GORM implementation of ShareRepository
type GormShareRepository struct {
	db *gorm.DB
}

// NewShareRepository creates a new ShareRepository
func NewShareRepository(db *gorm.DB) ShareRepository {
	return &GormShareRepository{db: db}
}

// Create creates a new share row
func (r *GormShareRepository) Create(share *models.TaskShare) error {
	return r.db.Create(share).Error
}

// FindByTask lists shares of a task with recipients preloaded
func (r *GormShareRepository) FindByTask(taskID uint64) ([]models.TaskShare, error) {
	var shares []models.TaskShare
	err := r.db.Preload("Recipient").
		Where("task_id = ?", taskID).
		Order("id ASC").
		Find(&shares).Error
	if err != nil {
		return nil, err
	}
	return shares, nil
}

// FindByRecipient lists shares granted to a user
func (r *GormShareRepository) FindByRecipient(recipientID uint64) ([]models.TaskShare, error) {
	var shares []models.TaskShare
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("id ASC").
		Find(&shares).Error
	if err != nil {
		return nil, err
	}
	return shares, nil
}

// FindPermission returns the permission level for (task, recipient), or nil
// when no share exists
func (r *GormShareRepository) FindPermission(taskID, recipientID uint64) (*models.PermissionLevel, error) {
	var share models.TaskShare
	err := r.db.Where("task_id = ? AND recipient_id = ?", taskID, recipientID).First(&share).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &share.Permission, nil
}

// UpdatePermission overwrites the permission level for (task, recipient)
func (r *GormShareRepository) UpdatePermission(taskID, recipientID uint64, level models.PermissionLevel) error {
	return r.db.Model(&models.TaskShare{}).
		Where("task_id = ? AND recipient_id = ?", taskID, recipientID).
		Updates(map[string]interface{}{
			"permission": level,
			"updated_at": time.Now(),
		}).Error
}

// Delete removes the share for (task, recipient)
func (r *GormShareRepository) Delete(taskID, recipientID uint64) (bool, error) {
	res := r.db.Where("task_id = ? AND recipient_id = ?", taskID, recipientID).
		Delete(&models.TaskShare{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
