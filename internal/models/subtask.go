package models

import (
	"time"

	"gorm.io/gorm"
)

// Subtask belongs to a task and is deleted with it. It has no sharing
// semantics of its own; visibility follows the parent task.
type Subtask struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	TaskID    uint64         `gorm:"not null;index" json:"task_id"`
	Title     string         `gorm:"not null" json:"title"`
	Completed bool           `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
}
