package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo TaskStatus = "TODO"
	TaskStatusDone TaskStatus = "DONE"
)

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	OwnerID     uint64     `gorm:"not null;index" json:"owner_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"type:varchar(100)" json:"category"`
	Recurrence  string     `gorm:"type:varchar(50)" json:"recurrence"`
	Priority    string     `gorm:"type:varchar(20)" json:"priority"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`
	// DueDate holds a "YYYY-MM-DD HH:MM" local timestamp. The zero-padded
	// layout makes string comparison in the store equivalent to
	// chronological comparison, which the notification queries rely on.
	DueDate   *string        `gorm:"type:varchar(16);index" json:"due_date"`
	Completed bool           `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner    User        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Subtasks []Subtask   `gorm:"foreignKey:TaskID" json:"subtasks,omitempty"`
	Shares   []TaskShare `gorm:"foreignKey:TaskID" json:"-"`
}
