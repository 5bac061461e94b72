package models

import (
	"time"
)

type PermissionLevel string

const (
	PermissionView  PermissionLevel = "view"
	PermissionEdit  PermissionLevel = "edit"
	PermissionAdmin PermissionLevel = "admin"
)

// Valid reports whether the level is one of the three known tiers.
func (p PermissionLevel) Valid() bool {
	switch p {
	case PermissionView, PermissionEdit, PermissionAdmin:
		return true
	}
	return false
}

// CanEdit reports whether the level grants write access to the task.
func (p PermissionLevel) CanEdit() bool {
	return p == PermissionEdit || p == PermissionAdmin
}

// TaskShare grants a non-owner user access to a single task. Owner and
// recipient are stored as numeric user IDs; usernames and short codes are
// resolved to IDs before a row is written. The task owner never has a row
// here, ownership itself carries full rights.
type TaskShare struct {
	ID          uint64          `gorm:"primarykey" json:"id"`
	TaskID      uint64          `gorm:"not null;uniqueIndex:idx_task_recipient" json:"task_id"`
	OwnerID     uint64          `gorm:"not null" json:"owner_id"`
	RecipientID uint64          `gorm:"not null;uniqueIndex:idx_task_recipient;index" json:"recipient_id"`
	Permission  PermissionLevel `gorm:"type:varchar(10);not null;default:'view'" json:"permission_level"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Task      Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}
