package repository

import (
	"github.com/knagata/task-reminder-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by exact username
	FindByUsername(username string) (*models.User, error)

	// FindByUsernameFold finds a user by username ignoring case
	FindByUsernameFold(username string) (*models.User, error)

	// FindByShortCode finds a user by short code
	FindByShortCode(code string) (*models.User, error)

	// UsernameExists reports whether any case variant of username is taken
	UsernameExists(username string) (bool, error)

	// ShortCodeExists reports whether a short code is already issued
	ShortCodeExists(code string) (bool, error)

	// Update persists changes to a user
	Update(user *models.User) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID without an owner filter. Used by the
	// access-control checks, which verify ownership themselves.
	FindByID(id uint64) (*models.Task, error)

	// FindByIDForOwner finds a task by ID scoped to its owner
	FindByIDForOwner(id, ownerID uint64) (*models.Task, error)

	// FindByOwner lists an owner's tasks, optionally filtered by completion
	FindByOwner(ownerID uint64, completed *bool) ([]models.Task, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete removes a task scoped to its owner, cascading subtasks and
	// shares. Returns false when no row matched.
	Delete(id, ownerID uint64) (bool, error)

	// FindDueBetween lists incomplete tasks with a due date inside
	// [from, to], both bounds inclusive, for an owner
	FindDueBetween(ownerID uint64, from, to string) ([]models.Task, error)

	// FindDueBefore lists incomplete tasks with a due date strictly before
	// the given timestamp for an owner
	FindDueBefore(ownerID uint64, before string) ([]models.Task, error)
}

// SubtaskRepository defines the interface for subtask data access
type SubtaskRepository interface {
	// Create creates a new subtask
	Create(subtask *models.Subtask) error

	// FindByTask lists subtasks of a task
	FindByTask(taskID uint64) ([]models.Subtask, error)

	// FindByIDForTask finds a subtask scoped to its parent task
	FindByIDForTask(id, taskID uint64) (*models.Subtask, error)

	// Update persists changes to a subtask
	Update(subtask *models.Subtask) error

	// Delete removes a subtask scoped to its parent task. Returns false
	// when no row matched.
	Delete(id, taskID uint64) (bool, error)
}

// ShareRepository defines the interface for task share data access
type ShareRepository interface {
	// Create creates a new share row
	Create(share *models.TaskShare) error

	// FindByTask lists shares of a task with recipients preloaded
	FindByTask(taskID uint64) ([]models.TaskShare, error)

	// FindByRecipient lists shares granted to a user
	FindByRecipient(recipientID uint64) ([]models.TaskShare, error)

	// FindPermission returns the permission level for (task, recipient),
	// or nil when no share exists
	FindPermission(taskID, recipientID uint64) (*models.PermissionLevel, error)

	// UpdatePermission overwrites the permission level for (task, recipient)
	UpdatePermission(taskID, recipientID uint64, level models.PermissionLevel) error

	// Delete removes the share for (task, recipient). Absence is not an
	// error; returns false when no row matched.
	Delete(taskID, recipientID uint64) (bool, error)
}
