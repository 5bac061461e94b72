package dto

import (
	"time"

	"github.com/knagata/task-reminder-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64  `json:"id"`
	Username  string  `json:"username"`
	ShortCode string  `json:"short_code"`
	Email     *string `json:"email,omitempty"`
}

// SubtaskDTO represents a subtask in API responses
type SubtaskDTO struct {
	ID        uint64 `json:"id"`
	TaskID    uint64 `json:"task_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	OwnerID     uint64            `json:"owner_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Recurrence  string            `json:"recurrence"`
	Priority    string            `json:"priority"`
	Status      models.TaskStatus `json:"status"`
	DueDate     *string           `json:"due_date"`
	Completed   bool              `json:"completed"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Subtasks    []SubtaskDTO      `json:"subtasks,omitempty"`
}

// ShareDTO represents a task share in API responses. The recipient is
// exposed by username and short code, never by internal ID alone.
type ShareDTO struct {
	ShareID    uint64                 `json:"share_id"`
	TaskID     uint64                 `json:"task_id"`
	Username   string                 `json:"username"`
	ShortCode  string                 `json:"short_code"`
	Permission models.PermissionLevel `json:"permission_level"`
	CreatedAt  time.Time              `json:"created_at"`
}

// TokenResponse is returned by login: the token pair plus the user.
type TokenResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         UserDTO `json:"user"`
}

// NotificationsDTO groups due-date alert lists
type NotificationsDTO struct {
	Overdue    []TaskDTO `json:"overdue"`
	DueIn1Hour []TaskDTO `json:"due_in_1_hour"`
	DueIn1Day  []TaskDTO `json:"due_in_1_day"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		ShortCode: user.ShortCode,
		Email:     user.Email,
	}
}

// ToSubtaskDTO converts a Subtask model to SubtaskDTO
func ToSubtaskDTO(subtask models.Subtask) SubtaskDTO {
	return SubtaskDTO{
		ID:        subtask.ID,
		TaskID:    subtask.TaskID,
		Title:     subtask.Title,
		Completed: subtask.Completed,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Category:    task.Category,
		Recurrence:  task.Recurrence,
		Priority:    task.Priority,
		Status:      task.Status,
		DueDate:     task.DueDate,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if len(task.Subtasks) > 0 {
		dto.Subtasks = make([]SubtaskDTO, len(task.Subtasks))
		for i, subtask := range task.Subtasks {
			dto.Subtasks[i] = ToSubtaskDTO(subtask)
		}
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToShareDTO converts a TaskShare with a preloaded recipient
func ToShareDTO(share models.TaskShare) ShareDTO {
	return ShareDTO{
		ShareID:    share.ID,
		TaskID:     share.TaskID,
		Username:   share.Recipient.Username,
		ShortCode:  share.Recipient.ShortCode,
		Permission: share.Permission,
		CreatedAt:  share.CreatedAt,
	}
}
