package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/knagata/task-reminder-api/internal/constants"
	"github.com/knagata/task-reminder-api/internal/models"
	"github.com/knagata/task-reminder-api/internal/repository"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrSubtaskNotFound = errors.New("subtask not found")
	ErrEditForbidden   = errors.New("user does not have permission to modify this task")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleTooLong    = errors.New("title too long")
	ErrInvalidDueDate  = errors.New("due date must use the YYYY-MM-DD HH:MM format")
	ErrPastDueDate     = errors.New("cannot set due dates in the past")
)

// TaskService handles task and subtask business logic. Cross-user
// visibility goes through the ShareService; ownership-only operations use
// owner-scoped store queries so other users' tasks are excluded by
// construction.
type TaskService struct {
	taskRepo    repository.TaskRepository
	subtaskRepo repository.SubtaskRepository
	shareSvc    *ShareService

	now func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, subtaskRepo repository.SubtaskRepository, shareSvc *ShareService) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		subtaskRepo: subtaskRepo,
		shareSvc:    shareSvc,
		now:         time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Category    string
	Recurrence  string
	Priority    string
	DueDate     *string
}

// UpdateTaskInput is an explicit patch: nil fields are left untouched.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Category     *string
	Recurrence   *string
	Priority     *string
	Status       *models.TaskStatus
	DueDate      *string
	ClearDueDate bool
	Completed    *bool
}

// Create creates a task owned by ownerID.
func (s *TaskService) Create(ownerID uint64, input CreateTaskInput) (*models.Task, error) {
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}

	if input.DueDate != nil && *input.DueDate != "" {
		due, err := parseDueDate(*input.DueDate)
		if err != nil {
			return nil, err
		}
		if due.Before(s.now()) {
			return nil, ErrPastDueDate
		}
	} else {
		input.DueDate = nil
	}

	task := &models.Task{
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Recurrence:  input.Recurrence,
		Priority:    input.Priority,
		Status:      models.TaskStatusTodo,
		DueDate:     input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// Get returns a task visible to the actor: their own, or one shared with
// them. Inaccessible and nonexistent tasks are indistinguishable.
func (s *TaskService) Get(taskID, actorID uint64) (*models.Task, error) {
	ok, err := s.shareSvc.CanAccess(taskID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTaskNotFound
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// Update applies a patch to a task. The owner and edit/admin collaborators
// may update; the past-due check is deliberately not re-applied, an
// overdue task stays editable.
func (s *TaskService) Update(taskID, actorID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.editableTask(taskID, actorID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if err := validateTitle(*input.Title); err != nil {
			return nil, err
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Category != nil {
		task.Category = *input.Category
	}
	if input.Recurrence != nil {
		task.Recurrence = *input.Recurrence
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		if _, err := parseDueDate(*input.DueDate); err != nil {
			return nil, err
		}
		task.DueDate = input.DueDate
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
		if task.Completed {
			task.Status = models.TaskStatusDone
		} else {
			task.Status = models.TaskStatusTodo
		}
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Delete removes a task. Owner-only: the store delete is ownership-scoped,
// collaborators of any level cannot delete.
func (s *TaskService) Delete(taskID, actorID uint64) error {
	deleted, err := s.taskRepo.Delete(taskID, actorID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if deleted {
		return nil
	}

	// Nothing matched: distinguish "not yours" from "not there" only for
	// users who can already see the task.
	ok, accessErr := s.shareSvc.CanAccess(taskID, actorID)
	if accessErr != nil {
		return accessErr
	}
	if ok {
		return ErrEditForbidden
	}
	return ErrTaskNotFound
}

// ListVisible returns the actor's own tasks plus tasks shared with them,
// optionally filtered by completion, newest first. Ordering is stable
// within one call.
func (s *TaskService) ListVisible(userID uint64, completed *bool) ([]models.Task, error) {
	own, err := s.taskRepo.FindByOwner(userID, completed)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	shared, err := s.shareSvc.SharedTasks(userID)
	if err != nil {
		return nil, err
	}

	tasks := own
	for _, task := range shared {
		if completed != nil && task.Completed != *completed {
			continue
		}
		tasks = append(tasks, task)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// CreateSubtask adds a subtask to a task the actor may edit.
func (s *TaskService) CreateSubtask(taskID, actorID uint64, title string) (*models.Subtask, error) {
	if _, err := s.editableTask(taskID, actorID); err != nil {
		return nil, err
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	subtask := &models.Subtask{
		TaskID: taskID,
		Title:  title,
	}
	if err := s.subtaskRepo.Create(subtask); err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}
	return subtask, nil
}

// ListSubtasks returns the subtasks of a task the actor can read.
func (s *TaskService) ListSubtasks(taskID, actorID uint64) ([]models.Subtask, error) {
	if _, err := s.Get(taskID, actorID); err != nil {
		return nil, err
	}

	subtasks, err := s.subtaskRepo.FindByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks: %w", err)
	}
	return subtasks, nil
}

// UpdateSubtaskInput is an explicit patch for a subtask.
type UpdateSubtaskInput struct {
	Title     *string
	Completed *bool
}

// UpdateSubtask applies a patch to a subtask of a task the actor may edit.
// The subtask must belong to the given task.
func (s *TaskService) UpdateSubtask(taskID, subtaskID, actorID uint64, input UpdateSubtaskInput) (*models.Subtask, error) {
	if _, err := s.editableTask(taskID, actorID); err != nil {
		return nil, err
	}

	subtask, err := s.subtaskRepo.FindByIDForTask(subtaskID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubtaskNotFound
		}
		return nil, fmt.Errorf("failed to find subtask: %w", err)
	}

	if input.Title != nil {
		if err := validateTitle(*input.Title); err != nil {
			return nil, err
		}
		subtask.Title = *input.Title
	}
	if input.Completed != nil {
		subtask.Completed = *input.Completed
	}

	if err := s.subtaskRepo.Update(subtask); err != nil {
		return nil, fmt.Errorf("failed to update subtask: %w", err)
	}
	return subtask, nil
}

// DeleteSubtask removes a subtask of a task the actor may edit.
func (s *TaskService) DeleteSubtask(taskID, subtaskID, actorID uint64) error {
	if _, err := s.editableTask(taskID, actorID); err != nil {
		return err
	}

	deleted, err := s.subtaskRepo.Delete(subtaskID, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete subtask: %w", err)
	}
	if !deleted {
		return ErrSubtaskNotFound
	}
	return nil
}

// editableTask fetches a task the actor may modify: first the owner-scoped
// lookup, then the share-based edit check for collaborators.
func (s *TaskService) editableTask(taskID, actorID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDForOwner(taskID, actorID)
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	canEdit, err := s.shareSvc.CanEdit(taskID, actorID)
	if err != nil {
		return nil, err
	}
	if canEdit {
		task, err := s.taskRepo.FindByID(taskID)
		if err != nil {
			return nil, fmt.Errorf("failed to find task: %w", err)
		}
		return task, nil
	}

	canAccess, err := s.shareSvc.CanAccess(taskID, actorID)
	if err != nil {
		return nil, err
	}
	if canAccess {
		return nil, ErrEditForbidden
	}
	return nil, ErrTaskNotFound
}

func validateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if len(title) > constants.MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func parseDueDate(value string) (time.Time, error) {
	due, err := time.ParseInLocation(constants.DueDateFormat, value, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDueDate
	}
	return due, nil
}
