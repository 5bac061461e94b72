package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/knagata/task-reminder-api/internal/dto"
	apierrors "github.com/knagata/task-reminder-api/internal/errors"
	"github.com/knagata/task-reminder-api/internal/middleware"
	"github.com/knagata/task-reminder-api/internal/models"
	"github.com/knagata/task-reminder-api/internal/services"
)

// TaskHandler coordinates task and subtask HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
	shareSvc    *services.ShareService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, shareSvc *services.ShareService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		shareSvc:    shareSvc,
	}
}

// ListTasks returns the tasks visible to the current user: their own plus
// tasks shared with them. Optional ?completed=true|false filter.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var completed *bool
	if v := c.Query("completed"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			apierrors.BadRequest(c, "Invalid completed filter")
			return
		}
		completed = &parsed
	}

	tasks, err := h.taskService.ListVisible(userID, completed)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}

// ListSharedTasks returns only the tasks shared with the current user.
func (h *TaskHandler) ListSharedTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.shareSvc.SharedTasks(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch shared tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"shared_tasks": dto.ToTaskDTOs(tasks)})
}

// GetTask returns a single task the current user may read.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task owned by the current user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string  `json:"title" binding:"required"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Recurrence  string  `json:"recurrence"`
		Priority    string  `json:"priority"`
		DueDate     *string `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Recurrence:  req.Recurrence,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. Allowed for the owner and for
// edit/admin collaborators.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title        *string            `json:"title"`
		Description  *string            `json:"description"`
		Category     *string            `json:"category"`
		Recurrence   *string            `json:"recurrence"`
		Priority     *string            `json:"priority"`
		Status       *models.TaskStatus `json:"status"`
		DueDate      *string            `json:"due_date"`
		ClearDueDate bool               `json:"clear_due_date"`
		Completed    *bool              `json:"completed"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Update(taskID, userID, services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Recurrence:   req.Recurrence,
		Priority:     req.Priority,
		Status:       req.Status,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		Completed:    req.Completed,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task. Owner-only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// CreateSubtask adds a subtask to a task the current user may edit.
func (h *TaskHandler) CreateSubtask(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	type CreateSubtaskRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req CreateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	subtask, err := h.taskService.CreateSubtask(taskID, userID, req.Title)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSubtaskDTO(*subtask))
}

// ListSubtasks returns the subtasks of a task the current user may read.
func (h *TaskHandler) ListSubtasks(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	subtasks, err := h.taskService.ListSubtasks(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	dtos := make([]dto.SubtaskDTO, len(subtasks))
	for i, subtask := range subtasks {
		dtos[i] = dto.ToSubtaskDTO(subtask)
	}
	c.JSON(http.StatusOK, gin.H{"subtasks": dtos})
}

// UpdateSubtask applies a partial update to a subtask.
func (h *TaskHandler) UpdateSubtask(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}
	subtaskID, ok := parseIDParam(c, "subtask_id")
	if !ok {
		return
	}

	type UpdateSubtaskRequest struct {
		Title     *string `json:"title"`
		Completed *bool   `json:"completed"`
	}

	var req UpdateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	subtask, err := h.taskService.UpdateSubtask(taskID, subtaskID, userID, services.UpdateSubtaskInput{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubtaskDTO(*subtask))
}

// DeleteSubtask removes a subtask.
func (h *TaskHandler) DeleteSubtask(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}
	subtaskID, ok := parseIDParam(c, "subtask_id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteSubtask(taskID, subtaskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subtask deleted successfully"})
}

// taskRequest extracts the authenticated user and the :id path parameter.
func taskRequest(c *gin.Context) (userID, taskID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return 0, 0, false
	}

	taskID, ok = parseIDParam(c, "id")
	if !ok {
		return 0, 0, false
	}
	return userID, taskID, true
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrSubtaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrEditForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrInvalidDueDate),
		errors.Is(err, services.ErrPastDueDate):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
