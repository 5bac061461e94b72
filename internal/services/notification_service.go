package services

import (
	"fmt"
	"time"

	"github.com/knagata/task-reminder-api/internal/constants"
	"github.com/knagata/task-reminder-api/internal/models"
	"github.com/knagata/task-reminder-api/internal/repository"
)

// Notifications groups a user's due-date alerts. The one-hour and one-day
// windows overlap on purpose: a task due in twenty minutes shows up in
// both lists.
type Notifications struct {
	Overdue    []models.Task `json:"overdue"`
	DueIn1Hour []models.Task `json:"due_in_1_hour"`
	DueIn1Day  []models.Task `json:"due_in_1_day"`
}

// NotificationService classifies a user's own incomplete tasks by due
// date. Shared tasks are excluded: notifications answer what the owner
// needs to act on, not what others have shared with them.
//
// A task due exactly now is due-soon, not overdue: due-soon is
// due_date >= now inclusive, overdue is due_date < now. No gap, no overlap.
type NotificationService struct {
	taskRepo repository.TaskRepository

	now func() time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(taskRepo repository.TaskRepository) *NotificationService {
	return &NotificationService{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

// DueWindow returns the user's incomplete tasks due within the next
// `hours` hours, both bounds inclusive.
func (s *NotificationService) DueWindow(userID uint64, hours int) ([]models.Task, error) {
	now := s.now()
	from := now.Format(constants.DueDateFormat)
	to := now.Add(time.Duration(hours) * time.Hour).Format(constants.DueDateFormat)

	tasks, err := s.taskRepo.FindDueBetween(userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query due window: %w", err)
	}
	return tasks, nil
}

// Overdue returns the user's incomplete tasks whose due date has passed.
func (s *NotificationService) Overdue(userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.FindDueBefore(userID, s.now().Format(constants.DueDateFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue tasks: %w", err)
	}
	return tasks, nil
}

// NotificationsFor computes the three alert lists with independent
// queries.
func (s *NotificationService) NotificationsFor(userID uint64) (*Notifications, error) {
	overdue, err := s.Overdue(userID)
	if err != nil {
		return nil, err
	}

	dueIn1Hour, err := s.DueWindow(userID, constants.DueSoonWindowShort)
	if err != nil {
		return nil, err
	}

	dueIn1Day, err := s.DueWindow(userID, constants.DueSoonWindowLong)
	if err != nil {
		return nil, err
	}

	return &Notifications{
		Overdue:    overdue,
		DueIn1Hour: dueIn1Hour,
		DueIn1Day:  dueIn1Day,
	}, nil
}
