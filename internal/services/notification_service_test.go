package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/knagata/task-reminder-api/internal/constants"
	"github.com/knagata/task-reminder-api/internal/models"
)

// fixedNow pins the notification clock so the window boundaries can be
// asserted to the minute.
var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

func setupNotificationEnv(t *testing.T) (*testEnv, *models.User) {
	env := setupTestEnv(t)
	env.notificationSvc.now = func() time.Time { return fixedNow }
	user := env.createUser(t, "alice")
	return env, user
}

func (env *testEnv) insertTask(t *testing.T, ownerID uint64, title string, dueDate *string, completed bool) *models.Task {
	t.Helper()
	task := &models.Task{
		OwnerID:   ownerID,
		Title:     title,
		Status:    models.TaskStatusTodo,
		DueDate:   dueDate,
		Completed: completed,
	}
	require.NoError(t, env.taskRepo.Create(task))
	return task
}

func dueIn(d time.Duration) *string {
	s := fixedNow.Add(d).Format(constants.DueDateFormat)
	return &s
}

func titles(tasks []models.Task) []string {
	names := make([]string, len(tasks))
	for i, task := range tasks {
		names[i] = task.Title
	}
	return names
}

func TestNotificationsClassifyWindows(t *testing.T) {
	env, alice := setupNotificationEnv(t)

	env.insertTask(t, alice.ID, "due in 30 minutes", dueIn(30*time.Minute), false)
	env.insertTask(t, alice.ID, "due in 5 hours", dueIn(5*time.Hour), false)
	env.insertTask(t, alice.ID, "due in 3 days", dueIn(72*time.Hour), false)
	env.insertTask(t, alice.ID, "overdue yesterday", dueIn(-24*time.Hour), false)
	env.insertTask(t, alice.ID, "no due date", nil, false)

	notifications, err := env.notificationSvc.NotificationsFor(alice.ID)
	require.NoError(t, err)

	require.Equal(t, []string{"overdue yesterday"}, titles(notifications.Overdue))
	require.Equal(t, []string{"due in 30 minutes"}, titles(notifications.DueIn1Hour))
	// The one-day window includes everything the one-hour window holds
	require.Equal(t, []string{"due in 30 minutes", "due in 5 hours"}, titles(notifications.DueIn1Day))
}

func TestNotificationsExcludeCompletedTasks(t *testing.T) {
	env, alice := setupNotificationEnv(t)

	env.insertTask(t, alice.ID, "done soon", dueIn(30*time.Minute), true)
	env.insertTask(t, alice.ID, "done overdue", dueIn(-time.Hour), true)

	notifications, err := env.notificationSvc.NotificationsFor(alice.ID)
	require.NoError(t, err)

	require.Empty(t, notifications.Overdue)
	require.Empty(t, notifications.DueIn1Hour)
	require.Empty(t, notifications.DueIn1Day)
}

func TestNotificationsExcludeOtherUsersTasks(t *testing.T) {
	env, alice := setupNotificationEnv(t)
	bob := env.createUser(t, "bob")

	bobTask := env.insertTask(t, bob.ID, "bobs deadline", dueIn(30*time.Minute), false)

	// Even a task shared with alice stays out of her notifications:
	// the feed covers what she owns, not what she can see
	_, err := env.shareService.ShareTask(ShareInput{
		TaskID:    bobTask.ID,
		OwnerID:   bob.ID,
		Recipient: "alice",
	}, models.PermissionEdit)
	require.NoError(t, err)

	notifications, err := env.notificationSvc.NotificationsFor(alice.ID)
	require.NoError(t, err)
	require.Empty(t, notifications.DueIn1Hour)
	require.Empty(t, notifications.DueIn1Day)
}

func TestDueDateExactlyNowIsDueSoonNotOverdue(t *testing.T) {
	env, alice := setupNotificationEnv(t)

	env.insertTask(t, alice.ID, "due right now", dueIn(0), false)

	notifications, err := env.notificationSvc.NotificationsFor(alice.ID)
	require.NoError(t, err)

	require.Empty(t, notifications.Overdue)
	require.Equal(t, []string{"due right now"}, titles(notifications.DueIn1Hour))
	require.Equal(t, []string{"due right now"}, titles(notifications.DueIn1Day))
}

func TestDueWindowUpperBoundIsInclusive(t *testing.T) {
	env, alice := setupNotificationEnv(t)

	env.insertTask(t, alice.ID, "exactly one hour", dueIn(time.Hour), false)
	env.insertTask(t, alice.ID, "one minute past", dueIn(time.Hour+time.Minute), false)

	tasks, err := env.notificationSvc.DueWindow(alice.ID, constants.DueSoonWindowShort)
	require.NoError(t, err)
	require.Equal(t, []string{"exactly one hour"}, titles(tasks))
}

func TestDueWindowOrdersByDueDate(t *testing.T) {
	env, alice := setupNotificationEnv(t)

	env.insertTask(t, alice.ID, "later", dueIn(50*time.Minute), false)
	env.insertTask(t, alice.ID, "sooner", dueIn(10*time.Minute), false)

	tasks, err := env.notificationSvc.DueWindow(alice.ID, constants.DueSoonWindowShort)
	require.NoError(t, err)
	require.Equal(t, []string{"sooner", "later"}, titles(tasks))
}
