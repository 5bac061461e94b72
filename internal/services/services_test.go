package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/knagata/task-reminder-api/internal/models"
	"github.com/knagata/task-reminder-api/internal/repository"
)

type testEnv struct {
	db              *gorm.DB
	userRepo        repository.UserRepository
	taskRepo        repository.TaskRepository
	authService     *AuthService
	shareService    *ShareService
	taskService     *TaskService
	notificationSvc *NotificationService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Subtask{},
		&models.TaskShare{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	subtaskRepo := repository.NewSubtaskRepository(db)
	shareRepo := repository.NewShareRepository(db)

	authService := NewAuthService(userRepo, "test-secret", time.Hour, 24*time.Hour)
	shareService := NewShareService(shareRepo, taskRepo, userRepo)
	taskService := NewTaskService(taskRepo, subtaskRepo, shareService)
	notificationSvc := NewNotificationService(taskRepo)

	return &testEnv{
		db:              db,
		userRepo:        userRepo,
		taskRepo:        taskRepo,
		authService:     authService,
		shareService:    shareService,
		taskService:     taskService,
		notificationSvc: notificationSvc,
	}
}

func (env *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := env.authService.Register(RegisterInput{
		Username: username,
		Password: "password123",
	})
	require.NoError(t, err)
	return user
}

func (env *testEnv) createTask(t *testing.T, ownerID uint64, title string) *models.Task {
	t.Helper()
	task, err := env.taskService.Create(ownerID, CreateTaskInput{Title: title})
	require.NoError(t, err)
	return task
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
