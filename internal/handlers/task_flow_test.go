package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/knagata/task-reminder-api/internal/constants"
	"github.com/knagata/task-reminder-api/internal/dto"
	"github.com/knagata/task-reminder-api/internal/middleware"
	"github.com/knagata/task-reminder-api/internal/models"
	"github.com/knagata/task-reminder-api/internal/repository"
	"github.com/knagata/task-reminder-api/internal/services"
)

// TaskFlowTestSuite exercises the task, share and notification routes
// through the full router, middleware included.
type TaskFlowTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *TaskFlowTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Subtask{},
		&models.TaskShare{},
	)
	suite.Require().NoError(err)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	subtaskRepo := repository.NewSubtaskRepository(db)
	shareRepo := repository.NewShareRepository(db)

	authService := services.NewAuthService(userRepo, "test-secret", time.Hour, 24*time.Hour)
	shareService := services.NewShareService(shareRepo, taskRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, subtaskRepo, shareService)
	notificationService := services.NewNotificationService(taskRepo)

	authHandler := NewAuthHandler(authService)
	taskHandler := NewTaskHandler(taskService, shareService)
	shareHandler := NewShareHandler(shareService)
	notificationHandler := NewNotificationHandler(notificationService)

	r := gin.New()
	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	tasks := api.Group("/tasks")
	tasks.Use(middleware.RequireAuth(authService))
	tasks.GET("", taskHandler.ListTasks)
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("/shared", taskHandler.ListSharedTasks)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PATCH("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)
	tasks.POST("/:id/subtasks", taskHandler.CreateSubtask)
	tasks.GET("/:id/subtasks", taskHandler.ListSubtasks)
	tasks.POST("/:id/shares", shareHandler.ShareTask)
	tasks.GET("/:id/shares", shareHandler.ListShares)
	tasks.PATCH("/:id/shares", shareHandler.UpdateShare)
	tasks.DELETE("/:id/shares", shareHandler.RemoveShare)

	api.GET("/notifications", middleware.RequireAuth(authService), notificationHandler.GetNotifications)

	suite.router = r
}

func (suite *TaskFlowTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskFlowTestSuite) do(method, url string, payload interface{}, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates a user over HTTP and returns their access
// token and profile.
func (suite *TaskFlowTestSuite) registerAndLogin(username string) (string, dto.UserDTO) {
	w := suite.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"password": "supersecret",
	}, "")
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": "supersecret",
	}, "")
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.TokenResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response.AccessToken, response.User
}

func (suite *TaskFlowTestSuite) createTask(token string, payload map[string]interface{}) dto.TaskDTO {
	w := suite.do(http.MethodPost, "/api/tasks", payload, token)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var task dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func (suite *TaskFlowTestSuite) listTasks(token string) []dto.TaskDTO {
	w := suite.do(http.MethodGet, "/api/tasks", nil, token)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response.Tasks
}

func (suite *TaskFlowTestSuite) TestSharingLifecycle() {
	aliceToken, _ := suite.registerAndLogin("alice")
	bobToken, bob := suite.registerAndLogin("bob")

	dueDate := time.Now().Add(20 * time.Hour).Format(constants.DueDateFormat)
	task := suite.createTask(aliceToken, map[string]interface{}{
		"title":    "Prepare slides",
		"due_date": dueDate,
	})
	taskURL := fmt.Sprintf("/api/tasks/%d", task.ID)

	// Before the share, bob cannot see the task at all
	w := suite.do(http.MethodGet, taskURL, nil, bobToken)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Empty(suite.listTasks(bobToken))

	// Share with view permission, addressing bob by short code
	w = suite.do(http.MethodPost, taskURL+"/shares", map[string]interface{}{
		"recipient":        bob.ShortCode,
		"permission_level": "view",
	}, aliceToken)
	suite.Require().Equal(http.StatusCreated, w.Code)
	suite.Contains(w.Body.String(), "Task shared successfully with 'bob'")

	// The task now shows up in bob's combined and shared listings
	tasks := suite.listTasks(bobToken)
	suite.Require().Len(tasks, 1)
	suite.Equal("Prepare slides", tasks[0].Title)

	w = suite.do(http.MethodGet, "/api/tasks/shared", nil, bobToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Prepare slides")

	// View permission does not allow edits or deletion
	w = suite.do(http.MethodPatch, taskURL, map[string]interface{}{
		"description": "bob's notes",
	}, bobToken)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodDelete, taskURL, nil, bobToken)
	suite.Equal(http.StatusForbidden, w.Code)

	// Upgrade to edit
	w = suite.do(http.MethodPatch, taskURL+"/shares", map[string]interface{}{
		"recipient":        "bob",
		"permission_level": "edit",
	}, aliceToken)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPatch, taskURL, map[string]interface{}{
		"description": "bob's notes",
	}, bobToken)
	suite.Require().Equal(http.StatusOK, w.Code)

	var updated dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.Equal("bob's notes", updated.Description)

	// Deletion stays owner-only even for editors
	w = suite.do(http.MethodDelete, taskURL, nil, bobToken)
	suite.Equal(http.StatusForbidden, w.Code)

	// The owner sees the upcoming deadline in their notifications
	w = suite.do(http.MethodGet, "/api/notifications", nil, aliceToken)
	suite.Require().Equal(http.StatusOK, w.Code)

	var notifications dto.NotificationsDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &notifications))
	suite.Empty(notifications.Overdue)
	suite.Empty(notifications.DueIn1Hour)
	suite.Require().Len(notifications.DueIn1Day, 1)
	suite.Equal("Prepare slides", notifications.DueIn1Day[0].Title)

	// Bob's notifications stay empty, shared tasks are not his deadlines
	w = suite.do(http.MethodGet, "/api/notifications", nil, bobToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &notifications))
	suite.Empty(notifications.DueIn1Day)

	// Revoking the share cuts bob off again
	w = suite.do(http.MethodDelete, taskURL+"/shares", map[string]interface{}{
		"recipient": "bob",
	}, aliceToken)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, taskURL, nil, bobToken)
	suite.Equal(http.StatusNotFound, w.Code)

	// Alice deletes her own task
	w = suite.do(http.MethodDelete, taskURL, nil, aliceToken)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *TaskFlowTestSuite) TestShareErrorResponses() {
	aliceToken, alice := suite.registerAndLogin("alice")
	bobToken, _ := suite.registerAndLogin("bob")

	task := suite.createTask(aliceToken, map[string]interface{}{"title": "Private"})
	taskURL := fmt.Sprintf("/api/tasks/%d", task.ID)

	// Unknown recipient
	w := suite.do(http.MethodPost, taskURL+"/shares", map[string]interface{}{
		"recipient": "nobody",
	}, aliceToken)
	suite.Equal(http.StatusNotFound, w.Code)

	// Self share
	w = suite.do(http.MethodPost, taskURL+"/shares", map[string]interface{}{
		"recipient": alice.Username,
	}, aliceToken)
	suite.Equal(http.StatusBadRequest, w.Code)

	// Invalid permission level
	w = suite.do(http.MethodPost, taskURL+"/shares", map[string]interface{}{
		"recipient":        "bob",
		"permission_level": "owner",
	}, aliceToken)
	suite.Equal(http.StatusBadRequest, w.Code)

	// Duplicate share
	w = suite.do(http.MethodPost, taskURL+"/shares", map[string]interface{}{
		"recipient": "bob",
	}, aliceToken)
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodPost, taskURL+"/shares", map[string]interface{}{
		"recipient": "bob",
	}, aliceToken)
	suite.Equal(http.StatusConflict, w.Code)

	// A non-owner sharing someone else's task gets the same response as
	// for a missing task
	w = suite.do(http.MethodPost, taskURL+"/shares", map[string]interface{}{
		"recipient": "alice",
	}, bobToken)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodPost, "/api/tasks/9999/shares", map[string]interface{}{
		"recipient": "alice",
	}, bobToken)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskFlowTestSuite) TestSubtasksOverHTTP() {
	aliceToken, _ := suite.registerAndLogin("alice")

	task := suite.createTask(aliceToken, map[string]interface{}{"title": "Trip"})
	subtasksURL := fmt.Sprintf("/api/tasks/%d/subtasks", task.ID)

	w := suite.do(http.MethodPost, subtasksURL, map[string]interface{}{
		"title": "Book flights",
	}, aliceToken)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var subtask dto.SubtaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &subtask))
	suite.Equal(task.ID, subtask.TaskID)

	w = suite.do(http.MethodGet, subtasksURL, nil, aliceToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Book flights")
}

func (suite *TaskFlowTestSuite) TestCompletedFilter() {
	aliceToken, _ := suite.registerAndLogin("alice")

	done := suite.createTask(aliceToken, map[string]interface{}{"title": "Done"})
	suite.createTask(aliceToken, map[string]interface{}{"title": "Open"})

	w := suite.do(http.MethodPatch, fmt.Sprintf("/api/tasks/%d", done.ID), map[string]interface{}{
		"completed": true,
	}, aliceToken)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/tasks?completed=true", nil, aliceToken)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 1)
	suite.Equal("Done", response.Tasks[0].Title)
	suite.Equal(models.TaskStatusDone, response.Tasks[0].Status)

	w = suite.do(http.MethodGet, "/api/tasks?completed=banana", nil, aliceToken)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func TestTaskFlowTestSuite(t *testing.T) {
	suite.Run(t, new(TaskFlowTestSuite))
}
