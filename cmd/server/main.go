package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/knagata/task-reminder-api/internal/config"
	"github.com/knagata/task-reminder-api/internal/database"
	"github.com/knagata/task-reminder-api/internal/handlers"
	"github.com/knagata/task-reminder-api/internal/middleware"
	"github.com/knagata/task-reminder-api/internal/repository"
	"github.com/knagata/task-reminder-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	subtaskRepo := repository.NewSubtaskRepository(db)
	shareRepo := repository.NewShareRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	shareService := services.NewShareService(shareRepo, taskRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, subtaskRepo, shareService)
	notificationService := services.NewNotificationService(taskRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService, shareService)
	shareHandler := handlers.NewShareHandler(shareService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Reminder API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	api.Use(middleware.RateLimit(10, 20))
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(authService), authHandler.GetCurrentUser)
			auth.PUT("/me", middleware.RequireAuth(authService), authHandler.UpdateCurrentUser)
			auth.POST("/change-password", middleware.RequireAuth(authService), authHandler.ChangePassword)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(authService))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/shared", taskHandler.ListSharedTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)

			tasks.GET("/:id/subtasks", taskHandler.ListSubtasks)
			tasks.POST("/:id/subtasks", taskHandler.CreateSubtask)
			tasks.PATCH("/:id/subtasks/:subtask_id", taskHandler.UpdateSubtask)
			tasks.DELETE("/:id/subtasks/:subtask_id", taskHandler.DeleteSubtask)

			tasks.POST("/:id/shares", shareHandler.ShareTask)
			tasks.GET("/:id/shares", shareHandler.ListShares)
			tasks.PATCH("/:id/shares", shareHandler.UpdateShare)
			tasks.DELETE("/:id/shares", shareHandler.RemoveShare)
		}

		// Notification routes (protected)
		api.GET("/notifications", middleware.RequireAuth(authService), notificationHandler.GetNotifications)
	}

	// Start server
	logrus.WithField("addr", cfg.ServerAddr).Info("server starting")
	if err := r.Run(cfg.ServerAddr); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
