package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/knagata/task-reminder-api/internal/dto"
	apierrors "github.com/knagata/task-reminder-api/internal/errors"
	"github.com/knagata/task-reminder-api/internal/middleware"
	"github.com/knagata/task-reminder-api/internal/services"
)

// NotificationHandler serves the due-date notification feed.
type NotificationHandler struct {
	notificationSvc *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationSvc *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationSvc: notificationSvc,
	}
}

// GetNotifications returns the overdue / due-in-1-hour / due-in-1-day
// lists for the current user's own tasks.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	notifications, err := h.notificationSvc.NotificationsFor(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch notifications")
		return
	}

	c.JSON(http.StatusOK, dto.NotificationsDTO{
		Overdue:    dto.ToTaskDTOs(notifications.Overdue),
		DueIn1Hour: dto.ToTaskDTOs(notifications.DueIn1Hour),
		DueIn1Day:  dto.ToTaskDTOs(notifications.DueIn1Day),
	})
}
