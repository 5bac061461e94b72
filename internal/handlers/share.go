package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/knagata/task-reminder-api/internal/dto"
	apierrors "github.com/knagata/task-reminder-api/internal/errors"
	"github.com/knagata/task-reminder-api/internal/models"
	"github.com/knagata/task-reminder-api/internal/services"
)

// ShareHandler coordinates task-sharing HTTP handlers. All mutations are
// owner-only; the recipient may be given as a username or a short code.
type ShareHandler struct {
	shareSvc *services.ShareService
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(shareSvc *services.ShareService) *ShareHandler {
	return &ShareHandler{
		shareSvc: shareSvc,
	}
}

// ShareTask grants another user access to a task.
func (h *ShareHandler) ShareTask(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	type ShareRequest struct {
		Recipient  string                 `json:"recipient" binding:"required"`
		Permission models.PermissionLevel `json:"permission_level"`
	}

	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.Permission == "" {
		req.Permission = models.PermissionView
	}

	share, err := h.shareSvc.ShareTask(services.ShareInput{
		TaskID:    taskID,
		OwnerID:   userID,
		Recipient: req.Recipient,
	}, req.Permission)
	if err != nil {
		respondShareError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Task shared successfully with '%s'", share.Recipient.Username),
		"share":   dto.ToShareDTO(*share),
	})
}

// ListShares returns the shares of a task. Non-owners get an empty list.
func (h *ShareHandler) ListShares(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	shares, err := h.shareSvc.ListShares(taskID, userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list shares")
		return
	}

	dtos := make([]dto.ShareDTO, len(shares))
	for i, share := range shares {
		dtos[i] = dto.ToShareDTO(share)
	}
	c.JSON(http.StatusOK, gin.H{"shares": dtos})
}

// UpdateShare changes the permission level of an existing share.
func (h *ShareHandler) UpdateShare(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	type UpdateShareRequest struct {
		Recipient  string                 `json:"recipient" binding:"required"`
		Permission models.PermissionLevel `json:"permission_level" binding:"required"`
	}

	var req UpdateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	recipient, err := h.shareSvc.UpdateSharePermission(services.ShareInput{
		TaskID:    taskID,
		OwnerID:   userID,
		Recipient: req.Recipient,
	}, req.Permission)
	if err != nil {
		respondShareError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Permission updated for '%s'", recipient.Username),
	})
}

// RemoveShare revokes a share. Removing a share that does not exist still
// succeeds.
func (h *ShareHandler) RemoveShare(c *gin.Context) {
	userID, taskID, ok := taskRequest(c)
	if !ok {
		return
	}

	type RemoveShareRequest struct {
		Recipient string `json:"recipient" binding:"required"`
	}

	var req RemoveShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	recipient, err := h.shareSvc.RemoveShare(services.ShareInput{
		TaskID:    taskID,
		OwnerID:   userID,
		Recipient: req.Recipient,
	})
	if err != nil {
		respondShareError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Share removed for '%s'", recipient.Username),
	})
}

func respondShareError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotOwner):
		// Same status and message as a missing task so that non-owners
		// cannot probe for task existence.
		apierrors.NotFound(c, services.ErrTaskNotFound.Error())
	case errors.Is(err, services.ErrRecipientNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrSelfShare),
		errors.Is(err, services.ErrInvalidPermission):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAlreadyShared):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrShareNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
