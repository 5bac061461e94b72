package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/knagata/task-reminder-api/internal/constants"
	apierrors "github.com/knagata/task-reminder-api/internal/errors"
	"github.com/knagata/task-reminder-api/internal/models"
	"github.com/knagata/task-reminder-api/internal/services"
)

// RequireAuth validates the bearer access token and loads the user into
// the request context.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Vary", "Authorization")

		authHeader := c.GetHeader("Authorization")
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || parts[0] != "Bearer" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := authService.VerifyAccessToken(parts[1])
		if err != nil {
			apierrors.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint64)
	return id, ok
}

// GetUser retrieves the current user from context
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}

	user, ok := value.(*models.User)
	return user, ok
}
