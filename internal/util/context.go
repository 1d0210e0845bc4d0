package util

import (
	"github.com/gin-gonic/gin"
	"github.com/zfogg/inkwell/backend/internal/errors"
	"github.com/zfogg/inkwell/backend/internal/models"
)

const (
	// ContextUserKey holds the resolved *models.User
	ContextUserKey = "user"
	// ContextUserIDKey holds the resolved user's ID
	ContextUserIDKey = "user_id"
)

// SetUser attaches the resolved caller to the request context
func SetUser(c *gin.Context, user *models.User) {
	c.Set(ContextUserKey, user)
	c.Set(ContextUserIDKey, user.ID)
}

// CurrentUser returns the caller attached by the auth middleware, or nil for anonymous requests
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

// CurrentUserID returns the caller's ID without responding when the request is anonymous
func CurrentUserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserIDKey)
	return id, id != ""
}

// GetUserFromContext extracts the authenticated user from the Gin context.
// If the request is anonymous it responds with 401 and returns false.
func GetUserFromContext(c *gin.Context) (*models.User, bool) {
	user := CurrentUser(c)
	if user == nil {
		RespondWithAPIError(c, errors.Unauthenticated(""))
		return nil, false
	}
	return user, true
}

// GetUserIDFromContext extracts the authenticated user's ID, responding with 401 when absent
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	user, ok := GetUserFromContext(c)
	if !ok {
		return "", false
	}
	return user.ID, true
}
