package auth

import "github.com/gin-gonic/gin"

const userIDKey = "userID"

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// SetUserID stores the authenticated user's ID for later handlers.
func SetUserID(c *gin.Context, userID string) {
	c.Set(userIDKey, userID)
}
