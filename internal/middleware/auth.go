// Package middleware holds the gin middleware shared by backend services.
// The gateway validates the session cookie and forwards the caller as
// X-User-ID / X-User-Email; services trust those headers.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"

	contextUserID = "user_id"
	contextEmail  = "email"
)

// AuthMiddleware rejects requests that do not carry a valid X-User-ID.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDStr := c.GetHeader(HeaderUserID)
		if userIDStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Unauthorized: missing user authentication",
			})
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Unauthorized: invalid user ID",
			})
			return
		}

		c.Set(contextUserID, userID)
		c.Set(contextEmail, c.GetHeader(HeaderUserEmail))

		c.Next()
	}
}

// OptionalAuthMiddleware extracts user info if present, but doesn't require it.
// Feeds use it so anonymous visitors can browse.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userIDStr := c.GetHeader(HeaderUserID); userIDStr != "" {
			if userID, err := uuid.Parse(userIDStr); err == nil {
				c.Set(contextUserID, userID)
				c.Set(contextEmail, c.GetHeader(HeaderUserEmail))
			}
		}
		c.Next()
	}
}

// GetUserID is a helper to extract user_id from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(contextUserID)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// GetEmail returns the forwarded email, if any.
func GetEmail(c *gin.Context) string {
	return c.GetString(contextEmail)
}
