package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"kamuisnap/internal/middleware"
	"kamuisnap/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// clearIdentity drops identity headers sent by the client. Only the gateway sets them.
func clearIdentity(c *gin.Context) {
	c.Request.Header.Del(middleware.HeaderUserID)
	c.Request.Header.Del(middleware.HeaderUserEmail)
}

// attachSession resolves the session cookie. ok is false when there is no usable session.
func attachSession(c *gin.Context, sessionMgr session.Manager) (reason string, ok bool) {
	sessionID, err := c.Cookie(session.CookieName)
	if err != nil || sessionID == "" {
		return "no session cookie", false
	}

	sess, err := sessionMgr.Get(c.Request.Context(), sessionID)
	if err != nil {
		slog.Warn("Invalid session",
			"error", err.Error(),
			"request_id", c.GetString("request_id"),
		)
		return "invalid session", false
	}

	// Inject user context for downstream services
	c.Set("user_id", sess.UserID)
	c.Request.Header.Set(middleware.HeaderUserID, sess.UserID)
	c.Request.Header.Set(middleware.HeaderUserEmail, sess.Email)
	return "", true
}

// SessionAuthMiddleware validates the session cookie and forwards the caller
// as X-User-ID / X-User-Email. Requests without a valid session get 401.
func SessionAuthMiddleware(sessionMgr session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		clearIdentity(c)

		if reason, ok := attachSession(c, sessionMgr); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "unauthorized: " + reason,
			})
			return
		}

		c.Next()
	}
}

// OptionalSessionAuthMiddleware forwards the caller when a valid session exists
// and lets anonymous requests through otherwise.
func OptionalSessionAuthMiddleware(sessionMgr session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		clearIdentity(c)
		attachSession(c, sessionMgr)
		c.Next()
	}
}

// DefaultAllowedOrigins is the local web client, used when no origins are configured.
var DefaultAllowedOrigins = []string{"http://localhost:5173"}

// CORSMiddleware allows credentialed requests from the configured origins.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Cache-Control", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// RequestIDMiddleware generates a unique request ID for distributed tracing
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()
	}
}

// LoggingMiddleware logs all requests passing through the gateway with structured JSON
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", float64(time.Since(start).Microseconds()) / 1000,
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"response_size", c.Writer.Size(),
		}

		if query := c.Request.URL.RawQuery; query != "" {
			attrs = append(attrs, "query", query)
		}
		if userID, exists := c.Get("user_id"); exists {
			attrs = append(attrs, "user_id", userID)
		}
		if upstream, exists := c.Get("upstream_service"); exists {
			attrs = append(attrs, "upstream_service", upstream)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			slog.Error("Request failed - server error", attrs...)
		case status >= 400:
			slog.Warn("Request failed - client error", attrs...)
		default:
			slog.Info("Request completed", attrs...)
		}
	}
}
