package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check reports the state of one dependency for /health.
type Check func(ctx context.Context) map[string]string

// DatabaseCheck adapts a database.Service Health method.
func DatabaseCheck(health func() map[string]string) Check {
	return func(context.Context) map[string]string { return health() }
}

// ErrorCheck adapts a ping-style func such as storage.Service.Health.
func ErrorCheck(ping func(ctx context.Context) error) Check {
	return func(ctx context.Context) map[string]string {
		if err := ping(ctx); err != nil {
			return map[string]string{"status": "down", "error": err.Error()}
		}
		return map[string]string{"status": "up"}
	}
}

// HealthHandler answers GET /health. Any dependency reporting "down" turns the response into a 503.
func HealthHandler(service string, checks map[string]Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		response := gin.H{"service": service}
		status := "healthy"
		for name, check := range checks {
			result := check(ctx)
			if result["status"] == "down" {
				status = "degraded"
			}
			response[name] = result
		}
		response["status"] = status

		code := http.StatusOK
		if status != "healthy" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, response)
	}
}
