package auth

import (
	"kamuisnap/internal/metrics"
	"kamuisnap/internal/middleware"
	"kamuisnap/internal/server"
	"kamuisnap/internal/session"
	"kamuisnap/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the auth-service engine: credentials at the root and
// profile routes under /users.
func SetupRouter(svc Service, sessionMgr session.Manager, profiles users.Service, checks map[string]server.Check) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), metrics.Middleware("auth-service"))

	h := NewHandler(svc, sessionMgr)

	r.GET("/health", server.HealthHandler("auth-service", checks))
	r.GET("/metrics", metrics.Handler())

	// Public auth endpoints
	r.POST("/signup", h.SignUp)
	r.POST("/signin", h.SignIn)
	r.POST("/signout", h.SignOut)

	// Identity forwarded by the gateway
	r.GET("/me", middleware.AuthMiddleware(), h.Me)

	users.NewHandler(profiles).RegisterRoutes(r)

	return r
}
