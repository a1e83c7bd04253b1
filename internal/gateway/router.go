// Package gateway implements the API Gateway service logic.
// The gateway handles session validation, service discovery, and request routing
// to backend microservices.
package gateway

import (
	"kamuisnap/internal/consul"
	"kamuisnap/internal/metrics"
	"kamuisnap/internal/session"

	"github.com/gin-gonic/gin"
)

// Backend service names as registered in Consul.
const (
	AuthService   = "auth-service"
	PostsService  = "posts-service"
	LikesService  = "likes-service"
	FilesService  = "files-service"
	DevCatService = "devcat-service"
)

// Config tunes the gateway's edge behaviour.
type Config struct {
	AllowedOrigins []string
	// RateLimiter is applied to /auth and /api. Nil disables limiting.
	RateLimiter *RateLimiter
}

// SetupRouter configures and returns the gateway router
func SetupRouter(discovery consul.ServiceDiscovery, sessionMgr session.Manager, cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())
	r.Use(metrics.Middleware("api-gateway"))
	r.Use(CORSMiddleware(cfg.AllowedOrigins))

	proxy := NewProxyHandler(discovery)
	requireSession := SessionAuthMiddleware(sessionMgr)
	optionalSession := OptionalSessionAuthMiddleware(sessionMgr)

	r.GET("/health", proxy.Health)
	r.GET("/metrics", metrics.Handler())

	edge := r.Group("")
	if cfg.RateLimiter != nil {
		edge.Use(cfg.RateLimiter.Middleware())
	}

	// Credentials: /auth/signin -> auth-service /signin
	toAuth := proxy.Proxy(AuthService, "/auth")
	auth := edge.Group("/auth")
	{
		auth.POST("/signup", optionalSession, toAuth)
		auth.POST("/signin", optionalSession, toAuth)
		auth.POST("/signout", optionalSession, toAuth)
		auth.GET("/me", requireSession, toAuth)
	}

	// Everything under /api loses the prefix: /api/posts/7 -> posts-service /posts/7
	api := edge.Group("/api")

	toPosts := proxy.Proxy(PostsService, "/api")
	toLikes := proxy.Proxy(LikesService, "/api")
	toProfiles := proxy.Proxy(AuthService, "/api")

	// Browsing works anonymously; a session only personalises it.
	browse := api.Group("", optionalSession)
	{
		browse.GET("/posts", toPosts)
		browse.GET("/posts/*path", toPosts)
		browse.GET("/rankings/*path", toPosts)
		browse.GET("/users/:user_id/posts", toPosts)

		browse.GET("/users/availability", toProfiles)
		browse.GET("/users/:user_id", toProfiles)

		browse.GET("/likes/*path", toLikes)
	}

	member := api.Group("", requireSession)
	{
		member.POST("/posts", toPosts)
		member.POST("/posts/*path", toPosts)
		member.PATCH("/posts/*path", toPosts)
		member.DELETE("/posts/*path", toPosts)

		member.POST("/likes/*path", toLikes)
		member.DELETE("/likes/*path", toLikes)

		member.GET("/users/me", toProfiles)
		member.PATCH("/users/me", toProfiles)
		member.POST("/users/me/twitter", toProfiles)

		member.Any("/files/*path", proxy.Proxy(FilesService, "/api"))
	}

	api.GET("/devcat/*path", proxy.Proxy(DevCatService, "/api"))

	return r
}
