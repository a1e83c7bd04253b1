package likes

import (
	"kamuisnap/internal/metrics"
	"kamuisnap/internal/middleware"
	"kamuisnap/internal/server"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(svc Service, checks map[string]server.Check, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), metrics.Middleware("likes-service"))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Type", middleware.HeaderUserID, middleware.HeaderUserEmail},
		AllowCredentials: true,
	}))
	h := NewHandler(svc)

	// Health
	r.GET("/health", server.HealthHandler("likes-service", checks))
	r.GET("/metrics", metrics.Handler())

	// Likes
	r.GET("/likes/:post_id/count", h.Count)

	authed := r.Group("/likes", middleware.AuthMiddleware())
	{
		authed.POST("/:post_id", h.Like)
		authed.DELETE("/:post_id", h.Unlike)
		authed.GET("/:post_id", h.IsLiked)
	}

	return r
}
