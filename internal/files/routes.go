package files

import (
	"net/http"

	"kamuisnap/internal/metrics"
	"kamuisnap/internal/middleware"
	"kamuisnap/internal/server"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server holds dependencies for files service
type Server struct {
	service        *Service
	allowedOrigins []string
}

// NewServer creates a new files server
func NewServer(service *Service, allowedOrigins []string) *Server {
	return &Server{service: service, allowedOrigins: allowedOrigins}
}

// RegisterRoutes sets up HTTP routes for files service
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), metrics.Middleware("files-service"))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", middleware.HeaderUserID, middleware.HeaderUserEmail},
		AllowCredentials: true,
	}))

	handler := NewHandler(s.service)

	r.GET("/health", server.HealthHandler("files-service", map[string]server.Check{
		"storage": server.ErrorCheck(s.service.HealthCheck),
	}))
	r.GET("/metrics", metrics.Handler())

	filesGroup := r.Group("/files")
	filesGroup.Use(middleware.AuthMiddleware())
	{
		filesGroup.POST("/avatar-upload-url", handler.GenerateAvatarUploadURL)
		filesGroup.POST("/download-url", handler.GenerateDownloadURL)
	}

	return r
}
