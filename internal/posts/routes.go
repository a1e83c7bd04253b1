package posts

import (
	"net/http"

	"kamuisnap/internal/files"
	"kamuisnap/internal/metrics"
	"kamuisnap/internal/middleware"
	"kamuisnap/internal/server"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// maxUploadBody leaves room for form fields next to the largest media file.
const maxUploadBody = files.MaxMediaSize + 1<<20

// Server wires the posts HTTP API.
type Server struct {
	service        *Service
	checks         map[string]server.Check
	allowedOrigins []string
}

// NewServer creates a posts server. checks feed GET /health.
func NewServer(service *Service, checks map[string]server.Check, allowedOrigins []string) *Server {
	return &Server{service: service, checks: checks, allowedOrigins: allowedOrigins}
}

// Router builds the gin engine. Callers may mount more routes on it.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), metrics.Middleware("posts-service"))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", middleware.HeaderUserID, middleware.HeaderUserEmail},
		AllowCredentials: true,
	}))

	handler := NewHandler(s.service)

	r.GET("/health", server.HealthHandler("posts-service", s.checks))
	r.GET("/metrics", metrics.Handler())

	// Reads are public; the gateway forwards the caller when a session exists.
	public := r.Group("/", middleware.OptionalAuthMiddleware())
	{
		public.GET("/posts", handler.ListPosts)
		public.GET("/posts/recipes", handler.ListRecipePosts)
		public.GET("/posts/:id", handler.GetPost)
		public.GET("/rankings/:period", handler.Ranking)
		public.GET("/users/:user_id/posts", handler.ListUserPosts)
	}

	authed := r.Group("/posts", middleware.AuthMiddleware())
	{
		authed.POST("", limitBody(maxUploadBody), handler.CreatePost)
		authed.POST("/recipes", limitBody(maxUploadBody), handler.CreateRecipePost)
		authed.PATCH("/:id", handler.UpdatePost)
		authed.DELETE("/:id", handler.DeletePost)
	}

	return r
}

// RegisterRoutes returns the engine as an http.Handler.
func (s *Server) RegisterRoutes() http.Handler {
	return s.Router()
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
