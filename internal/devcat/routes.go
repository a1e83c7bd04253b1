package devcat

import (
	"log/slog"

	"kamuisnap/internal/metrics"
	"kamuisnap/internal/server"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter builds the devcat-service engine. Everything is public and read-only.
func SetupRouter(catalog *Catalog, logger *slog.Logger, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), metrics.Middleware("devcat-service"))
	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
	}))

	h := NewHandler(catalog, logger)

	r.GET("/health", server.HealthHandler("devcat-service", nil))
	r.GET("/metrics", metrics.Handler())

	g := r.Group("/devcat")
	{
		g.GET("/cats", h.ListCats)
		g.GET("/cats/:id", h.GetCat)
		g.GET("/episodes", h.ListEpisodes)
		g.GET("/episodes/:id", h.GetEpisode)
		g.GET("/recipes", h.ListRecipes)
		g.GET("/recipes/:id", h.GetRecipe)
		g.GET("/story", h.GetStory)
		g.GET("/story/episodes/:id", h.GetStoryEpisode)
		g.GET("/hungry", h.Hungry)
	}

	return r
}
