package devcat

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog *Catalog
	logger  *slog.Logger
}

func NewHandler(catalog *Catalog, logger *slog.Logger) *Handler {
	return &Handler{catalog: catalog, logger: logger}
}

func respond[T any](c *gin.Context, v *T, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": v})
}

func list[T any](c *gin.Context, items []T) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items, "count": len(items)})
}

// GET /devcat/cats
func (h *Handler) ListCats(c *gin.Context) { list(c, h.catalog.Cats()) }

// GET /devcat/cats/:id
func (h *Handler) GetCat(c *gin.Context) {
	v, err := h.catalog.Cat(c.Param("id"))
	respond(c, v, err)
}

// GET /devcat/episodes
func (h *Handler) ListEpisodes(c *gin.Context) { list(c, h.catalog.Episodes()) }

// GET /devcat/episodes/:id
func (h *Handler) GetEpisode(c *gin.Context) {
	v, err := h.catalog.Episode(c.Param("id"))
	respond(c, v, err)
}

// GET /devcat/recipes
func (h *Handler) ListRecipes(c *gin.Context) { list(c, h.catalog.Recipes()) }

// GET /devcat/recipes/:id
func (h *Handler) GetRecipe(c *gin.Context) {
	v, err := h.catalog.Recipe(c.Param("id"))
	respond(c, v, err)
}

// GET /devcat/story
func (h *Handler) GetStory(c *gin.Context) {
	story := h.catalog.Story()
	c.JSON(http.StatusOK, gin.H{"success": true, "data": story})
}

// GET /devcat/story/episodes/:id
func (h *Handler) GetStoryEpisode(c *gin.Context) {
	v, err := h.catalog.StoryEpisode(c.Param("id"))
	respond(c, v, err)
}

// GET /devcat/hungry
func (h *Handler) Hungry(c *gin.Context) {
	h.logger.Info(HungryMessage)
	c.JSON(http.StatusOK, gin.H{"message": HungryMessage})
}
