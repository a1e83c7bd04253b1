package share

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"kamuisnap/internal/middleware"
	"kamuisnap/internal/posts"
	"kamuisnap/internal/twitter"

	"github.com/gin-gonic/gin"
	gobreaker "github.com/sony/gobreaker/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts POST /posts/:id/share/twitter on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/posts/:id/share/twitter", middleware.AuthMiddleware(), h.ShareToTwitter)
}

// ShareToTwitter handles POST /posts/:id/share/twitter
func (h *Handler) ShareToTwitter(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || postID < 1 {
		c.JSON(http.StatusBadRequest, posts.ErrorResponse{Success: false, Error: "Invalid post ID"})
		return
	}

	tweet, err := h.service.ShareToTwitter(c.Request.Context(), userID, postID)
	if err != nil {
		status, message := http.StatusInternalServerError, "Failed to share post"
		switch {
		case errors.Is(err, posts.ErrNotAuthenticated):
			status, message = http.StatusUnauthorized, "Unauthorized: user not authenticated"
		case errors.Is(err, posts.ErrPostNotFound):
			status, message = http.StatusNotFound, "Post not found"
		case errors.Is(err, ErrTwitterNotLinked):
			status, message = http.StatusConflict, "Link your Twitter account before sharing"
		case errors.Is(err, twitter.ErrNotConfigured),
			errors.Is(err, gobreaker.ErrOpenState),
			errors.Is(err, gobreaker.ErrTooManyRequests):
			status, message = http.StatusServiceUnavailable, "Twitter is unavailable"
		case twitter.GrantRejected(err):
			status, message = http.StatusBadRequest, "Twitter authorization expired, link your account again"
		case errors.Is(err, twitter.ErrToken):
			status, message = http.StatusBadGateway, "Could not refresh Twitter authorization"
			log.Printf("Share post %d failed: %v", postID, err)
		case errors.Is(err, twitter.ErrAPI):
			status, message = http.StatusBadGateway, "Twitter rejected the post"
			log.Printf("Share post %d failed: %v", postID, err)
		default:
			log.Printf("Share post %d failed: %v", postID, err)
		}
		c.JSON(status, posts.ErrorResponse{Success: false, Error: message})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Shared to Twitter",
		"data":    tweet,
	})
}
