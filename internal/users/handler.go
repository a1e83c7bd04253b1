package users

import (
	"errors"
	"log"
	"net/http"

	"kamuisnap/internal/middleware"
	"kamuisnap/internal/twitter"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Handler serves the profile endpoints.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the profile routes on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	users := r.Group("/users")

	users.GET("/availability", h.CheckAvailability)

	me := users.Group("/me", middleware.AuthMiddleware())
	{
		me.GET("", h.GetMe)
		me.PATCH("", h.UpdateMe)
		me.POST("/twitter", h.ConnectTwitter)
	}

	users.GET("/:user_id", h.GetProfile)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, ErrInvalidUsername):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_username",
			"message": err.Error(),
			"field":   "username",
		})
	case errors.Is(err, ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "username_taken",
			"message": "This username is already in use",
			"field":   "username",
		})
	case errors.Is(err, ErrInvalidProfile):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, twitter.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "twitter integration is not configured"})
	case twitter.GrantRejected(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "twitter authorization was rejected, try linking again"})
	case errors.Is(err, twitter.ErrToken):
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "twitter token request failed"})
	case errors.Is(err, twitter.ErrAPI):
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "twitter rejected the request"})
	default:
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// bindError turns a failed username tag into the registry's error shape.
func (h *Handler) bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "username" {
				h.writeError(c, ErrInvalidUsername, "")
				return
			}
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// CheckAvailability handles GET /users/availability?username=
func (h *Handler) CheckAvailability(c *gin.Context) {
	username := c.Query("username")
	available, err := h.service.CheckUsernameAvailability(c.Request.Context(), username)
	if err != nil {
		h.writeError(c, err, "failed to check username")
		return
	}
	c.JSON(http.StatusOK, AvailabilityResponse{Username: username, Available: available})
}

// GetMe handles GET /users/me
func (h *Handler) GetMe(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	p, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetProfile handles GET /users/:user_id
func (h *Handler) GetProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	p, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, p.Public())
}

// UpdateMe handles PATCH /users/me
func (h *Handler) UpdateMe(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	p, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

// ConnectTwitter handles POST /users/me/twitter
func (h *Handler) ConnectTwitter(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req ConnectTwitterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	p, err := h.service.ConnectTwitter(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err, "failed to link twitter account")
		return
	}
	c.JSON(http.StatusOK, gin.H{"twitterHandle": p.TwitterHandle, "user": p})
}
