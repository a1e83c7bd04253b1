package auth

import (
	"errors"
	"log"
	"net/http"

	"kamuisnap/internal/config"
	"kamuisnap/internal/middleware"
	"kamuisnap/internal/session"

	"github.com/gin-gonic/gin"
)

// Handler handles authentication-related HTTP requests
type Handler struct {
	service    Service
	sessionMgr session.Manager
}

// NewHandler creates a new authentication handler
func NewHandler(service Service, sessionMgr session.Manager) *Handler {
	return &Handler{
		service:    service,
		sessionMgr: sessionMgr,
	}
}

// startSession stores a session for user and sets the cookie.
func (h *Handler) startSession(c *gin.Context, user *User, status int) {
	sess, err := h.sessionMgr.Create(c.Request.Context(), user.ID.String(), user.Email)
	if err != nil {
		log.Printf("Failed to create session for user %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		session.CookieName,
		sess.ID,
		int(h.sessionMgr.MaxAge().Seconds()),
		"/",
		"",
		config.IsProduction(),
		true, // httpOnly
	)

	c.JSON(status, AuthResponse{
		User:      user,
		SessionID: sess.ID,
	})
}

// SignUp handles POST /signup
// @Summary Create an account
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "Email and password"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /signup [post]
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "email_taken",
				"message": "This email is already registered",
				"field":   "email",
			})
			return
		}
		if errors.Is(err, ErrPasswordTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "password_too_long",
				"message": err.Error(),
				"field":   "password",
			})
			return
		}
		log.Printf("Failed to sign up %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	h.startSession(c, user, http.StatusCreated)
}

// SignIn handles POST /signin
// @Summary Sign in with email and password
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Email and password"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} map[string]string
// @Router /signin [post]
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		log.Printf("Failed to sign in %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign in"})
		return
	}

	h.startSession(c, user, http.StatusOK)
}

// SignOut handles POST /signout
// @Summary Sign out
// @Description Invalidates the current session
// @Produce json
// @Success 200 {object} map[string]string
// @Router /signout [post]
func (h *Handler) SignOut(c *gin.Context) {
	sessionID, err := c.Cookie(session.CookieName)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "already logged out"})
		return
	}

	if err := h.sessionMgr.Delete(c.Request.Context(), sessionID); err != nil {
		log.Printf("Failed to delete session %s: %v", sessionID, err)
	}

	c.SetCookie(session.CookieName, "", -1, "/", "", config.IsProduction(), true)

	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

// Me handles GET /me
// @Summary Current user
// @Produce json
// @Success 200 {object} User
// @Failure 401 {object} map[string]string
// @Router /me [get]
func (h *Handler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.service.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		// A session that outlived its user is as good as none.
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		log.Printf("Failed to load user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, user)
}
