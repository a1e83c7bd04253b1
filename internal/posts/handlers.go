package posts

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"kamuisnap/internal/files"
	"kamuisnap/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for posts
type Handler struct {
	service *Service
	now     func() time.Time
}

// NewHandler creates a new posts handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

// writeError maps service errors onto status codes.
func writeError(c *gin.Context, err error, fallback string) {
	status, message := http.StatusInternalServerError, fallback
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		status, message = http.StatusUnauthorized, "Unauthorized: user not authenticated"
	case errors.Is(err, ErrPostNotFound):
		status, message = http.StatusNotFound, "Post not found"
	case errors.Is(err, ErrForbidden):
		status, message = http.StatusForbidden, "You are not authorized to modify this post"
	case errors.Is(err, ErrInvalidPeriod):
		status, message = http.StatusBadRequest, "invalid ranking period"
	case errors.Is(err, ErrValidation),
		errors.Is(err, files.ErrInvalidMedia),
		errors.Is(err, files.ErrFileTooLarge):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, files.ErrUpload):
		status, message = http.StatusBadGateway, "Failed to upload media"
	default:
		log.Printf("%s: %v", fallback, err)
	}

	c.JSON(status, ErrorResponse{Success: false, Error: message})
}

func parsePostID(c *gin.Context) (int64, bool) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || postID < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid post ID",
		})
		return 0, false
	}
	return postID, true
}

func queryLimit(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	return limit
}

// ListPosts handles GET /posts?category=&limit=
func (h *Handler) ListPosts(c *gin.Context) {
	var (
		posts []Post
		err   error
	)
	if category := c.Query("category"); category != "" {
		posts, err = h.service.ListByCategory(c.Request.Context(), category, queryLimit(c))
	} else {
		posts, err = h.service.ListRecent(c.Request.Context(), queryLimit(c))
	}
	if err != nil {
		writeError(c, err, "Failed to retrieve posts")
		return
	}

	c.JSON(http.StatusOK, ListResponse{Success: true, Data: posts, Count: len(posts)})
}

// ListRecipePosts handles GET /posts/recipes
func (h *Handler) ListRecipePosts(c *gin.Context) {
	posts, err := h.service.ListRecipePosts(c.Request.Context(), queryLimit(c))
	if err != nil {
		writeError(c, err, "Failed to retrieve recipe posts")
		return
	}

	c.JSON(http.StatusOK, ListResponse{Success: true, Data: posts, Count: len(posts)})
}

// ListUserPosts handles GET /users/:user_id/posts
func (h *Handler) ListUserPosts(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid user ID",
		})
		return
	}

	posts, err := h.service.ListByUser(c.Request.Context(), userID, queryLimit(c))
	if err != nil {
		writeError(c, err, "Failed to retrieve user posts")
		return
	}

	c.JSON(http.StatusOK, ListResponse{Success: true, Data: posts, Count: len(posts)})
}

// GetPost handles GET /posts/:id
func (h *Handler) GetPost(c *gin.Context) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	post, recipe, err := h.service.GetPost(c.Request.Context(), postID)
	if err != nil {
		writeError(c, err, "Failed to retrieve post")
		return
	}

	var data any = post
	if recipe != nil {
		data = RecipePost{Post: *post, Recipe: *recipe}
	}
	c.JSON(http.StatusOK, PostResponse{Success: true, Data: data})
}

// Ranking handles GET /rankings/:period?media_type=&category=
// An invalid period still answers with an empty list so clients can render nothing.
func (h *Handler) Ranking(c *gin.Context) {
	period, err := ParsePeriod(c.Param("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   ErrInvalidPeriod.Error(),
			"data":    []Post{},
		})
		return
	}

	filter := RankingFilter{
		MediaType: c.Query("media_type"),
		Category:  c.Query("category"),
	}

	posts, err := h.service.Ranking(c.Request.Context(), period, filter, h.now())
	if err != nil {
		writeError(c, err, "Failed to compute ranking")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"period":  period,
		"data":    posts,
		"count":   len(posts),
	})
}

// CreatePost handles POST /posts (multipart: media, media_type, category, caption)
func (h *Handler) CreatePost(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		writeError(c, ErrNotAuthenticated, "")
		return
	}

	media, err := c.FormFile("media")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid multipart body: " + err.Error(),
		})
		return
	}

	post, err := h.service.Create(c.Request.Context(), userID, CreatePostInput{
		Media:     media,
		MediaType: c.PostForm("media_type"),
		Category:  c.PostForm("category"),
		Caption:   c.PostForm("caption"),
	})
	if err != nil {
		writeError(c, err, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, PostResponse{
		Success: true,
		Message: "Post created successfully",
		Data:    post,
	})
}

// CreateRecipePost handles POST /posts/recipes (multipart: media, caption, recipe as JSON)
func (h *Handler) CreateRecipePost(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		writeError(c, ErrNotAuthenticated, "")
		return
	}

	var recipe RecipeInput
	if err := json.Unmarshal([]byte(c.PostForm("recipe")), &recipe); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid recipe: " + err.Error(),
		})
		return
	}

	media, err := c.FormFile("media")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid multipart body: " + err.Error(),
		})
		return
	}

	post, err := h.service.CreateWithRecipe(c.Request.Context(), userID, CreateRecipePostInput{
		Media:   media,
		Caption: c.PostForm("caption"),
		Recipe:  recipe,
	})
	if err != nil {
		writeError(c, err, "Failed to create recipe post")
		return
	}

	c.JSON(http.StatusCreated, PostResponse{
		Success: true,
		Message: "Recipe posted successfully",
		Data:    post,
	})
}

// UpdatePost handles PATCH /posts/:id
func (h *Handler) UpdatePost(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		writeError(c, ErrNotAuthenticated, "")
		return
	}
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
		})
		return
	}
	if req.Caption == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Nothing to update",
		})
		return
	}

	post, err := h.service.UpdateCaption(c.Request.Context(), userID, postID, *req.Caption)
	if err != nil {
		writeError(c, err, "Failed to update post")
		return
	}

	c.JSON(http.StatusOK, PostResponse{
		Success: true,
		Message: "Post updated successfully",
		Data:    post,
	})
}

// DeletePost handles DELETE /posts/:id
func (h *Handler) DeletePost(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		writeError(c, ErrNotAuthenticated, "")
		return
	}
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, postID); err != nil {
		writeError(c, err, "Failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Post deleted successfully",
	})
}
