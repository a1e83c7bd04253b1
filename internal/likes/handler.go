package likes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"kamuisnap/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler { return &Handler{svc: svc} }

func writeError(c *gin.Context, err error, fallback string) {
	status, message := http.StatusInternalServerError, fallback
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		status, message = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrInvalidInput):
		status, message = http.StatusBadRequest, "invalid post id"
	case errors.Is(err, ErrPostNotFound):
		status, message = http.StatusNotFound, "post not found"
	default:
		log.Printf("%s: %v", fallback, err)
	}
	c.JSON(status, ErrorResponse{Success: false, Error: message})
}

func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil || id < 1 {
		writeError(c, ErrInvalidInput, "")
		return 0, false
	}
	return id, true
}

// POST /likes/:post_id
func (h *Handler) Like(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := postID(c)
	if !ok {
		return
	}
	res, err := h.svc.Like(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err, "failed to like")
		return
	}
	status := http.StatusOK
	if res.Changed {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"success": true, "data": res})
}

// DELETE /likes/:post_id
func (h *Handler) Unlike(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := postID(c)
	if !ok {
		return
	}
	res, err := h.svc.Unlike(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err, "failed to unlike")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}

// GET /likes/:post_id/count
func (h *Handler) Count(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	cnt, err := h.svc.Count(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to count")
		return
	}
	c.JSON(http.StatusOK, CountResponse{PostID: id, Count: cnt})
}

// GET /likes/:post_id
func (h *Handler) IsLiked(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	id, ok := postID(c)
	if !ok {
		return
	}
	liked, err := h.svc.IsLiked(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err, "failed")
		return
	}
	c.JSON(http.StatusOK, LikedResponse{PostID: id, Liked: liked})
}
