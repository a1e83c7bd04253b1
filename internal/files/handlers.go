package files

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for files service
type Handler struct {
	service *Service
}

// NewHandler creates a new files handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func writeError(c *gin.Context, err error, message string) {
	status, code := http.StatusInternalServerError, "GENERATION_FAILED"
	switch {
	case errors.Is(err, ErrInvalidMedia):
		status, code = http.StatusBadRequest, "INVALID_MEDIA"
	case errors.Is(err, ErrUpload):
		status, code = http.StatusBadGateway, "UPLOAD_FAILED"
	}
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
		Details: err.Error(),
	})
}

func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// GenerateAvatarUploadURL handles POST /files/avatar-upload-url.
// The client PUTs the image to upload_url, then saves public_url as its avatar_url.
func (h *Handler) GenerateAvatarUploadURL(c *gin.Context) {
	var req AvatarUploadURLRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.service.GenerateAvatarUploadURL(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err, "Failed to generate upload URL")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GenerateDownloadURL handles POST /files/download-url for keys under media/ or avatars/.
func (h *Handler) GenerateDownloadURL(c *gin.Context) {
	var req GenerateDownloadURLRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.service.GenerateDownloadURL(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err, "Failed to generate download URL")
		return
	}

	c.JSON(http.StatusOK, response)
}
