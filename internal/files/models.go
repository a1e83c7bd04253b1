package files

import "time"

// Media is the result of a successful post media upload.
type Media struct {
	URL       string `json:"url"`
	Key       string `json:"key"`
	MediaType string `json:"media_type"`
}

// AvatarUploadURLRequest represents request for an avatar upload URL
type AvatarUploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// AvatarUploadURLResponse carries the presigned PUT and the URL the avatar will be served from.
type AvatarUploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileKey   string `json:"file_key"`
	PublicURL string `json:"public_url"`
	ExpiresAt int64  `json:"expires_at"` // Unix timestamp
}

// GenerateDownloadURLRequest represents request for download URL generation
type GenerateDownloadURLRequest struct {
	FileKey string `json:"file_key" binding:"required"`
}

// GenerateDownloadURLResponse represents response with presigned download URL
type GenerateDownloadURLResponse struct {
	DownloadURL string `json:"download_url"`
	ExpiresAt   int64  `json:"expires_at"` // Unix timestamp
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Constants for file operations
const (
	MaxFilenameLength = 255
	MaxMediaSize      = 50 * 1024 * 1024
	MaxAvatarSize     = 5 * 1024 * 1024
	AvatarUploadTTL   = 15 * time.Minute
	DownloadTTL       = 1 * time.Hour
)

// mediaContentTypes maps accepted upload types to their media type and fallback extension.
var mediaContentTypes = map[string]struct {
	mediaType string
	ext       string
}{
	"image/jpeg":      {MediaTypeImage, ".jpg"},
	"image/png":       {MediaTypeImage, ".png"},
	"image/gif":       {MediaTypeImage, ".gif"},
	"image/webp":      {MediaTypeImage, ".webp"},
	"video/mp4":       {MediaTypeVideo, ".mp4"},
	"video/webm":      {MediaTypeVideo, ".webm"},
	"video/quicktime": {MediaTypeVideo, ".mov"},
}
