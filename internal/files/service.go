package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"kamuisnap/internal/metrics"
	"kamuisnap/internal/storage"

	"github.com/google/uuid"
)

var (
	// ErrInvalidMedia is returned for missing files, unsupported types or mismatched media types.
	ErrInvalidMedia = errors.New("invalid media")
	// ErrFileTooLarge is returned when an upload exceeds its size limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrUpload is returned when object storage rejects a transfer.
	ErrUpload = errors.New("upload failed")
)

// Service handles business logic for file operations
type Service struct {
	storage storage.Service
}

// NewService creates a new files service
func NewService(storage storage.Service) *Service {
	return &Service{
		storage: storage,
	}
}

// ValidateFilename checks if filename is safe and valid
func ValidateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("%w: filename cannot be empty", ErrInvalidMedia)
	}
	if len(filename) > MaxFilenameLength {
		return fmt.Errorf("%w: filename too long (max %d characters)", ErrInvalidMedia, MaxFilenameLength)
	}
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("%w: filename contains invalid characters", ErrInvalidMedia)
	}
	return nil
}

// MediaTypeOf returns "image" or "video" for an accepted content type.
func MediaTypeOf(contentType string) (string, error) {
	ct, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: content type %q", ErrInvalidMedia, contentType)
	}
	info, ok := mediaContentTypes[ct]
	if !ok {
		return "", fmt.Errorf("%w: content type %s is not allowed", ErrInvalidMedia, ct)
	}
	return info.mediaType, nil
}

// ObjectKey builds prefix/<uuid><ext>, keeping the original extension lower-cased.
// Files without an extension get the canonical one for their content type.
func ObjectKey(prefix, filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || ext == "." {
		ct, _, _ := mime.ParseMediaType(contentType)
		ext = mediaContentTypes[ct].ext
	}
	return fmt.Sprintf("%s/%s%s", prefix, uuid.New().String(), ext)
}

// UploadMedia validates a post attachment and stores it under media/.
// declaredType, when non-empty, must agree with the payload.
func (s *Service) UploadMedia(ctx context.Context, fh *multipart.FileHeader, declaredType string) (*Media, error) {
	if fh == nil {
		return nil, fmt.Errorf("%w: media file is required", ErrInvalidMedia)
	}
	if err := ValidateFilename(fh.Filename); err != nil {
		return nil, err
	}
	if fh.Size > MaxMediaSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, fh.Size, MaxMediaSize)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename)))
	}
	mediaType, err := MediaTypeOf(contentType)
	if err != nil {
		return nil, err
	}
	if declaredType != "" && declaredType != mediaType {
		return nil, fmt.Errorf("%w: declared %s but received %s", ErrInvalidMedia, declaredType, mediaType)
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open upload: %v", ErrInvalidMedia, err)
	}
	defer file.Close()

	if err := checkSniffedType(file, mediaType); err != nil {
		return nil, err
	}

	key := ObjectKey("media", fh.Filename, contentType)
	url, err := s.storage.Upload(ctx, key, file, fh.Size, contentType)
	metrics.MediaUploadsTotal.WithLabelValues(mediaType, metrics.Outcome(err)).Inc()
	if err != nil {
		log.Printf("Media upload failed for %s: %v", key, err)
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	return &Media{URL: url, Key: key, MediaType: mediaType}, nil
}

// checkSniffedType rejects payloads whose leading bytes clearly belong to the
// other media class, then rewinds the file.
func checkSniffedType(file multipart.File, mediaType string) error {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: failed to read upload: %v", ErrInvalidMedia, err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: failed to rewind upload: %v", ErrInvalidMedia, err)
	}

	sniffed := http.DetectContentType(head[:n])
	switch {
	case mediaType == MediaTypeImage && strings.HasPrefix(sniffed, "video/"),
		mediaType == MediaTypeVideo && strings.HasPrefix(sniffed, "image/"):
		return fmt.Errorf("%w: payload looks like %s", ErrInvalidMedia, sniffed)
	}
	return nil
}

// GenerateAvatarUploadURL issues a presigned PUT for avatars/<uuid><ext>.
func (s *Service) GenerateAvatarUploadURL(ctx context.Context, req *AvatarUploadURLRequest) (*AvatarUploadURLResponse, error) {
	if err := ValidateFilename(req.Filename); err != nil {
		return nil, err
	}
	mediaType, err := MediaTypeOf(req.ContentType)
	if err != nil {
		return nil, err
	}
	if mediaType != MediaTypeImage {
		return nil, fmt.Errorf("%w: avatars must be images", ErrInvalidMedia)
	}

	fileKey := ObjectKey("avatars", req.Filename, req.ContentType)

	uploadURL, err := s.storage.GeneratePresignedUploadURL(ctx, fileKey, req.ContentType, AvatarUploadTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	return &AvatarUploadURLResponse{
		UploadURL: uploadURL,
		FileKey:   fileKey,
		PublicURL: s.storage.PublicURL(fileKey),
		ExpiresAt: time.Now().Add(AvatarUploadTTL).Unix(),
	}, nil
}

// GenerateDownloadURL creates a presigned URL for file download
func (s *Service) GenerateDownloadURL(ctx context.Context, req *GenerateDownloadURLRequest) (*GenerateDownloadURLResponse, error) {
	if !ownedKey(req.FileKey) {
		return nil, fmt.Errorf("%w: unknown file key", ErrInvalidMedia)
	}

	downloadURL, err := s.storage.GeneratePresignedDownloadURL(ctx, req.FileKey, DownloadTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate download URL: %w", err)
	}

	return &GenerateDownloadURLResponse{
		DownloadURL: downloadURL,
		ExpiresAt:   time.Now().Add(DownloadTTL).Unix(),
	}, nil
}

// ownedKey accepts only keys this service hands out.
func ownedKey(key string) bool {
	if strings.Contains(key, "..") {
		return false
	}
	return strings.HasPrefix(key, "media/") || strings.HasPrefix(key, "avatars/")
}

// DeleteFile removes a file from storage
func (s *Service) DeleteFile(ctx context.Context, fileKey string) error {
	if fileKey == "" {
		return fmt.Errorf("%w: file key cannot be empty", ErrInvalidMedia)
	}

	if err := s.storage.DeleteFile(ctx, fileKey); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// HealthCheck checks storage service health
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.storage.Health(ctx)
}
