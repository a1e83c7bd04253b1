package files

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newTestRouter(store *mockStorage) http.Handler {
	gin.SetMode(gin.TestMode)
	return NewServer(NewService(store), []string{"http://localhost:5173"}).RegisterRoutes()
}

func TestAvatarUploadURLHandler(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		body       string
		store      *mockStorage
		wantStatus int
	}{
		{
			name:       "success",
			userID:     uuid.New().String(),
			body:       `{"filename":"me.png","content_type":"image/png"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unauthenticated",
			body:       `{"filename":"me.png","content_type":"image/png"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing fields",
			userID:     uuid.New().String(),
			body:       `{"filename":"me.png"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad content type",
			userID:     uuid.New().String(),
			body:       `{"filename":"me.txt","content_type":"text/plain"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "storage down",
			userID: uuid.New().String(),
			body:   `{"filename":"me.png","content_type":"image/png"}`,
			store: &mockStorage{
				presignFunc: func(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
					return "", errors.New("no route to host")
				},
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tt.store
			if store == nil {
				store = &mockStorage{}
			}
			r := newTestRouter(store)

			req := httptest.NewRequest(http.MethodPost, "/files/avatar-upload-url", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.userID != "" {
				req.Header.Set("X-User-ID", tt.userID)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				var resp AvatarUploadURLResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if resp.UploadURL == "" || resp.PublicURL == "" {
					t.Errorf("expected URLs in response: %+v", resp)
				}
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	r := newTestRouter(&mockStorage{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}
