package likes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"kamuisnap/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type mockService struct {
	likeFunc    func(ctx context.Context, userID uuid.UUID, postID int64) (*Result, error)
	unlikeFunc  func(ctx context.Context, userID uuid.UUID, postID int64) (*Result, error)
	countFunc   func(ctx context.Context, postID int64) (int64, error)
	isLikedFunc func(ctx context.Context, userID uuid.UUID, postID int64) (bool, error)
}

func (m *mockService) Like(ctx context.Context, userID uuid.UUID, postID int64) (*Result, error) {
	return m.likeFunc(ctx, userID, postID)
}

func (m *mockService) Unlike(ctx context.Context, userID uuid.UUID, postID int64) (*Result, error) {
	return m.unlikeFunc(ctx, userID, postID)
}

func (m *mockService) Count(ctx context.Context, postID int64) (int64, error) {
	return m.countFunc(ctx, postID)
}

func (m *mockService) IsLiked(ctx context.Context, userID uuid.UUID, postID int64) (bool, error) {
	return m.isLikedFunc(ctx, userID, postID)
}

func newTestRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(svc, nil, []string{"http://localhost:5173"})
}

func request(method, target string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if userID != uuid.Nil {
		req.Header.Set("X-User-ID", userID.String())
	}
	return req
}

func TestLikeHandler(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		target     string
		userID     uuid.UUID
		likeFunc   func(ctx context.Context, userID uuid.UUID, postID int64) (*Result, error)
		wantStatus int
	}{
		{
			name:   "new like",
			target: "/likes/7",
			userID: userID,
			likeFunc: func(ctx context.Context, u uuid.UUID, postID int64) (*Result, error) {
				if u != userID || postID != 7 {
					t.Errorf("unexpected args %s %d", u, postID)
				}
				return &Result{PostID: postID, Liked: true, Likes: 1, Changed: true}, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:   "already liked",
			target: "/likes/7",
			userID: userID,
			likeFunc: func(ctx context.Context, u uuid.UUID, postID int64) (*Result, error) {
				return &Result{PostID: postID, Liked: true, Likes: 1}, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing user",
			target:     "/likes/7",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "bad post id",
			target:     "/likes/abc",
			userID:     userID,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "unknown post",
			target: "/likes/99",
			userID: userID,
			likeFunc: func(ctx context.Context, u uuid.UUID, postID int64) (*Result, error) {
				return nil, ErrPostNotFound
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "store failure",
			target: "/likes/7",
			userID: userID,
			likeFunc: func(ctx context.Context, u uuid.UUID, postID int64) (*Result, error) {
				return nil, database.Wrap("insert like", errors.New("connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&mockService{likeFunc: tt.likeFunc})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, request(http.MethodPost, tt.target, tt.userID))
			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestUnlikeHandler(t *testing.T) {
	r := newTestRouter(&mockService{
		unlikeFunc: func(ctx context.Context, userID uuid.UUID, postID int64) (*Result, error) {
			return &Result{PostID: postID, Likes: 0, Changed: true}, nil
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, request(http.MethodDelete, "/likes/3", uuid.New()))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Success bool   `json:"success"`
		Data    Result `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Data.Liked || resp.Data.PostID != 3 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestCountIsPublic(t *testing.T) {
	r := newTestRouter(&mockService{
		countFunc: func(ctx context.Context, postID int64) (int64, error) {
			return 42, nil
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, request(http.MethodGet, "/likes/5/count", uuid.Nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var resp CountResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.PostID != 5 || resp.Count != 42 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestIsLikedHandler(t *testing.T) {
	r := newTestRouter(&mockService{
		isLikedFunc: func(ctx context.Context, userID uuid.UUID, postID int64) (bool, error) {
			return postID == 1, nil
		},
	})

	for _, tc := range []struct {
		target string
		want   bool
	}{{"/likes/1", true}, {"/likes/2", false}} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, request(http.MethodGet, tc.target, uuid.New()))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", tc.target, w.Code)
		}
		var resp LikedResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Liked != tc.want {
			t.Errorf("%s: liked = %v, want %v", tc.target, resp.Liked, tc.want)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, request(http.MethodGet, "/likes/1", uuid.Nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without a user, got %d", w.Code)
	}
}

func TestServiceRejectsInvalidInput(t *testing.T) {
	svc := NewService(nil, nil)
	ctx := context.Background()

	if _, err := svc.Like(ctx, uuid.Nil, 1); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := svc.Unlike(ctx, uuid.New(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Count(ctx, -1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
