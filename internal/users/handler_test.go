package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"kamuisnap/internal/twitter"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

type mockService struct {
	getProfileFunc     func(ctx context.Context, userID uuid.UUID) (*Profile, error)
	availabilityFunc   func(ctx context.Context, username string) (bool, error)
	updateProfileFunc  func(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*Profile, error)
	connectTwitterFunc func(ctx context.Context, userID uuid.UUID, req ConnectTwitterRequest) (*Profile, error)
}

func (m *mockService) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return m.getProfileFunc(ctx, userID)
}

func (m *mockService) CheckUsernameAvailability(ctx context.Context, username string) (bool, error) {
	return m.availabilityFunc(ctx, username)
}

func (m *mockService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*Profile, error) {
	return m.updateProfileFunc(ctx, userID, req)
}

func (m *mockService) ConnectTwitter(ctx context.Context, userID uuid.UUID, req ConnectTwitterRequest) (*Profile, error) {
	return m.connectTwitterFunc(ctx, userID, req)
}

func (m *mockService) TwitterLink(ctx context.Context, userID uuid.UUID) (*TwitterLink, error) {
	return nil, ErrTwitterNotLinked
}

func (m *mockService) SaveTwitterToken(ctx context.Context, userID uuid.UUID, token *oauth2.Token) error {
	return nil
}

func newTestRouter(t *testing.T, svc Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		t.Fatal(err)
	}
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func TestCheckAvailabilityHandler(t *testing.T) {
	r := newTestRouter(t, &mockService{
		availabilityFunc: func(ctx context.Context, username string) (bool, error) {
			if err := ValidateUsername(username); err != nil {
				return false, err
			}
			return username != "taken_name", nil
		},
	})

	tests := []struct {
		query      string
		wantStatus int
		available  bool
	}{
		{"free_name", http.StatusOK, true},
		{"taken_name", http.StatusOK, false},
		{"ab", http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/availability?username="+tt.query, nil))
		if w.Code != tt.wantStatus {
			t.Fatalf("%s: expected status %d, got %d", tt.query, tt.wantStatus, w.Code)
		}
		if w.Code != http.StatusOK {
			continue
		}
		var resp AvailabilityResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Available != tt.available {
			t.Errorf("%s: available = %v", tt.query, resp.Available)
		}
	}
}

func TestUpdateMeHandler(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		body       string
		updateErr  error
		wantStatus int
	}{
		{"rename", `{"username":"new_name"}`, nil, http.StatusOK},
		{"invalid username tag", `{"username":"bad name!"}`, nil, http.StatusBadRequest},
		{"taken", `{"username":"taken_name"}`, ErrUsernameTaken, http.StatusConflict},
		{"bad avatar", `{"avatarUrl":"not a url"}`, nil, http.StatusBadRequest},
		{"bad display name", `{"displayName":"<b></b>"}`, ErrInvalidProfile, http.StatusBadRequest},
		{"store failure", `{"displayName":"Neko"}`, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			r := newTestRouter(t, &mockService{
				updateProfileFunc: func(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*Profile, error) {
					called = true
					if id != userID {
						t.Errorf("unexpected user %s", id)
					}
					if tt.updateErr != nil {
						return nil, tt.updateErr
					}
					return &Profile{ID: id, Username: *req.Username}, nil
				},
			})

			req := httptest.NewRequest(http.MethodPatch, "/users/me", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-User-ID", userID.String())
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus == http.StatusBadRequest && tt.updateErr == nil && called {
				t.Error("service must not be called when binding fails")
			}
		})
	}
}

func TestGetMeRequiresUser(t *testing.T) {
	r := newTestRouter(t, &mockService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestGetProfileHidesEmail(t *testing.T) {
	userID := uuid.New()
	r := newTestRouter(t, &mockService{
		getProfileFunc: func(ctx context.Context, id uuid.UUID) (*Profile, error) {
			if id != userID {
				return nil, ErrUserNotFound
			}
			return &Profile{ID: id, Email: "neko@example.com", Username: "neko_chan"}, nil
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+userID.String(), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("neko@example.com")) {
		t.Error("public profile must not expose the email")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+uuid.NewString(), nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// tokenError is what the client returns when the token endpoint answers with status.
func tokenError(status int) error {
	return fmt.Errorf("twitter token: %w: %w", twitter.ErrToken, &oauth2.RetrieveError{
		Response: &http.Response{StatusCode: status},
		Body:     []byte(`{"error":"invalid_request"}`),
	})
}

func TestConnectTwitterHandler(t *testing.T) {
	handle := "kamui_cat"
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"linked", nil, http.StatusOK},
		{"not configured", twitter.ErrNotConfigured, http.StatusServiceUnavailable},
		{"rejected", &twitter.APIError{StatusCode: 400, Body: "invalid_grant"}, http.StatusBadGateway},
		{"expired code", tokenError(http.StatusBadRequest), http.StatusBadRequest},
		{"token endpoint down", tokenError(http.StatusServiceUnavailable), http.StatusBadGateway},
		{"token endpoint unreachable", fmt.Errorf("%w: dial tcp: connection refused", twitter.ErrToken), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, &mockService{
				connectTwitterFunc: func(ctx context.Context, id uuid.UUID, req ConnectTwitterRequest) (*Profile, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &Profile{ID: id, TwitterHandle: &handle}, nil
				},
			})

			body := `{"code":"abc","redirectUri":"http://localhost:5173/settings"}`
			req := httptest.NewRequest(http.MethodPost, "/users/me/twitter", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-User-ID", uuid.NewString())
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}
