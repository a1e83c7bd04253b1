package share

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kamuisnap/internal/posts"
	"kamuisnap/internal/twitter"
	"kamuisnap/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

type mockPosts struct {
	getPostFunc func(ctx context.Context, postID int64) (*posts.Post, *posts.Recipe, error)
}

func (m *mockPosts) GetPost(ctx context.Context, postID int64) (*posts.Post, *posts.Recipe, error) {
	return m.getPostFunc(ctx, postID)
}

type mockLinks struct {
	link  *users.TwitterLink
	err   error
	saved *oauth2.Token
}

func (m *mockLinks) TwitterLink(ctx context.Context, userID uuid.UUID) (*users.TwitterLink, error) {
	return m.link, m.err
}

func (m *mockLinks) SaveTwitterToken(ctx context.Context, userID uuid.UUID, token *oauth2.Token) error {
	m.saved = token
	return nil
}

type mockTweeter struct {
	texts      []string
	tokens     []string
	refreshed  int
	tweetErr   error
	refreshErr error
}

func (m *mockTweeter) Tweet(ctx context.Context, accessToken, text string) (*twitter.Tweet, error) {
	if m.tweetErr != nil {
		return nil, m.tweetErr
	}
	m.texts = append(m.texts, text)
	m.tokens = append(m.tokens, accessToken)
	return &twitter.Tweet{ID: "123", Text: text}, nil
}

func (m *mockTweeter) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	m.refreshed++
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	return &oauth2.Token{AccessToken: "fresh", RefreshToken: "rt2", Expiry: time.Now().Add(time.Hour)}, nil
}

func postFound(ctx context.Context, postID int64) (*posts.Post, *posts.Recipe, error) {
	if postID != 42 {
		return nil, nil, posts.ErrPostNotFound
	}
	return &posts.Post{ID: 42, Caption: "Sleepy neko"}, nil, nil
}

func TestTweetText(t *testing.T) {
	got := TweetText("Sleepy neko", "https://kamuisnap.app", 42)
	want := "Sleepy neko\n\nhttps://kamuisnap.app/post/42"
	if got != want {
		t.Errorf("TweetText = %q, want %q", got, want)
	}
}

func TestShareToTwitter(t *testing.T) {
	links := &mockLinks{link: &users.TwitterLink{Handle: "kamui_cat", AccessToken: "at", ExpiresAt: time.Now().Add(time.Hour)}}
	tw := &mockTweeter{}
	svc := NewService(&mockPosts{getPostFunc: postFound}, links, tw, "https://kamuisnap.app/")

	tweet, err := svc.ShareToTwitter(context.Background(), uuid.New(), 42)
	if err != nil {
		t.Fatalf("ShareToTwitter failed: %v", err)
	}
	if tweet.ID != "123" {
		t.Errorf("unexpected tweet %+v", tweet)
	}
	if len(tw.texts) != 1 || tw.texts[0] != "Sleepy neko\n\nhttps://kamuisnap.app/post/42" {
		t.Errorf("unexpected tweet text %q", tw.texts)
	}
	if tw.refreshed != 0 {
		t.Error("valid token must not be refreshed")
	}
}

func TestShareRefreshesExpiredToken(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	links := &mockLinks{link: &users.TwitterLink{AccessToken: "stale", RefreshToken: "rt", ExpiresAt: now.Add(-time.Minute)}}
	tw := &mockTweeter{}
	svc := NewService(&mockPosts{getPostFunc: postFound}, links, tw, "https://kamuisnap.app")
	svc.now = func() time.Time { return now }

	if _, err := svc.ShareToTwitter(context.Background(), uuid.New(), 42); err != nil {
		t.Fatal(err)
	}
	if tw.refreshed != 1 || tw.tokens[0] != "fresh" {
		t.Errorf("expected a refresh before tweeting, got %d refreshes, token %q", tw.refreshed, tw.tokens)
	}
	if links.saved == nil || links.saved.AccessToken != "fresh" {
		t.Error("refreshed token should be stored")
	}
}

func TestShareErrors(t *testing.T) {
	tests := []struct {
		name    string
		postID  int64
		links   *mockLinks
		tweeter *mockTweeter
		want    error
	}{
		{"unknown post", 7, &mockLinks{}, &mockTweeter{}, posts.ErrPostNotFound},
		{"not linked", 42, &mockLinks{err: users.ErrTwitterNotLinked}, &mockTweeter{}, ErrTwitterNotLinked},
		{"api failure", 42, &mockLinks{link: &users.TwitterLink{AccessToken: "at"}}, &mockTweeter{tweetErr: &twitter.APIError{StatusCode: 403}}, twitter.ErrAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&mockPosts{getPostFunc: postFound}, tt.links, tt.tweeter, "https://kamuisnap.app")
			if _, err := svc.ShareToTwitter(context.Background(), uuid.New(), tt.postID); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestShareHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		target     string
		userID     string
		links      *mockLinks
		wantStatus int
	}{
		{"shared", "/posts/42/share/twitter", uuid.NewString(), &mockLinks{link: &users.TwitterLink{AccessToken: "at"}}, http.StatusCreated},
		{"not linked", "/posts/42/share/twitter", uuid.NewString(), &mockLinks{err: users.ErrTwitterNotLinked}, http.StatusConflict},
		{"unknown post", "/posts/9/share/twitter", uuid.NewString(), &mockLinks{}, http.StatusNotFound},
		{"anonymous", "/posts/42/share/twitter", "", &mockLinks{}, http.StatusUnauthorized},
		{"bad id", "/posts/x/share/twitter", uuid.NewString(), &mockLinks{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			NewHandler(NewService(&mockPosts{getPostFunc: postFound}, tt.links, &mockTweeter{}, "https://kamuisnap.app")).RegisterRoutes(r)

			req := httptest.NewRequest(http.MethodPost, tt.target, nil)
			if tt.userID != "" {
				req.Header.Set("X-User-ID", tt.userID)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestShareHandlerRefreshFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	expired := &users.TwitterLink{AccessToken: "stale", RefreshToken: "rt", ExpiresAt: time.Now().Add(-time.Hour)}

	tests := []struct {
		name       string
		refreshErr error
		wantStatus int
	}{
		{"revoked refresh token", refreshError(http.StatusBadRequest), http.StatusBadRequest},
		{"token endpoint down", refreshError(http.StatusInternalServerError), http.StatusBadGateway},
		{"token endpoint unreachable", fmt.Errorf("twitter refresh: %w: connection reset", twitter.ErrToken), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := &mockTweeter{refreshErr: tt.refreshErr}
			r := gin.New()
			NewHandler(NewService(&mockPosts{getPostFunc: postFound}, &mockLinks{link: expired}, tw, "https://kamuisnap.app")).RegisterRoutes(r)

			req := httptest.NewRequest(http.MethodPost, "/posts/42/share/twitter", nil)
			req.Header.Set("X-User-ID", uuid.NewString())
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tw.refreshed != 1 || len(tw.texts) != 0 {
				t.Errorf("expected one refresh and no tweet, got %d refreshes, %d tweets", tw.refreshed, len(tw.texts))
			}
		})
	}
}

func refreshError(status int) error {
	return fmt.Errorf("twitter refresh: %w: %w", twitter.ErrToken, &oauth2.RetrieveError{
		Response: &http.Response{StatusCode: status},
		Body:     []byte(`{"error":"invalid_request"}`),
	})
}
