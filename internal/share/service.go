// Package share publishes posts to the caller's linked Twitter account.
package share

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"kamuisnap/internal/posts"
	"kamuisnap/internal/twitter"
	"kamuisnap/internal/users"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// ErrTwitterNotLinked is returned when the caller never connected Twitter.
var ErrTwitterNotLinked = users.ErrTwitterNotLinked

// PostReader loads the post being shared. *posts.Service implements it.
type PostReader interface {
	GetPost(ctx context.Context, postID int64) (*posts.Post, *posts.Recipe, error)
}

// Links reads and refreshes stored grants. users.Service implements it.
type Links interface {
	TwitterLink(ctx context.Context, userID uuid.UUID) (*users.TwitterLink, error)
	SaveTwitterToken(ctx context.Context, userID uuid.UUID, token *oauth2.Token) error
}

// Tweeter posts tweets. *twitter.Client implements it.
type Tweeter interface {
	Tweet(ctx context.Context, accessToken, text string) (*twitter.Tweet, error)
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

type Service struct {
	posts   PostReader
	links   Links
	tweeter Tweeter
	appURL  string
	now     func() time.Time
}

// NewService creates the share service. appURL is the public origin used in post links.
func NewService(posts PostReader, links Links, tweeter Tweeter, appURL string) *Service {
	return &Service{
		posts:   posts,
		links:   links,
		tweeter: tweeter,
		appURL:  strings.TrimRight(appURL, "/"),
		now:     time.Now,
	}
}

// TweetText is the caption followed by a blank line and the post's permalink.
func TweetText(caption, appURL string, postID int64) string {
	return caption + "\n\n" + appURL + "/post/" + strconv.FormatInt(postID, 10)
}

// ShareToTwitter tweets postID as userID and returns the created tweet.
func (s *Service) ShareToTwitter(ctx context.Context, userID uuid.UUID, postID int64) (*twitter.Tweet, error) {
	if userID == uuid.Nil {
		return nil, posts.ErrNotAuthenticated
	}

	post, _, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	link, err := s.links.TwitterLink(ctx, userID)
	if err != nil {
		return nil, err
	}

	accessToken := link.AccessToken
	if link.Expired(s.now()) && link.RefreshToken != "" {
		token, err := s.tweeter.Refresh(ctx, link.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("refresh twitter token: %w", err)
		}
		if err := s.links.SaveTwitterToken(ctx, userID, token); err != nil {
			log.Printf("Failed to store refreshed twitter token for %s: %v", userID, err)
		}
		accessToken = token.AccessToken
	}

	tweet, err := s.tweeter.Tweet(ctx, accessToken, TweetText(post.Caption, s.appURL, post.ID))
	if err != nil {
		return nil, err
	}

	log.Printf("Shared post %d to twitter as @%s (tweet %s)", post.ID, link.Handle, tweet.ID)
	return tweet, nil
}
