// Package twitter talks to the X (Twitter) API v2 on behalf of linked users:
// the OAuth2 code exchange, the profile lookup and posting tweets.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"kamuisnap/internal/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
)

const (
	DefaultAPIBase = "https://api.twitter.com"

	// DefaultVerifier matches the web client, which starts the flow with the
	// plain PKCE method and the fixed challenge "challenge".
	DefaultVerifier = "challenge"

	requestTimeout = 10 * time.Second
)

var (
	ErrNotConfigured = errors.New("twitter client is not configured")
	ErrAPI           = errors.New("twitter api error")
	// ErrToken marks a failed authorization code exchange or token refresh.
	ErrToken = errors.New("twitter token request failed")
)

// GrantRejected reports whether the token endpoint answered with a 4xx, such
// as an expired code or a revoked refresh token. The user has to link again.
func GrantRejected(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) || retrieveErr.Response == nil {
		return false
	}
	return retrieveErr.Response.StatusCode >= 400 && retrieveErr.Response.StatusCode < 500
}

// APIError carries the status and body of a non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twitter api returned %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Is(target error) bool { return target == ErrAPI }

// Config holds the app credentials registered with the developer portal.
type Config struct {
	ClientID     string
	ClientSecret string
	APIBase      string
}

// LoadConfig reads TWITTER_CLIENT_ID, TWITTER_CLIENT_SECRET and TWITTER_API_BASE.
func LoadConfig() Config {
	base := os.Getenv("TWITTER_API_BASE")
	if base == "" {
		base = DefaultAPIBase
	}
	return Config{
		ClientID:     os.Getenv("TWITTER_CLIENT_ID"),
		ClientSecret: os.Getenv("TWITTER_CLIENT_SECRET"),
		APIBase:      base,
	}
}

// User is the subset of /2/users/me we keep.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Tweet is a created tweet.
type Tweet struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Client wraps every outbound call in a circuit breaker.
type Client struct {
	oauth      oauth2.Config
	apiBase    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[any]
}

// NewClient builds a client for cfg. A client without credentials still
// constructs; its calls fail with ErrNotConfigured.
func NewClient(cfg Config) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}

	return &Client{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   "https://twitter.com/i/oauth2/authorize",
				TokenURL:  cfg.APIBase + "/2/oauth2/token",
				AuthStyle: oauth2.AuthStyleInHeader,
			},
			Scopes: []string{"tweet.read", "tweet.write", "users.read", "offline.access"},
		},
		apiBase:    cfg.APIBase,
		httpClient: &http.Client{Timeout: requestTimeout},
		cb:         newBreaker("twitter-api"),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[any] {
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Client errors are the caller's fault and must not open the circuit.
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < 500
			}
			var retrieveErr *oauth2.RetrieveError
			if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
				return retrieveErr.Response.StatusCode < 500
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// Configured reports whether app credentials are present.
func (c *Client) Configured() bool {
	return c.oauth.ClientID != "" && c.oauth.ClientSecret != ""
}

// call runs fn through the breaker and records the outcome.
func call[T any](c *Client, endpoint string, fn func() (*T, error)) (*T, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	result, err := c.cb.Execute(func() (any, error) {
		return fn()
	})
	metrics.TwitterRequestsTotal.WithLabelValues(endpoint, metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("twitter %s: %w", endpoint, err)
	}

	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("twitter %s: unexpected result type %T", endpoint, result)
	}
	return typed, nil
}

func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// Exchange trades an authorization code for tokens.
func (c *Client) Exchange(ctx context.Context, code, redirectURI, verifier string) (*oauth2.Token, error) {
	if verifier == "" {
		verifier = DefaultVerifier
	}
	cfg := c.oauth
	cfg.RedirectURL = redirectURI

	return call(c, "token", func() (*oauth2.Token, error) {
		tok, err := cfg.Exchange(c.oauthContext(ctx), code, oauth2.VerifierOption(verifier))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrToken, err)
		}
		return tok, nil
	})
}

// Refresh obtains a fresh access token from a refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	return call(c, "refresh", func() (*oauth2.Token, error) {
		expired := &oauth2.Token{RefreshToken: refreshToken, Expiry: time.Unix(1, 0)}
		tok, err := c.oauth.TokenSource(c.oauthContext(ctx), expired).Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrToken, err)
		}
		return tok, nil
	})
}

// Me returns the account that owns accessToken.
func (c *Client) Me(ctx context.Context, accessToken string) (*User, error) {
	return call(c, "users_me", func() (*User, error) {
		var out struct {
			Data User `json:"data"`
		}
		if err := c.do(ctx, http.MethodGet, "/2/users/me", accessToken, nil, &out); err != nil {
			return nil, err
		}
		return &out.Data, nil
	})
}

// Tweet posts text as the owner of accessToken.
func (c *Client) Tweet(ctx context.Context, accessToken, text string) (*Tweet, error) {
	return call(c, "tweets", func() (*Tweet, error) {
		var out struct {
			Data Tweet `json:"data"`
		}
		if err := c.do(ctx, http.MethodPost, "/2/tweets", accessToken, map[string]string{"text": text}, &out); err != nil {
			return nil, err
		}
		return &out.Data, nil
	})
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
