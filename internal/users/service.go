// Package users owns profiles: the username registry, profile edits and the
// Twitter link used for sharing.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"kamuisnap/internal/database"
	"kamuisnap/internal/sanitize"
	"kamuisnap/internal/twitter"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const MaxDisplayNameLength = 50

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrInvalidProfile   = errors.New("invalid profile")
	ErrTwitterNotLinked = errors.New("twitter account not linked")
)

// TwitterAuth is the part of the Twitter client profile linking needs.
type TwitterAuth interface {
	Exchange(ctx context.Context, code, redirectURI, verifier string) (*oauth2.Token, error)
	Me(ctx context.Context, accessToken string) (*twitter.User, error)
}

type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	CheckUsernameAvailability(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*Profile, error)
	ConnectTwitter(ctx context.Context, userID uuid.UUID, req ConnectTwitterRequest) (*Profile, error)
	TwitterLink(ctx context.Context, userID uuid.UUID) (*TwitterLink, error)
	SaveTwitterToken(ctx context.Context, userID uuid.UUID, token *oauth2.Token) error
}

// PostCache drops cached posts, which carry a copy of their author's profile.
type PostCache interface {
	InvalidateAuthors(ctx context.Context)
}

type service struct {
	db      database.Service
	twitter TwitterAuth
	posts   PostCache
}

// NewService creates the profile service. tw may be nil when Twitter is not
// configured and posts may be nil when nothing caches posts.
func NewService(db database.Service, tw TwitterAuth, posts PostCache) Service {
	return &service{db: db, twitter: tw, posts: posts}
}

const profileColumns = `id, email, username, display_name, avatar_url, twitter_handle, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*Profile, error) {
	var p Profile
	var avatar, handle sql.NullString
	if err := row.Scan(&p.ID, &p.Email, &p.Username, &p.DisplayName, &avatar, &handle, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if avatar.Valid {
		p.AvatarURL = &avatar.String
	}
	if handle.Valid {
		p.TwitterHandle = &handle.String
	}
	return &p, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := scanProfile(s.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM users WHERE id = $1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, database.Wrap("get profile", err)
	}
	return p, nil
}

// CheckUsernameAvailability reports whether no user holds username yet.
// The answer is advisory: UpdateProfile still relies on the unique constraint.
func (s *service) CheckUsernameAvailability(ctx context.Context, username string) (bool, error) {
	if err := ValidateUsername(username); err != nil {
		return false, err
	}

	var taken bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&taken)
	if err != nil {
		return false, database.Wrap("check username", err)
	}
	return !taken, nil
}

// UpdateProfile applies the non-nil fields of req.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*Profile, error) {
	fields := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		fields = append(fields, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if err := ValidateUsername(username); err != nil {
			return nil, err
		}
		add("username", username)
	}

	if req.DisplayName != nil {
		name := sanitize.Text(*req.DisplayName)
		if name == "" || len([]rune(name)) > MaxDisplayNameLength {
			return nil, fmt.Errorf("%w: display name must be 1-%d characters", ErrInvalidProfile, MaxDisplayNameLength)
		}
		add("display_name", name)
	}

	if req.AvatarURL != nil {
		avatar := strings.TrimSpace(*req.AvatarURL)
		if avatar == "" {
			add("avatar_url", nil)
		} else {
			u, err := url.Parse(avatar)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return nil, fmt.Errorf("%w: avatar url must be http(s)", ErrInvalidProfile)
			}
			add("avatar_url", avatar)
		}
	}

	if len(fields) == 0 {
		return s.GetProfile(ctx, userID)
	}

	add("updated_at", time.Now())
	args = append(args, userID)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+profileColumns,
		strings.Join(fields, ", "), len(args))

	p, err := scanProfile(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		if database.IsUniqueViolation(err, "users_username_key") {
			return nil, ErrUsernameTaken
		}
		log.Printf("Error updating profile %s: %v", userID, err)
		return nil, database.Wrap("update profile", err)
	}

	if s.posts != nil {
		s.posts.InvalidateAuthors(ctx)
	}

	log.Printf("Updated profile: %s (username: %s)", p.ID, p.Username)
	return p, nil
}

// ConnectTwitter completes the OAuth flow and stores the grant on the user.
func (s *service) ConnectTwitter(ctx context.Context, userID uuid.UUID, req ConnectTwitterRequest) (*Profile, error) {
	if s.twitter == nil {
		return nil, twitter.ErrNotConfigured
	}

	token, err := s.twitter.Exchange(ctx, req.Code, req.RedirectURI, req.CodeVerifier)
	if err != nil {
		return nil, err
	}
	me, err := s.twitter.Me(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	const q = `
		UPDATE users
		SET twitter_handle = $1, twitter_access_token = $2, twitter_refresh_token = $3,
			twitter_expires_at = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + profileColumns

	p, err := scanProfile(s.db.QueryRow(ctx, q, me.Username, token.AccessToken, token.RefreshToken, nullTime(token.Expiry), userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, database.Wrap("link twitter", err)
	}

	log.Printf("Linked twitter account @%s to user %s", me.Username, userID)
	return p, nil
}

// TwitterLink returns the stored grant, or ErrTwitterNotLinked.
func (s *service) TwitterLink(ctx context.Context, userID uuid.UUID) (*TwitterLink, error) {
	var handle, access, refresh sql.NullString
	var expires sql.NullTime
	err := s.db.QueryRow(ctx,
		`SELECT twitter_handle, twitter_access_token, twitter_refresh_token, twitter_expires_at FROM users WHERE id = $1`,
		userID,
	).Scan(&handle, &access, &refresh, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, database.Wrap("get twitter link", err)
	}
	if !access.Valid || access.String == "" {
		return nil, ErrTwitterNotLinked
	}

	return &TwitterLink{
		Handle:       handle.String,
		AccessToken:  access.String,
		RefreshToken: refresh.String,
		ExpiresAt:    expires.Time,
	}, nil
}

// SaveTwitterToken stores a refreshed grant.
func (s *service) SaveTwitterToken(ctx context.Context, userID uuid.UUID, token *oauth2.Token) error {
	_, err := s.db.Exec(ctx, `
		UPDATE users
		SET twitter_access_token = $1, twitter_refresh_token = COALESCE(NULLIF($2, ''), twitter_refresh_token),
			twitter_expires_at = $3, updated_at = NOW()
		WHERE id = $4`,
		token.AccessToken, token.RefreshToken, nullTime(token.Expiry), userID)
	if err != nil {
		return database.Wrap("save twitter token", err)
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
