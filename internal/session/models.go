package session

import "time"

// DefaultMaxAge is used when SESSION_MAX_AGE is unset: one week.
const DefaultMaxAge = 7 * 24 * time.Hour

// CookieName is the cookie carrying the session id between browser and gateway.
const CookieName = "session_id"

// Session is the JSON document stored under session:<id>.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
