// Package session provides session management functionality for all services.
// Sessions are stored in Redis with TTL-based expiration.
// This is a shared infrastructure package used by gateway and auth services.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned when a session is not found
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a session has expired
	ErrSessionExpired = errors.New("session expired")
	// ErrInvalidSession is returned when session data is invalid
	ErrInvalidSession = errors.New("invalid session")
)

// Manager defines the interface for session management operations
type Manager interface {
	Create(ctx context.Context, userID, email string) (*Session, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	MaxAge() time.Duration
}

type manager struct {
	store  Store
	maxAge time.Duration
	now    func() time.Time
}

// NewManager creates a session manager. A non-positive maxAge means DefaultMaxAge.
func NewManager(store Store, maxAge time.Duration) Manager {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &manager{
		store:  store,
		maxAge: maxAge,
		now:    time.Now,
	}
}

func key(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func (m *manager) MaxAge() time.Duration { return m.maxAge }

// Create stores a new session and returns it.
func (m *manager) Create(ctx context.Context, userID, email string) (*Session, error) {
	now := m.now()
	sess := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(m.maxAge),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := m.store.Set(ctx, key(sess.ID), string(data), m.maxAge); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return sess, nil
}

// Get retrieves a session by ID. Expired entries are removed.
func (m *manager) Get(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}

	data, err := m.store.Get(ctx, key(sessionID))
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, ErrInvalidSession
	}

	if sess.Expired(m.now()) {
		if err := m.store.Delete(ctx, key(sessionID)); err != nil {
			log.Printf("Failed to delete expired session %s: %v", sessionID, err)
		}
		return nil, ErrSessionExpired
	}

	return &sess, nil
}

// Delete removes a session
func (m *manager) Delete(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, key(sessionID))
}
