package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memoryStore struct {
	data   map[string]string
	getErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]string)}
}

func (m *memoryStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", ErrSessionNotFound
	}
	return v, nil
}

func (m *memoryStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memoryStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func TestManagerCreateAndGet(t *testing.T) {
	store := newMemoryStore()
	mgr := NewManager(store, time.Hour)
	ctx := context.Background()

	sess, err := mgr.Create(ctx, "user-1", "neko@example.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, ok := store.data["session:"+sess.ID]; !ok {
		t.Fatalf("expected session stored under session:%s", sess.ID)
	}

	got, err := mgr.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.UserID != "user-1" || got.Email != "neko@example.com" {
		t.Errorf("unexpected session: %+v", got)
	}
}

func TestManagerDefaultMaxAge(t *testing.T) {
	mgr := NewManager(newMemoryStore(), 0)
	if mgr.MaxAge() != DefaultMaxAge {
		t.Errorf("expected %v, got %v", DefaultMaxAge, mgr.MaxAge())
	}
}

func TestManagerGetExpired(t *testing.T) {
	store := newMemoryStore()
	m := NewManager(store, time.Minute).(*manager)
	ctx := context.Background()

	sess, err := m.Create(ctx, "user-1", "a@b.c")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if _, err := m.Get(ctx, sess.ID); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, ok := store.data["session:"+sess.ID]; ok {
		t.Error("expired session should have been deleted")
	}
}

func TestManagerGetErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(*memoryStore)
		id      string
		wantErr error
	}{
		{name: "empty id", id: "", wantErr: ErrSessionNotFound},
		{name: "missing", id: "nope", wantErr: ErrSessionNotFound},
		{
			name:    "corrupt",
			id:      "bad",
			setup:   func(s *memoryStore) { s.data["session:bad"] = "{not json" },
			wantErr: ErrInvalidSession,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			if tt.setup != nil {
				tt.setup(store)
			}
			_, err := NewManager(store, time.Hour).Get(ctx, tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestManagerGetStoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.getErr = errors.New("connection refused")

	_, err := NewManager(store, time.Hour).Get(context.Background(), "abc")
	if err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected store failure to surface, got %v", err)
	}
}

func TestManagerDelete(t *testing.T) {
	store := newMemoryStore()
	mgr := NewManager(store, time.Hour)
	ctx := context.Background()

	sess, _ := mgr.Create(ctx, "u", "e@x.io")
	if err := mgr.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := mgr.Get(ctx, sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
}
