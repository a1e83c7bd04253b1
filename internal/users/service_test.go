package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type countingPostCache struct {
	calls int
}

func (c *countingPostCache) InvalidateAuthors(ctx context.Context) {
	c.calls++
}

func TestUpdateProfileRejectsBeforeWriting(t *testing.T) {
	posts := &countingPostCache{}
	// Validation fails before any query, so no database is needed.
	svc := NewService(nil, nil, posts)

	blank := "<b></b>"
	long := strings.Repeat("猫", MaxDisplayNameLength+1)
	encoded := "&lt;script&gt;&lt;/script&gt;"
	badAvatar := "javascript:alert(1)"
	badName := "ab"

	tests := []struct {
		name string
		req  UpdateProfileRequest
		want error
	}{
		{"markup only name", UpdateProfileRequest{DisplayName: &blank}, ErrInvalidProfile},
		{"encoded markup only name", UpdateProfileRequest{DisplayName: &encoded}, ErrInvalidProfile},
		{"long name", UpdateProfileRequest{DisplayName: &long}, ErrInvalidProfile},
		{"avatar scheme", UpdateProfileRequest{AvatarURL: &badAvatar}, ErrInvalidProfile},
		{"short username", UpdateProfileRequest{Username: &badName}, ErrInvalidUsername},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.UpdateProfile(context.Background(), uuid.New(), tt.req); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if posts.calls != 0 {
		t.Errorf("rejected updates must not touch the post cache, got %d calls", posts.calls)
	}
}
