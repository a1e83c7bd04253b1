//go:build integration

package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"kamuisnap/internal/database/dbtest"

	"golang.org/x/crypto/bcrypt"
)

func TestSignUpAndSignIn(t *testing.T) {
	db := dbtest.Start(t)
	svc := &service{db: db, cost: bcrypt.MinCost}
	ctx := context.Background()

	user, err := svc.SignUp(ctx, " Neko@Example.com ", "correct-horse")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if user.Email != "neko@example.com" || user.DisplayName != "neko" || !strings.HasPrefix(user.Username, "user_") {
		t.Errorf("unexpected user %+v", user)
	}

	if _, err := svc.SignUp(ctx, "neko@example.com", "another-pass"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}

	signedIn, err := svc.SignIn(ctx, "NEKO@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if signedIn.ID != user.ID {
		t.Errorf("signed in as %s, want %s", signedIn.ID, user.ID)
	}

	if _, err := svc.SignIn(ctx, "neko@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.SignIn(ctx, "ghost@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	me, err := svc.GetCurrentUser(ctx, user.ID)
	if err != nil || me.Username != user.Username {
		t.Errorf("GetCurrentUser = %+v, %v", me, err)
	}
}
