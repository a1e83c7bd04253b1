// Package auth implements email and password authentication for the auth service.
// Sessions live in Redis; see internal/session.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"kamuisnap/internal/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// usernameAttempts bounds retries when a generated placeholder username collides.
const usernameAttempts = 3

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound is returned when user is not found
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when email is already registered
	ErrEmailExists = errors.New("email already registered")
	// ErrPasswordTooLong is returned for passwords over MaxPasswordBytes bytes
	ErrPasswordTooLong = fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
)

// Service defines the authentication service interface
type Service interface {
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*User, error)
}

// service implements the Service interface
type service struct {
	db   database.Service
	cost int
}

// NewService creates a new authentication service
func NewService(db database.Service) Service {
	return &service{db: db, cost: bcrypt.DefaultCost}
}

const userColumns = `id, email, username, display_name, avatar_url, created_at, updated_at`

func scanUser(row *sql.Row, extra ...any) (*User, error) {
	var user User
	var avatar sql.NullString
	dest := append([]any{&user.ID, &user.Email, &user.Username, &user.DisplayName, &avatar, &user.CreatedAt, &user.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if avatar.Valid {
		user.AvatarURL = &avatar.String
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// placeholderUsername derives user_<8 hex> from the new user's id.
func placeholderUsername(id uuid.UUID) string {
	return "user_" + strings.ReplaceAll(id.String(), "-", "")[:8]
}

// displayNameFor uses the local part of the email until the user picks a name.
func displayNameFor(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// SignUp creates an account with a generated username the user can change later.
func (s *service) SignUp(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)
	if len(password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO users (id, email, password_hash, username, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + userColumns

	for attempt := 0; ; attempt++ {
		id := uuid.New()
		user, err := scanUser(s.db.QueryRow(ctx, query,
			id, email, string(hash), placeholderUsername(id), displayNameFor(email), time.Now()))
		if err == nil {
			log.Printf("Created new user: %s (ID: %s, Username: %s)", user.Email, user.ID, user.Username)
			return user, nil
		}

		switch {
		case database.IsUniqueViolation(err, "users_email_key"):
			return nil, ErrEmailExists
		case database.IsUniqueViolation(err, "users_username_key") && attempt+1 < usernameAttempts:
			continue
		default:
			return nil, database.Wrap("create user", err)
		}
	}
}

// SignIn checks the password. Unknown emails and wrong passwords are indistinguishable.
func (s *service) SignIn(ctx context.Context, email, password string) (*User, error) {
	var hash string
	user, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+`, password_hash FROM users WHERE email = $1`, normalizeEmail(email)), &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, database.Wrap("get user by email", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetCurrentUser retrieves a user by their ID
func (s *service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	user, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, database.Wrap("get user", err)
	}
	return user, nil
}
