package auth

import (
	"time"

	"github.com/google/uuid"
)

// User represents a signed-in user
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	AvatarURL   *string   `json:"avatarUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SignUpRequest is the request payload for creating an account.
// Passwords are limited to MaxPasswordBytes bytes of UTF-8, which the service checks.
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// SignInRequest is the request payload for password sign in
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the response after successful authentication
type AuthResponse struct {
	User      *User  `json:"user"`
	SessionID string `json:"session_id"`
}
