package users

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a user as shown to clients. Twitter tokens never leave the store.
type Profile struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email,omitempty"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"displayName"`
	AvatarURL     *string   `json:"avatarUrl"`
	TwitterHandle *string   `json:"twitterHandle"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Public drops the fields only the owner may see.
func (p Profile) Public() Profile {
	p.Email = ""
	return p
}

// UpdateProfileRequest is a partial update; nil fields are left untouched.
// An empty avatarUrl clears the avatar.
type UpdateProfileRequest struct {
	Username    *string `json:"username,omitempty" binding:"omitempty,username"`
	DisplayName *string `json:"displayName,omitempty" binding:"omitempty,max=50"`
	AvatarURL   *string `json:"avatarUrl,omitempty" binding:"omitempty,url"`
}

type AvailabilityResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

// ConnectTwitterRequest carries the authorization code from the OAuth redirect.
type ConnectTwitterRequest struct {
	Code         string `json:"code" binding:"required"`
	RedirectURI  string `json:"redirectUri" binding:"required,url"`
	CodeVerifier string `json:"codeVerifier"`
}

// TwitterLink is the stored Twitter grant of a user.
type TwitterLink struct {
	Handle       string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the access token should be refreshed first.
func (l TwitterLink) Expired(now time.Time) bool {
	return !l.ExpiresAt.IsZero() && !now.Before(l.ExpiresAt.Add(-time.Minute))
}
