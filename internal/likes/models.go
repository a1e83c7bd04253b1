package likes

import (
	"time"

	"github.com/google/uuid"
)

type Like struct {
	ID        uuid.UUID `json:"id"`
	PostID    int64     `json:"postId"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Result reports the ledger state after a like or unlike.
type Result struct {
	PostID int64 `json:"postId"`
	Liked  bool  `json:"liked"`
	Likes  int64 `json:"likes"`
	// Changed is false when the call was a no-op (already liked / not liked).
	Changed bool `json:"changed"`
}

type CountResponse struct {
	PostID int64 `json:"postId"`
	Count  int64 `json:"count"`
}

type LikedResponse struct {
	PostID int64 `json:"postId"`
	Liked  bool  `json:"liked"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
