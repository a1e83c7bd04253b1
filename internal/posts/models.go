package posts

import (
	"time"

	"github.com/google/uuid"
)

// Media types
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Categories
const (
	CategoryAnime     = "anime"
	CategoryAnimals   = "animals"
	CategoryLandscape = "landscape"
	CategoryRecipe    = "recipe"
)

// Pagination
const (
	DefaultLimit = 20
	MaxLimit     = 100

	MaxCaptionLength = 1000
)

var categories = map[string]bool{
	CategoryAnime:     true,
	CategoryAnimals:   true,
	CategoryLandscape: true,
	CategoryRecipe:    true,
}

// ValidCategory reports whether s is a known category.
func ValidCategory(s string) bool { return categories[s] }

// ValidMediaType reports whether s is image or video.
func ValidMediaType(s string) bool { return s == MediaTypeImage || s == MediaTypeVideo }

// Author is the public profile of a post's owner.
type Author struct {
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

// Post is a photo or video in the feed. Recipe posts are read as RecipePost.
type Post struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	MediaURL  string    `json:"mediaUrl"`
	MediaKey  string    `json:"-"`
	MediaType string    `json:"mediaType"`
	Category  string    `json:"category"`
	Caption   string    `json:"caption"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	Author    *Author   `json:"author,omitempty"`
}

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// Recipe belongs to exactly one post whose category is recipe.
type Recipe struct {
	ID          uuid.UUID    `json:"id"`
	PostID      int64        `json:"postId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	CookingTime int          `json:"cookingTime"`
	Servings    int          `json:"servings"`
	MealType    string       `json:"mealType"`
	StorageType string       `json:"storageType"`
	StorageDays int          `json:"storageDays"`
	Difficulty  string       `json:"difficulty"`
	Tags        []string     `json:"tags"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// RecipePost is a recipe-category post together with its recipe.
type RecipePost struct {
	Post
	Recipe Recipe `json:"recipe"`
}

// UpdatePostRequest represents the request body for updating a post
type UpdatePostRequest struct {
	Caption *string `json:"caption,omitempty" binding:"omitempty,max=1000"`
}

// ListResponse wraps a list of posts.
type ListResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Count   int  `json:"count"`
}

// PostResponse is a standard response wrapper
type PostResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
