package posts

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"time"
	"unicode/utf8"

	"kamuisnap/internal/cache"
	"kamuisnap/internal/files"
	"kamuisnap/internal/metrics"

	"github.com/google/uuid"
)

const (
	postTTL    = 5 * time.Minute
	listTTL    = 2 * time.Minute
	rankingTTL = 1 * time.Minute
)

// MediaStore uploads and removes post attachments. *files.Service implements it.
type MediaStore interface {
	UploadMedia(ctx context.Context, fh *multipart.FileHeader, declaredType string) (*files.Media, error)
	DeleteFile(ctx context.Context, key string) error
}

// CreatePostInput is a non-recipe post submission.
type CreatePostInput struct {
	Media     *multipart.FileHeader
	MediaType string
	Category  string
	Caption   string
}

// CreateRecipePostInput is a recipe post submission.
type CreateRecipePostInput struct {
	Media   *multipart.FileHeader
	Caption string
	Recipe  RecipeInput
}

// Service handles business logic for posts with caching
type Service struct {
	repo  Store
	media MediaStore
	cache *cache.Cache
}

// NewService creates a posts service. c may be nil to run uncached.
func NewService(repo Store, media MediaStore, c *cache.Cache) *Service {
	return &Service{
		repo:  repo,
		media: media,
		cache: c,
	}
}

// NormalizeLimit maps out-of-range limits to DefaultLimit.
func NormalizeLimit(limit int) int {
	if limit < 1 || limit > MaxLimit {
		return DefaultLimit
	}
	return limit
}

// ListRecent returns the newest posts with their authors.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]Post, error) {
	limit = NormalizeLimit(limit)
	return cached(ctx, s.cache, cache.RecentKey(limit), listTTL, func() ([]Post, error) {
		return s.repo.ListRecent(ctx, limit)
	})
}

// ListByCategory returns the newest posts of one category.
func (s *Service) ListByCategory(ctx context.Context, category string, limit int) ([]Post, error) {
	if !ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	limit = NormalizeLimit(limit)
	return cached(ctx, s.cache, cache.CategoryKey(category, limit), listTTL, func() ([]Post, error) {
		return s.repo.ListByCategory(ctx, category, limit)
	})
}

// ListByUser returns one user's newest posts.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Post, error) {
	limit = NormalizeLimit(limit)
	return cached(ctx, s.cache, cache.UserPostsKey(userID.String(), limit), listTTL, func() ([]Post, error) {
		return s.repo.ListByUser(ctx, userID, limit)
	})
}

// ListRecipePosts returns recipe posts with their recipes.
func (s *Service) ListRecipePosts(ctx context.Context, limit int) ([]RecipePost, error) {
	limit = NormalizeLimit(limit)
	return cached(ctx, s.cache, cache.RecipesKey(limit), listTTL, func() ([]RecipePost, error) {
		return s.repo.ListRecipePosts(ctx, limit)
	})
}

// GetPost returns a post, plus its recipe when the post is a recipe.
func (s *Service) GetPost(ctx context.Context, postID int64) (*Post, *Recipe, error) {
	var rp RecipePost
	if s.cache.GetJSON(ctx, cache.PostKey(postID), &rp) {
		if rp.Category == CategoryRecipe {
			return &rp.Post, &rp.Recipe, nil
		}
		return &rp.Post, nil, nil
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	rp.Post = *post

	var recipe *Recipe
	if post.Category == CategoryRecipe {
		recipe, err = s.repo.GetRecipe(ctx, postID)
		if err != nil {
			return nil, nil, err
		}
		rp.Recipe = *recipe
	}

	s.cache.SetJSON(ctx, cache.PostKey(postID), rp, postTTL)
	return post, recipe, nil
}

// Create uploads the media and stores a non-recipe post.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreatePostInput) (*Post, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	if !ValidCategory(in.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, in.Category)
	}
	if in.Category == CategoryRecipe {
		return nil, fmt.Errorf("%w: recipe posts must include a recipe", ErrValidation)
	}
	if in.MediaType != "" && !ValidMediaType(in.MediaType) {
		return nil, fmt.Errorf("%w: unknown media type %q", ErrValidation, in.MediaType)
	}
	caption, err := validateCaption(in.Caption)
	if err != nil {
		return nil, err
	}
	if in.Media == nil {
		return nil, fmt.Errorf("%w: media file is required", ErrValidation)
	}

	media, err := s.media.UploadMedia(ctx, in.Media, in.MediaType)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.Create(ctx, &Post{
		UserID:    userID,
		MediaURL:  media.URL,
		MediaKey:  media.Key,
		MediaType: media.MediaType,
		Category:  in.Category,
		Caption:   caption,
	})
	if err != nil {
		s.discardMedia(media.Key)
		return nil, err
	}

	metrics.PostsCreatedTotal.WithLabelValues(post.Category).Inc()
	s.cache.InvalidateFeeds(ctx)
	return post, nil
}

// CreateWithRecipe validates the recipe before touching storage, then writes
// the post and recipe atomically.
func (s *Service) CreateWithRecipe(ctx context.Context, userID uuid.UUID, in CreateRecipePostInput) (*RecipePost, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	if err := in.Recipe.Validate(); err != nil {
		return nil, err
	}
	caption, err := validateCaption(in.Caption)
	if err != nil {
		return nil, err
	}
	if in.Media == nil {
		return nil, fmt.Errorf("%w: media file is required", ErrValidation)
	}

	media, err := s.media.UploadMedia(ctx, in.Media, "")
	if err != nil {
		return nil, err
	}

	recipe := in.Recipe.ToRecipe(0)
	created, err := s.repo.CreateWithRecipe(ctx, &Post{
		UserID:    userID,
		MediaURL:  media.URL,
		MediaKey:  media.Key,
		MediaType: media.MediaType,
		Category:  CategoryRecipe,
		Caption:   caption,
	}, &recipe)
	if err != nil {
		s.discardMedia(media.Key)
		return nil, err
	}

	metrics.PostsCreatedTotal.WithLabelValues(CategoryRecipe).Inc()
	s.cache.InvalidateFeeds(ctx)
	return created, nil
}

// UpdateCaption edits the caption of the caller's post.
func (s *Service) UpdateCaption(ctx context.Context, userID uuid.UUID, postID int64, caption string) (*Post, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	caption, err := validateCaption(caption)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.UpdateCaption(ctx, postID, userID, caption)
	if err != nil {
		return nil, err
	}

	s.cache.InvalidatePost(ctx, postID)
	return post, nil
}

// Delete removes the caller's post and then its media object.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, postID int64) error {
	if userID == uuid.Nil {
		return ErrNotAuthenticated
	}

	mediaKey, err := s.repo.Delete(ctx, postID, userID)
	if err != nil {
		return err
	}

	s.cache.InvalidatePost(ctx, postID)
	s.discardMedia(mediaKey)
	return nil
}

// Ranking returns posts from the period ending at now, most liked first.
func (s *Service) Ranking(ctx context.Context, period Period, filter RankingFilter, now time.Time) ([]Post, error) {
	if _, err := ParsePeriod(string(period)); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	// Windows start on a whole minute so a cached ranking covers exactly its key's window.
	since := period.Since(now).Truncate(time.Minute)
	key := cache.RankingKey(string(period), filter.MediaType, filter.Category, since)
	return cached(ctx, s.cache, key, rankingTTL, func() ([]Post, error) {
		return s.repo.Ranking(ctx, since, filter)
	})
}

// discardMedia deletes an object that no longer has a post. Failures leave an
// orphaned object behind and are only logged.
func (s *Service) discardMedia(key string) {
	if key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.media.DeleteFile(ctx, key); err != nil {
		log.Printf("Warning: failed to delete media %s: %v", key, err)
	}
}

func validateCaption(caption string) (string, error) {
	caption = cleanText(caption)
	if utf8.RuneCountInString(caption) > MaxCaptionLength {
		return "", fmt.Errorf("%w: caption exceeds %d characters", ErrValidation, MaxCaptionLength)
	}
	return caption, nil
}

// cached is a read-through helper over the optional cache.
func cached[T any](ctx context.Context, c *cache.Cache, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var v T
	if c.GetJSON(ctx, key, &v) {
		return v, nil
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	c.SetJSON(ctx, key, v, ttl)
	return v, nil
}
