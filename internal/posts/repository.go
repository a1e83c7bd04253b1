package posts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"kamuisnap/internal/database"

	"github.com/google/uuid"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrForbidden        = errors.New("not allowed to modify this post")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrValidation       = errors.New("validation failed")
	ErrInvalidPeriod    = errors.New("invalid ranking period")
	ErrTooManySteps     = fmt.Errorf("%w: a recipe may have at most %d steps", ErrValidation, MaxRecipeSteps)
)

// Store is the persistence contract the service depends on.
type Store interface {
	ListRecent(ctx context.Context, limit int) ([]Post, error)
	ListByCategory(ctx context.Context, category string, limit int) ([]Post, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Post, error)
	ListRecipePosts(ctx context.Context, limit int) ([]RecipePost, error)
	GetByID(ctx context.Context, postID int64) (*Post, error)
	GetRecipe(ctx context.Context, postID int64) (*Recipe, error)
	Create(ctx context.Context, post *Post) (*Post, error)
	CreateWithRecipe(ctx context.Context, post *Post, recipe *Recipe) (*RecipePost, error)
	UpdateCaption(ctx context.Context, postID int64, userID uuid.UUID, caption string) (*Post, error)
	Delete(ctx context.Context, postID int64, userID uuid.UUID) (string, error)
	Ranking(ctx context.Context, since time.Time, filter RankingFilter) ([]Post, error)
}

// Repository handles all database operations for posts
type Repository struct {
	db database.Service
}

// NewRepository creates a new posts repository
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

// postColumns selects a post with its author; queries alias posts as p and users as u.
const postColumns = `
	p.id, p.user_id, p.media_url, p.media_key, p.media_type, p.category, p.caption, p.likes, p.created_at,
	u.username, u.display_name, u.avatar_url`

const recipeColumns = `
	r.id, r.post_id, r.title, r.description, r.ingredients, r.steps, r.cooking_time, r.servings,
	r.meal_type, r.storage_type, r.storage_days, r.difficulty, r.tags, r.created_at, r.updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner, extra ...any) (Post, error) {
	var (
		post   Post
		author Author
		avatar sql.NullString
	)
	dest := []any{
		&post.ID, &post.UserID, &post.MediaURL, &post.MediaKey, &post.MediaType,
		&post.Category, &post.Caption, &post.Likes, &post.CreatedAt,
		&author.Username, &author.DisplayName, &avatar,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return Post{}, err
	}
	if avatar.Valid {
		author.AvatarURL = &avatar.String
	}
	post.Author = &author
	return post, nil
}

// recipeRow receives the JSONB columns before decoding.
type recipeRow struct {
	recipe      Recipe
	ingredients []byte
	steps       []byte
	tags        []byte
}

func (rr *recipeRow) dest() []any {
	r := &rr.recipe
	return []any{
		&r.ID, &r.PostID, &r.Title, &r.Description, &rr.ingredients, &rr.steps, &r.CookingTime, &r.Servings,
		&r.MealType, &r.StorageType, &r.StorageDays, &r.Difficulty, &rr.tags, &r.CreatedAt, &r.UpdatedAt,
	}
}

func (rr *recipeRow) decode() (Recipe, error) {
	r := rr.recipe
	if err := json.Unmarshal(rr.ingredients, &r.Ingredients); err != nil {
		return Recipe{}, fmt.Errorf("decode ingredients: %w", err)
	}
	if err := json.Unmarshal(rr.steps, &r.Steps); err != nil {
		return Recipe{}, fmt.Errorf("decode steps: %w", err)
	}
	if err := json.Unmarshal(rr.tags, &r.Tags); err != nil {
		return Recipe{}, fmt.Errorf("decode tags: %w", err)
	}
	return r, nil
}

// ListRecent returns the newest posts first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Post, error) {
	query := `SELECT` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1`
	return r.queryRows(ctx, "list recent posts", query, limit)
}

// ListByCategory returns the newest posts of one category.
func (r *Repository) ListByCategory(ctx context.Context, category string, limit int) ([]Post, error) {
	query := `SELECT` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.category = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2`
	return r.queryRows(ctx, "list posts by category", query, category, limit)
}

// ListByUser returns one user's newest posts.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Post, error) {
	query := `SELECT` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2`
	return r.queryRows(ctx, "list posts by user", query, userID, limit)
}

// ListRecipePosts returns recipe posts joined with their recipes.
func (r *Repository) ListRecipePosts(ctx context.Context, limit int) ([]RecipePost, error) {
	query := `SELECT` + postColumns + `,` + recipeColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		JOIN recipes r ON r.post_id = p.id
		WHERE p.category = 'recipe'
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		log.Printf("Error querying recipe posts: %v", err)
		return nil, database.Wrap("list recipe posts", err)
	}
	defer rows.Close()

	result := []RecipePost{}
	for rows.Next() {
		var rr recipeRow
		post, err := scanPost(rows, rr.dest()...)
		if err != nil {
			log.Printf("Error scanning recipe post row: %v", err)
			return nil, database.Wrap("scan recipe post", err)
		}
		recipe, err := rr.decode()
		if err != nil {
			return nil, database.Wrap("scan recipe post", err)
		}
		result = append(result, RecipePost{Post: post, Recipe: recipe})
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error iterating recipe posts: %v", err)
		return nil, database.Wrap("iterate recipe posts", err)
	}

	return result, nil
}

// GetByID retrieves a single post by ID
func (r *Repository) GetByID(ctx context.Context, postID int64) (*Post, error) {
	query := `SELECT` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1`

	post, err := scanPost(r.db.QueryRow(ctx, query, postID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		log.Printf("Error getting post by ID: %v", err)
		return nil, database.Wrap("get post", err)
	}
	return &post, nil
}

// GetRecipe returns the recipe attached to postID.
func (r *Repository) GetRecipe(ctx context.Context, postID int64) (*Recipe, error) {
	query := `SELECT` + recipeColumns + ` FROM recipes r WHERE r.post_id = $1`

	var rr recipeRow
	err := r.db.QueryRow(ctx, query, postID).Scan(rr.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		log.Printf("Error getting recipe for post %d: %v", postID, err)
		return nil, database.Wrap("get recipe", err)
	}

	recipe, err := rr.decode()
	if err != nil {
		return nil, database.Wrap("get recipe", err)
	}
	return &recipe, nil
}

const insertPost = `
	WITH p AS (
		INSERT INTO posts (user_id, media_url, media_key, media_type, category, caption)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	)
	SELECT` + postColumns + `
	FROM p
	JOIN users u ON u.id = p.user_id`

// Create inserts a post and returns it with its author.
func (r *Repository) Create(ctx context.Context, post *Post) (*Post, error) {
	created, err := scanPost(r.db.QueryRow(ctx, insertPost,
		post.UserID, post.MediaURL, post.MediaKey, post.MediaType, post.Category, post.Caption))
	if err != nil {
		log.Printf("Error creating post: %v", err)
		return nil, database.Wrap("create post", err)
	}
	return &created, nil
}

// CreateWithRecipe inserts the post and its recipe in one transaction.
func (r *Repository) CreateWithRecipe(ctx context.Context, post *Post, recipe *Recipe) (*RecipePost, error) {
	ingredients, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return nil, fmt.Errorf("encode ingredients: %w", err)
	}
	steps, err := json.Marshal(recipe.Steps)
	if err != nil {
		return nil, fmt.Errorf("encode steps: %w", err)
	}
	tags := recipe.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	var result RecipePost
	err = r.db.WithTx(ctx, func(tx *sql.Tx) error {
		created, err := scanPost(tx.QueryRowContext(ctx, insertPost,
			post.UserID, post.MediaURL, post.MediaKey, post.MediaType, CategoryRecipe, post.Caption))
		if err != nil {
			return database.Wrap("create recipe post", err)
		}

		query := `
			INSERT INTO recipes (id, post_id, title, description, ingredients, steps, cooking_time, servings,
				meal_type, storage_type, storage_days, difficulty, tags)
			VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7, $8, $9, $10, $11, $12, $13::jsonb)
			RETURNING` + recipeColumnsUnaliased

		var rr recipeRow
		err = tx.QueryRowContext(ctx, query,
			uuid.New(), created.ID, recipe.Title, recipe.Description, string(ingredients), string(steps),
			recipe.CookingTime, recipe.Servings, recipe.MealType, recipe.StorageType, recipe.StorageDays,
			recipe.Difficulty, string(tagsJSON),
		).Scan(rr.dest()...)
		if err != nil {
			return database.Wrap("create recipe", err)
		}

		stored, err := rr.decode()
		if err != nil {
			return database.Wrap("create recipe", err)
		}

		result = RecipePost{Post: created, Recipe: stored}
		return nil
	})
	if err != nil {
		log.Printf("Error creating recipe post: %v", err)
		return nil, err
	}

	return &result, nil
}

const recipeColumnsUnaliased = `
	id, post_id, title, description, ingredients, steps, cooking_time, servings,
	meal_type, storage_type, storage_days, difficulty, tags, created_at, updated_at`

// UpdateCaption changes the caption of a post owned by userID.
func (r *Repository) UpdateCaption(ctx context.Context, postID int64, userID uuid.UUID, caption string) (*Post, error) {
	if err := r.checkOwner(ctx, postID, userID); err != nil {
		return nil, err
	}

	query := `
		WITH p AS (
			UPDATE posts SET caption = $1
			WHERE id = $2 AND user_id = $3
			RETURNING *
		)
		SELECT` + postColumns + `
		FROM p
		JOIN users u ON u.id = p.user_id`

	post, err := scanPost(r.db.QueryRow(ctx, query, caption, postID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		log.Printf("Error updating post: %v", err)
		return nil, database.Wrap("update post", err)
	}
	return &post, nil
}

// Delete removes a post owned by userID and returns its media key.
// Likes and the recipe go with it through ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, postID int64, userID uuid.UUID) (string, error) {
	if err := r.checkOwner(ctx, postID, userID); err != nil {
		return "", err
	}

	var mediaKey string
	err := r.db.QueryRow(ctx,
		`DELETE FROM posts WHERE id = $1 AND user_id = $2 RETURNING media_key`,
		postID, userID,
	).Scan(&mediaKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrPostNotFound
	}
	if err != nil {
		log.Printf("Error deleting post: %v", err)
		return "", database.Wrap("delete post", err)
	}
	return mediaKey, nil
}

func (r *Repository) checkOwner(ctx context.Context, postID int64, userID uuid.UUID) error {
	var owner uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT user_id FROM posts WHERE id = $1`, postID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPostNotFound
	}
	if err != nil {
		log.Printf("Error checking post owner: %v", err)
		return database.Wrap("check post owner", err)
	}
	if owner != userID {
		return ErrForbidden
	}
	return nil
}

// Ranking returns posts created at or after since, most liked first.
// Ties go to the newer post, then the higher id.
func (r *Repository) Ranking(ctx context.Context, since time.Time, filter RankingFilter) ([]Post, error) {
	query := `SELECT` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.created_at >= $1
		  AND ($2::text = '' OR p.media_type = $2::text)
		  AND ($3::text = '' OR p.category = $3::text)
		ORDER BY p.likes DESC, p.created_at DESC, p.id DESC`
	return r.queryRows(ctx, "rank posts", query, since, filter.MediaType, filter.Category)
}

// Helper method to scan multiple rows
func (r *Repository) queryRows(ctx context.Context, op, query string, args ...any) ([]Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error querying posts (%s): %v", op, err)
		return nil, database.Wrap(op, err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			log.Printf("Error scanning post row: %v", err)
			return nil, database.Wrap(op, err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		log.Printf("Error iterating posts: %v", err)
		return nil, database.Wrap(op, err)
	}

	return posts, nil
}
