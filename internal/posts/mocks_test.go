package posts

import (
	"context"
	"mime/multipart"
	"time"

	"kamuisnap/internal/files"

	"github.com/google/uuid"
)

type mockStore struct {
	listRecentFunc       func(ctx context.Context, limit int) ([]Post, error)
	listByCategoryFunc   func(ctx context.Context, category string, limit int) ([]Post, error)
	listByUserFunc       func(ctx context.Context, userID uuid.UUID, limit int) ([]Post, error)
	listRecipePostsFunc  func(ctx context.Context, limit int) ([]RecipePost, error)
	getByIDFunc          func(ctx context.Context, postID int64) (*Post, error)
	getRecipeFunc        func(ctx context.Context, postID int64) (*Recipe, error)
	createFunc           func(ctx context.Context, post *Post) (*Post, error)
	createWithRecipeFunc func(ctx context.Context, post *Post, recipe *Recipe) (*RecipePost, error)
	updateCaptionFunc    func(ctx context.Context, postID int64, userID uuid.UUID, caption string) (*Post, error)
	deleteFunc           func(ctx context.Context, postID int64, userID uuid.UUID) (string, error)
	rankingFunc          func(ctx context.Context, since time.Time, filter RankingFilter) ([]Post, error)
}

func (m *mockStore) ListRecent(ctx context.Context, limit int) ([]Post, error) {
	if m.listRecentFunc != nil {
		return m.listRecentFunc(ctx, limit)
	}
	return []Post{}, nil
}

func (m *mockStore) ListByCategory(ctx context.Context, category string, limit int) ([]Post, error) {
	if m.listByCategoryFunc != nil {
		return m.listByCategoryFunc(ctx, category, limit)
	}
	return []Post{}, nil
}

func (m *mockStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Post, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID, limit)
	}
	return []Post{}, nil
}

func (m *mockStore) ListRecipePosts(ctx context.Context, limit int) ([]RecipePost, error) {
	if m.listRecipePostsFunc != nil {
		return m.listRecipePostsFunc(ctx, limit)
	}
	return []RecipePost{}, nil
}

func (m *mockStore) GetByID(ctx context.Context, postID int64) (*Post, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, postID)
	}
	return nil, ErrPostNotFound
}

func (m *mockStore) GetRecipe(ctx context.Context, postID int64) (*Recipe, error) {
	if m.getRecipeFunc != nil {
		return m.getRecipeFunc(ctx, postID)
	}
	return nil, ErrPostNotFound
}

func (m *mockStore) Create(ctx context.Context, post *Post) (*Post, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, post)
	}
	created := *post
	created.ID = 1
	created.CreatedAt = time.Now()
	return &created, nil
}

func (m *mockStore) CreateWithRecipe(ctx context.Context, post *Post, recipe *Recipe) (*RecipePost, error) {
	if m.createWithRecipeFunc != nil {
		return m.createWithRecipeFunc(ctx, post, recipe)
	}
	created := RecipePost{Post: *post, Recipe: *recipe}
	created.ID = 1
	created.Recipe.PostID = 1
	created.Recipe.ID = uuid.New()
	return &created, nil
}

func (m *mockStore) UpdateCaption(ctx context.Context, postID int64, userID uuid.UUID, caption string) (*Post, error) {
	if m.updateCaptionFunc != nil {
		return m.updateCaptionFunc(ctx, postID, userID, caption)
	}
	return &Post{ID: postID, UserID: userID, Caption: caption}, nil
}

func (m *mockStore) Delete(ctx context.Context, postID int64, userID uuid.UUID) (string, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, postID, userID)
	}
	return "media/key.png", nil
}

func (m *mockStore) Ranking(ctx context.Context, since time.Time, filter RankingFilter) ([]Post, error) {
	if m.rankingFunc != nil {
		return m.rankingFunc(ctx, since, filter)
	}
	return []Post{}, nil
}

type mockMedia struct {
	uploads   int
	deleted   []string
	uploadErr error
	mediaType string
}

func (m *mockMedia) UploadMedia(ctx context.Context, fh *multipart.FileHeader, declaredType string) (*files.Media, error) {
	m.uploads++
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	mediaType := m.mediaType
	if mediaType == "" {
		mediaType = MediaTypeImage
	}
	return &files.Media{
		URL:       "http://minio.test/kamuisnap/media/abc.png",
		Key:       "media/abc.png",
		MediaType: mediaType,
	}, nil
}

func (m *mockMedia) DeleteFile(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return nil
}
