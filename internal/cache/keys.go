package cache

import (
	"context"
	"fmt"
	"time"
)

// Key layout shared by posts-service (readers) and likes-service (writers).
const (
	postPattern    = "post:*"
	feedPattern    = "posts:*"
	rankingPattern = "ranking:*"
)

// PostKey is the cache key of a single post.
func PostKey(postID int64) string {
	return fmt.Sprintf("post:%d", postID)
}

// RecentKey caches the newest posts.
func RecentKey(limit int) string {
	return fmt.Sprintf("posts:recent:%d", limit)
}

// CategoryKey caches the newest posts of one category.
func CategoryKey(category string, limit int) string {
	return fmt.Sprintf("posts:category:%s:%d", category, limit)
}

// RecipesKey caches the recipe feed.
func RecipesKey(limit int) string {
	return fmt.Sprintf("posts:recipes:%d", limit)
}

// UserPostsKey caches one user's posts.
func UserPostsKey(userID string, limit int) string {
	return fmt.Sprintf("posts:user:%s:%d", userID, limit)
}

// RankingKey caches a ranking for a period and filter pair over the window
// starting at since. Callers truncate since so nearby requests share a key.
func RankingKey(period, mediaType, category string, since time.Time) string {
	return fmt.Sprintf("ranking:%s:%s:%s:%d", period, mediaType, category, since.Unix())
}

// InvalidatePost drops the post itself and every list that may contain it.
func (c *Cache) InvalidatePost(ctx context.Context, postID int64) {
	if !c.Enabled() {
		return
	}
	c.Delete(ctx, PostKey(postID))
	c.DeleteByPattern(ctx, feedPattern)
	c.DeleteByPattern(ctx, rankingPattern)
}

// InvalidateFeeds drops every list and ranking.
func (c *Cache) InvalidateFeeds(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	c.DeleteByPattern(ctx, feedPattern)
	c.DeleteByPattern(ctx, rankingPattern)
}

// InvalidateAuthors drops every cached post and list. Posts embed their
// author's username, display name and avatar, so a profile edit stales all of them.
func (c *Cache) InvalidateAuthors(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	c.DeleteByPattern(ctx, postPattern)
	c.InvalidateFeeds(ctx)
}
