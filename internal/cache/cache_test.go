package cache

import (
	"context"
	"testing"
	"time"
)

func TestNilCacheIsEmpty(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	if c.Enabled() {
		t.Fatal("nil cache should be disabled")
	}

	c.SetJSON(ctx, "post:1", map[string]int{"likes": 3}, time.Minute)
	c.Delete(ctx, "post:1")
	c.DeleteByPattern(ctx, "posts:*")

	var got map[string]int
	if c.GetJSON(ctx, "post:1", &got) {
		t.Error("nil cache should never hit")
	}
}

func TestNewWithNilClient(t *testing.T) {
	if New(nil) != nil {
		t.Error("expected nil cache for nil client")
	}
}

func TestConnectUnreachable(t *testing.T) {
	client := NewClient("127.0.0.1:1", "", 0)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if c := Connect(ctx, client); c != nil {
		t.Error("expected caching to be disabled when Redis is unreachable")
	}
}

func TestRankingKey(t *testing.T) {
	since := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if got, want := RankingKey("weekly", "video", "anime", since), "ranking:weekly:video:anime:1748779200"; got != want {
		t.Errorf("RankingKey = %q, want %q", got, want)
	}
	if RankingKey("weekly", "", "", since) == RankingKey("weekly", "", "", since.Add(time.Minute)) {
		t.Error("windows starting a minute apart must not share a key")
	}
}
