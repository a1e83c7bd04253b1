// Package cache wraps the shared Redis client with JSON helpers used for
// read-through caching of feeds and rankings. A nil *Cache is valid and
// behaves as a permanently empty cache, so services keep running when Redis
// is unreachable.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"kamuisnap/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON documents in Redis.
type Cache struct {
	client *redis.Client
}

// NewClient builds a Redis client. It does not dial.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Connect pings the client and returns nil when Redis is unavailable.
func Connect(ctx context.Context, client *redis.Client) *Cache {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis connection failed: %v. Caching disabled.", err)
		return nil
	}
	log.Println("Redis cache connected")
	return &Cache{client: client}
}

// New wraps an already verified client.
func New(client *redis.Client) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client}
}

// Enabled reports whether lookups can ever hit.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON decodes the value at key into dest and reports whether it was found.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	if !c.Enabled() {
		return false
	}

	cached, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Cache read failed for %s: %v", key, err)
		}
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return false
	}

	if err := json.Unmarshal([]byte(cached), dest); err != nil {
		log.Printf("Dropping undecodable cache entry %s: %v", key, err)
		c.client.Del(ctx, key)
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return false
	}

	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return true
}

// SetJSON stores v at key. Failures are logged and otherwise ignored.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if !c.Enabled() {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Cache encode failed for %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("Cache write failed for %s: %v", key, err)
	}
}

// Delete removes the given keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("Cache delete failed: %v", err)
	}
}

// DeleteByPattern removes every key matching a glob pattern using SCAN.
func (c *Cache) DeleteByPattern(ctx context.Context, pattern string) {
	if !c.Enabled() {
		return
	}

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("Error scanning cache keys: %v", err)
	}
}
