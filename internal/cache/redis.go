// Package cache stores fetched season pages in Redis so repeated runs
// against the same years do not re-hit the athletics site.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL keeps a fetched page for a day; season stats rarely change
// more often than that outside game weekends.
const DefaultTTL = 24 * time.Hour

// PageCache is a Redis-backed HTML page cache keyed by URL.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new Redis cache connection
func NewPageCache(redisURL string, ttl time.Duration) (*PageCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &PageCache{client: client, ttl: ttl}, nil
}

// Close closes the Redis connection
func (pc *PageCache) Close() error {
	return pc.client.Close()
}

// HealthCheck pings Redis to verify connection
func (pc *PageCache) HealthCheck(ctx context.Context) error {
	return pc.client.Ping(ctx).Err()
}

// Put stores a page body under its URL.
func (pc *PageCache) Put(ctx context.Context, url, body string) error {
	return pc.client.Set(ctx, key(url), body, pc.ttl).Err()
}

// Get retrieves a cached page body. The bool reports whether the URL was
// present.
func (pc *PageCache) Get(ctx context.Context, url string) (string, bool, error) {
	body, err := pc.client.Get(ctx, key(url)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return body, true, nil
}

// Invalidate removes cached pages.
func (pc *PageCache) Invalidate(ctx context.Context, urls ...string) error {
	keys := make([]string, len(urls))
	for i, u := range urls {
		keys[i] = key(u)
	}
	return pc.client.Del(ctx, keys...).Err()
}

func key(url string) string {
	return "page:" + url
}
