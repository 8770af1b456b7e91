package fetch

import (
	"context"
	"log"

	"github.com/fortuna/gridiron/internal/cache"
)

// CachedClient wraps another client with a Redis page cache.
type CachedClient struct {
	inner   Client
	pages   *cache.PageCache
	baseURL string
}

// NewCachedClient layers the page cache over inner. Cache failures are
// logged and the fetch proceeds uncached.
func NewCachedClient(inner Client, pages *cache.PageCache, baseURL string) *CachedClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &CachedClient{inner: inner, pages: pages, baseURL: baseURL}
}

// FetchSeason implements Client.
func (c *CachedClient) FetchSeason(ctx context.Context, year int) (string, error) {
	url := SeasonURL(c.baseURL, year)

	body, ok, err := c.pages.Get(ctx, url)
	if err != nil {
		log.Printf("[fetch] cache read failed for %s: %v", url, err)
	} else if ok {
		return body, nil
	}

	body, err = c.inner.FetchSeason(ctx, year)
	if err != nil {
		return "", err
	}

	if err := c.pages.Put(ctx, url, body); err != nil {
		log.Printf("[fetch] cache write failed for %s: %v", url, err)
	}
	return body, nil
}

// Close implements Client.
func (c *CachedClient) Close() {
	c.inner.Close()
}
