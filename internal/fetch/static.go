package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// StaticClient fetches pages over plain HTTP. Most season pages ship
// their stat tables in the initial HTML, so this is the default path.
type StaticClient struct {
	baseURL string
	http    *resty.Client

	lastRequest time.Time
	interval    time.Duration
}

// NewStaticClient creates an HTTP fetcher with a browser user agent and
// a minimum interval between requests.
func NewStaticClient(baseURL string, interval time.Duration) *StaticClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	http := resty.New().
		SetHeader("User-Agent", UserAgent).
		SetTimeout(15 * time.Second)

	return &StaticClient{
		baseURL:  baseURL,
		http:     http,
		interval: interval,
	}
}

// FetchSeason fetches the stats page for a year. When the year URL fails,
// the bare stats URL is tried once; the site serves the current season
// there.
func (c *StaticClient) FetchSeason(ctx context.Context, year int) (string, error) {
	c.rateLimit()
	defer func() { c.lastRequest = time.Now() }()

	url := SeasonURL(c.baseURL, year)
	body, err := c.get(ctx, url)
	if err == nil {
		return body, nil
	}

	log.Printf("[fetch] %s failed (%v), retrying bare stats URL", url, err)
	body, retryErr := c.get(ctx, c.baseURL)
	if retryErr != nil {
		return "", fmt.Errorf("fetch season %d: %w", year, err)
	}
	return body, nil
}

func (c *StaticClient) get(ctx context.Context, url string) (string, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("GET %s: status %d", url, resp.StatusCode())
	}
	return resp.String(), nil
}

func (c *StaticClient) rateLimit() {
	if c.lastRequest.IsZero() || c.interval <= 0 {
		return
	}
	elapsed := time.Since(c.lastRequest)
	if elapsed < c.interval {
		time.Sleep(c.interval - elapsed)
	}
}

// Close implements Client.
func (c *StaticClient) Close() {}
