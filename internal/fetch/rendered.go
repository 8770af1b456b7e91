package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// MinRequestInterval to prevent rate limiting
const MinRequestInterval = 2 * time.Second

// RenderedClient fetches pages through a headless browser. The defense
// section of the stats page is injected by JS and never appears in the
// static HTML.
type RenderedClient struct {
	baseURL string

	lastRequest time.Time
	interval    time.Duration

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewRenderedClient creates a headless-browser fetcher.
func NewRenderedClient(baseURL string) (*RenderedClient, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &RenderedClient{
		baseURL:  baseURL,
		interval: MinRequestInterval,
		allocCtx: allocCtx,
		cancel:   cancel,
	}, nil
}

// Close releases the browser.
func (c *RenderedClient) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// FetchSeason fetches and renders the stats page for a year.
func (c *RenderedClient) FetchSeason(ctx context.Context, year int) (string, error) {
	if !c.lastRequest.IsZero() {
		elapsed := time.Since(c.lastRequest)
		if elapsed < c.interval {
			waitTime := c.interval - elapsed
			log.Printf("[fetch] rate limiting: waiting %v before next request", waitTime)
			time.Sleep(waitTime)
		}
	}

	html, err := c.fetch(ctx, SeasonURL(c.baseURL, year))
	c.lastRequest = time.Now()

	return html, err
}

func (c *RenderedClient) fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, 30*time.Second)
	defer cancel()

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second), // Allow JS to render
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)

	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}

	if htmlContent == "" {
		return "", fmt.Errorf("empty HTML content returned")
	}

	return htmlContent, nil
}
