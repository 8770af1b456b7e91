// Package fetch retrieves season stats pages from the athletics site.
package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultBaseURL is the season stats page, completed with a year.
	DefaultBaseURL = "https://hurstathletics.com/sports/football/stats"

	// UserAgent for requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Client fetches the raw HTML of one season's stats page.
type Client interface {
	FetchSeason(ctx context.Context, year int) (string, error)
	Close()
}

// SeasonURL builds the stats URL for a year.
func SeasonURL(baseURL string, year int) string {
	return fmt.Sprintf("%s/%d", strings.TrimRight(baseURL, "/"), year)
}

// ParseHTML converts raw HTML to a goquery Document for parsing
func ParseHTML(htmlContent string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
