// Package cli implements the gridiron command line interface.
package cli

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fortuna/gridiron/internal/backfill"
	"github.com/fortuna/gridiron/internal/cache"
	"github.com/fortuna/gridiron/internal/fetch"
)

var rootCmd = &cobra.Command{
	Use:   "gridiron",
	Short: "Mercyhurst football statistics scraper",
	Long: `gridiron scrapes season statistics tables from the athletics site,
normalizes them into master CSV files and a stats database, and can run
as a small stats API service.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// fetchOptions carries the flags every scraping command shares.
type fetchOptions struct {
	year      int
	startYear int
	endYear   int
	baseURL   string
	delay     time.Duration
	redisURL  string
	rendered  bool
}

func (o *fetchOptions) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.year, "year", 0, "single season year (overrides the range)")
	cmd.Flags().IntVar(&o.startYear, "start-year", backfill.DefaultStartYear, "first season year")
	cmd.Flags().IntVar(&o.endYear, "end-year", backfill.DefaultEndYear, "last season year")
	cmd.Flags().StringVar(&o.baseURL, "base-url", fetch.DefaultBaseURL, "season stats page base URL")
	cmd.Flags().DurationVar(&o.delay, "delay", 2*time.Second, "minimum delay between requests")
	cmd.Flags().StringVar(&o.redisURL, "cache", "", "redis URL for page caching (optional)")
	cmd.Flags().BoolVar(&o.rendered, "rendered", false, "force a headless-browser fetch")
}

func (o *fetchOptions) years() []int {
	start, end := o.startYear, o.endYear
	if o.year != 0 {
		start, end = o.year, o.year
	}
	if end < start {
		start, end = end, start
	}
	var out []int
	for y := start; y <= end; y++ {
		out = append(out, y)
	}
	return out
}

// client builds the fetch client the command needs, optionally wrapped
// with a redis page cache.
func (o *fetchOptions) client(rendered bool) (fetch.Client, error) {
	var inner fetch.Client
	if rendered || o.rendered {
		c, err := fetch.NewRenderedClient(o.baseURL)
		if err != nil {
			return nil, fmt.Errorf("start headless browser: %w", err)
		}
		inner = c
	} else {
		inner = fetch.NewStaticClient(o.baseURL, o.delay)
	}

	if o.redisURL == "" {
		return inner, nil
	}

	pages, err := cache.NewPageCache(o.redisURL, cache.DefaultTTL)
	if err != nil {
		log.Printf("[cache] unavailable, fetching without cache: %v", err)
		return inner, nil
	}
	return fetch.NewCachedClient(inner, pages, o.baseURL), nil
}

// printTable renders rows on stdout for --preview.
func printTable(columns []string, rows []map[string]string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	header := table.Row{}
	for _, c := range columns {
		header = append(header, c)
	}
	t.AppendHeader(header)

	for _, row := range rows {
		r := table.Row{}
		for _, c := range columns {
			r = append(r, row[c])
		}
		t.AppendRow(r)
	}

	t.Render()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
