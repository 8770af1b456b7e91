package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/fortuna/gridiron/internal/fetch"
	"github.com/fortuna/gridiron/internal/scrape"
)

// Simple test utility to check what one season page actually carries.
func main() {
	log.Println("Probing season stats page")
	log.Println("=========================")

	year := 2024
	if len(os.Args) > 1 {
		y, err := strconv.Atoi(os.Args[1])
		if err != nil {
			log.Fatalf("Invalid year %q", os.Args[1])
		}
		year = y
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client := fetch.NewStaticClient(fetch.DefaultBaseURL, 2*time.Second)
	defer client.Close()

	log.Printf("\n1. Fetching %s ...", fetch.SeasonURL(fetch.DefaultBaseURL, year))
	html, err := client.FetchSeason(ctx, year)
	if err != nil {
		log.Fatalf("Failed to fetch season page: %v", err)
	}
	log.Printf("✓ Retrieved HTML content (%d bytes)", len(html))

	doc, err := fetch.ParseHTML(html)
	if err != nil {
		log.Fatalf("Failed to parse HTML: %v", err)
	}

	log.Println("\n2. Looking for category tables...")
	for _, name := range scrape.CategoryNames() {
		cat, err := scrape.Lookup(name)
		if err != nil {
			continue
		}
		tbl, err := scrape.ParseSeason(doc, cat, year)
		if err != nil {
			log.Printf("  %-16s -> not found (%v)", name, err)
			continue
		}
		log.Printf("✓ %-16s -> %d rows, %d columns", name, len(tbl.Rows), len(tbl.Columns))
	}

	log.Println("\nDone")
}
