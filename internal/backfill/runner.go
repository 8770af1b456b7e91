package backfill

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/gridiron/internal/fetch"
	"github.com/fortuna/gridiron/internal/gamelog"
	"github.com/fortuna/gridiron/internal/scrape"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
)

// Runner executes scrape job specs: one fetch per season year, parsed and
// upserted into the stats database.
type Runner struct {
	static   fetch.Client
	rendered fetch.Client // nil when headless Chrome is unavailable
	stats    *repository.SeasonStats
	games    *repository.Games
}

// NewRunner constructs a runner. The rendered client may be nil; categories
// that want a rendered page then fall back to the static fetch.
func NewRunner(db *store.Database, static, rendered fetch.Client) *Runner {
	return &Runner{
		static:   static,
		rendered: rendered,
		stats:    repository.NewSeasonStats(db),
		games:    repository.NewGames(db),
	}
}

// Run executes the job spec, reporting progress via the Reporter if provided.
func (r *Runner) Run(ctx context.Context, spec JobSpec, reporter Reporter) error {
	if reporter != nil {
		reporter.OnJobStart(spec)
	}

	var cat *scrape.Category
	if spec.Category != CategoryResults {
		var err error
		cat, err = scrape.Lookup(spec.Category)
		if err != nil {
			if reporter != nil {
				reporter.OnJobError(err)
			}
			return err
		}
	}

	client := r.static
	if cat != nil && cat.Rendered && r.rendered != nil {
		client = r.rendered
	}

	years := enumerateYears(spec.StartYear, spec.EndYear)
	total := len(years)

	for idx, year := range years {
		if err := ctx.Err(); err != nil {
			return err
		}

		if reporter != nil {
			reporter.OnYearStart(year, idx, total)
		}

		html, err := client.FetchSeason(ctx, year)
		if err != nil {
			if reporter != nil {
				reporter.OnJobError(err)
			}
			return fmt.Errorf("fetch %d season: %w", year, err)
		}

		doc, err := fetch.ParseHTML(html)
		if err != nil {
			if reporter != nil {
				reporter.OnJobError(err)
			}
			return fmt.Errorf("parse %d season: %w", year, err)
		}

		var rows int
		if cat == nil {
			rows, err = r.storeResults(ctx, doc, year)
		} else {
			rows, err = r.storeSeason(ctx, doc, cat, year)
		}
		if err != nil {
			if reporter != nil {
				reporter.OnJobError(err)
			}
			return err
		}

		if reporter != nil {
			reporter.OnYearComplete(year, rows)
			reporter.OnProgress(fmt.Sprintf("Processed %d (%d rows)", year, rows), idx+1, total)
		}
	}

	if reporter != nil {
		reporter.OnJobComplete()
	}

	return nil
}

// storeSeason parses the category table for one year and upserts every
// player line. A season without the table is not an error, some years
// simply lack a category.
func (r *Runner) storeSeason(ctx context.Context, doc *goquery.Document, cat *scrape.Category, year int) (int, error) {
	tbl, err := scrape.ParseSeason(doc, cat, year)
	if err != nil {
		return 0, nil
	}
	return StoreSeasonTable(ctx, r.stats, cat, tbl)
}

// storeResults parses the game results list for one year and upserts each
// game.
func (r *Runner) storeResults(ctx context.Context, doc *goquery.Document, year int) (int, error) {
	results := gamelog.Dedupe(gamelog.ParseResults(doc, year))
	if err := StoreResults(ctx, r.games, results); err != nil {
		return 0, err
	}
	return len(results), nil
}

// StoreSeasonTable upserts every player line of a normalized table.
func StoreSeasonTable(ctx context.Context, stats *repository.SeasonStats, cat *scrape.Category, tbl *scrape.Table) (int, error) {
	yearCol := cat.YearColumn
	if yearCol == "" {
		yearCol = "Year"
	}

	count := 0
	for _, row := range tbl.Rows {
		name := playerName(cat, tbl.Columns, row)
		if name == "" {
			continue
		}

		line := make(map[string]string, len(row))
		for k, v := range row {
			if k == yearCol || k == cat.JerseyColumn || k == cat.NameColumn {
				continue
			}
			line[k] = v
		}

		stat := &store.SeasonStat{
			Category:   cat.Name,
			PlayerName: name,
			Jersey:     row[cat.JerseyColumn],
			Year:       tbl.Year,
			Stats:      line,
		}
		if err := stats.Upsert(ctx, stat); err != nil {
			return count, fmt.Errorf("store %s %d: %w", cat.Name, tbl.Year, err)
		}
		count++
	}
	return count, nil
}

// StoreResults upserts parsed game results.
func StoreResults(ctx context.Context, games *repository.Games, results []gamelog.Result) error {
	for _, res := range results {
		g := &store.GameResult{
			GameDate:   res.Date,
			Opponent:   res.Opponent,
			Site:       res.Site,
			Result:     res.Result,
			Score:      res.Score,
			Duration:   res.Duration,
			Attendance: res.Attendance,
		}
		if err := games.Upsert(ctx, g); err != nil {
			return fmt.Errorf("store result %s %s: %w", res.Date, res.Opponent, err)
		}
	}
	return nil
}

func enumerateYears(start, end int) []int {
	if end < start {
		start, end = end, start
	}
	var years []int
	for y := start; y <= end; y++ {
		years = append(years, y)
	}
	return years
}

func playerName(cat *scrape.Category, columns []string, row map[string]string) string {
	if cat.NameColumn != "" {
		if v := strings.TrimSpace(row[cat.NameColumn]); v != "" {
			return v
		}
	}
	for _, c := range columns {
		lower := strings.ToLower(c)
		if strings.Contains(lower, "name") || strings.Contains(lower, "player") {
			return strings.TrimSpace(row[c])
		}
	}
	return ""
}
