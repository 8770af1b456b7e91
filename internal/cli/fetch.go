package cli

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fortuna/gridiron/internal/backfill"
	"github.com/fortuna/gridiron/internal/csvfile"
	"github.com/fortuna/gridiron/internal/fetch"
	"github.com/fortuna/gridiron/internal/scrape"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
)

func init() {
	rootCmd.AddCommand(newFetchCmd())
}

func newFetchCmd() *cobra.Command {
	var opts fetchOptions
	var out, appendTo, dsn string
	var listYears, preview bool

	cmd := &cobra.Command{
		Use:   "fetch <category>",
		Short: "Scrape a season statistics category",
		Long: `Scrape one statistics category over a range of season years and write
the normalized rows to a CSV file, a master CSV, or the stats database.

Categories: ` + fmt.Sprint(scrape.CategoryNames()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := scrape.Lookup(args[0])
			if err != nil {
				return err
			}

			years := opts.years()

			if appendTo != "" {
				have, err := csvfile.Years(appendTo)
				if err != nil {
					return err
				}
				if listYears {
					printMasterYears(appendTo, have)
					return nil
				}
				years = filterYears(years, have)
				if len(years) == 0 {
					log.Printf("[fetch] %s: master already covers the requested years", appendTo)
					return nil
				}
			}

			client, err := opts.client(cat.Rendered)
			if err != nil {
				return err
			}
			defer client.Close()

			var db *store.Database
			var stats *repository.SeasonStats
			if dsn != "" {
				db, err = openStore(dsn)
				if err != nil {
					return err
				}
				defer db.Close()
				stats = repository.NewSeasonStats(db)
			}

			ctx := cmd.Context()
			var columns []string
			var rows []map[string]string

			for _, year := range years {
				tbl, err := fetchSeasonTable(ctx, client, cat, year)
				if err != nil {
					log.Printf("[fetch] %d: %v", year, err)
					continue
				}

				columns = mergeColumns(columns, tbl.Columns)
				rows = append(rows, tbl.Rows...)
				log.Printf("[fetch] ✓ %s %d: %d rows", cat.Name, year, len(tbl.Rows))

				if stats != nil {
					if _, err := backfill.StoreSeasonTable(ctx, stats, cat, tbl); err != nil {
						return err
					}
				}
			}

			if len(rows) == 0 {
				return fmt.Errorf("no %s tables found in %d-%d", cat.Name, years[0], years[len(years)-1])
			}

			if preview {
				printTable(columns, rows)
			}

			if appendTo != "" {
				if err := csvfile.Append(appendTo, columns, rows); err != nil {
					return err
				}
				log.Printf("[fetch] ✓ Appended %d rows to %s", len(rows), appendTo)
			}

			if out != "" {
				if err := csvfile.Write(out, columns, rows); err != nil {
					return err
				}
				log.Printf("[fetch] ✓ Wrote %d rows to %s", len(rows), out)
			}

			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "write a fresh CSV file")
	cmd.Flags().StringVar(&appendTo, "append-to", "", "append to a master CSV, skipping years it already has")
	cmd.Flags().StringVar(&dsn, "dsn", "", "also upsert rows into the stats database")
	cmd.Flags().BoolVar(&listYears, "list-years", false, "list the years present in the master CSV and exit")
	cmd.Flags().BoolVar(&preview, "preview", false, "print the scraped rows as a table")

	return cmd
}

// fetchSeasonTable pulls one season page and extracts the category table.
func fetchSeasonTable(ctx context.Context, client fetch.Client, cat *scrape.Category, year int) (*scrape.Table, error) {
	html, err := client.FetchSeason(ctx, year)
	if err != nil {
		return nil, err
	}
	doc, err := fetch.ParseHTML(html)
	if err != nil {
		return nil, err
	}
	return scrape.ParseSeason(doc, cat, year)
}

func filterYears(years []int, have map[int]bool) []int {
	var out []int
	for _, y := range years {
		if !have[y] {
			out = append(out, y)
		}
	}
	return out
}

func printMasterYears(path string, have map[int]bool) {
	var years []int
	for y := range have {
		years = append(years, y)
	}
	sort.Ints(years)
	fmt.Printf("%s: %v\n", path, years)
}

// mergeColumns unions column sets while keeping first-seen order.
func mergeColumns(base, more []string) []string {
	seen := make(map[string]bool, len(base))
	for _, c := range base {
		seen[c] = true
	}
	for _, c := range more {
		if !seen[c] {
			base = append(base, c)
			seen[c] = true
		}
	}
	return base
}

func openStore(dsn string) (*store.Database, error) {
	db, err := store.Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
