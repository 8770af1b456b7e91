package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/fortuna/gridiron/internal/backfill"
	"github.com/fortuna/gridiron/internal/csvfile"
	"github.com/fortuna/gridiron/internal/fetch"
	"github.com/fortuna/gridiron/internal/gamelog"
	"github.com/fortuna/gridiron/internal/store/repository"
)

func init() {
	rootCmd.AddCommand(newResultsCmd())
}

func newResultsCmd() *cobra.Command {
	var opts fetchOptions
	var out, dsn string
	var preview bool

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Scrape game results",
		Long: `Scrape the game results list (date, opponent, site, result, score,
duration, attendance) over a range of season years.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client(false)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := cmd.Context()
			var all []gamelog.Result

			for _, year := range opts.years() {
				html, err := client.FetchSeason(ctx, year)
				if err != nil {
					log.Printf("[results] %d: %v", year, err)
					continue
				}
				doc, err := fetch.ParseHTML(html)
				if err != nil {
					log.Printf("[results] %d: %v", year, err)
					continue
				}

				rows := gamelog.ParseResults(doc, year)
				log.Printf("[results] ✓ %d: %d games", year, len(rows))
				all = append(all, rows...)
			}

			all = gamelog.Dedupe(all)

			records := make([]map[string]string, 0, len(all))
			for _, r := range all {
				records = append(records, r.Record())
			}

			if preview {
				printTable(gamelog.ResultColumns, records)
			}

			if dsn != "" {
				db, err := openStore(dsn)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := backfill.StoreResults(ctx, repository.NewGames(db), all); err != nil {
					return err
				}
				log.Printf("[results] ✓ Stored %d games in the database", len(all))
			}

			if out != "" {
				if err := csvfile.Write(out, gamelog.ResultColumns, records); err != nil {
					return err
				}
				log.Printf("[results] ✓ Wrote %d games to %s", len(records), out)
			}

			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&out, "out", "game_results.csv", "output CSV file")
	cmd.Flags().StringVar(&dsn, "dsn", "", "also upsert games into the stats database")
	cmd.Flags().BoolVar(&preview, "preview", false, "print the scraped games as a table")

	return cmd
}
