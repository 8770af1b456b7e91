package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/fortuna/gridiron/internal/fetch"
	"github.com/fortuna/gridiron/internal/gamelog"
)

func init() {
	rootCmd.AddCommand(newGamelogCmd())
}

func newGamelogCmd() *cobra.Command {
	var opts fetchOptions
	var out string

	cmd := &cobra.Command{
		Use:   "gamelog <offense|defense>",
		Short: "Scrape the team game-by-game log",
		Long: `Scrape the team game-by-game offense or defense log over a range of
season years and write it to CSV. The log keeps the site's repeated
column names, so the output is a plain positional CSV.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var section string
			var columns []string
			switch args[0] {
			case "offense":
				section = gamelog.SectionTeamOffense
				columns = gamelog.OffenseColumns
			case "defense":
				section = gamelog.SectionTeamDefense
				columns = gamelog.DefenseColumns
			default:
				return fmt.Errorf("unknown log %q (use offense or defense)", args[0])
			}

			if out == "" {
				out = fmt.Sprintf("gbg_team_%s.csv", args[0])
			}

			client, err := opts.client(false)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := cmd.Context()
			var games []gamelog.TeamGame

			for _, year := range opts.years() {
				html, err := client.FetchSeason(ctx, year)
				if err != nil {
					log.Printf("[gamelog] %d: %v", year, err)
					continue
				}
				doc, err := fetch.ParseHTML(html)
				if err != nil {
					log.Printf("[gamelog] %d: %v", year, err)
					continue
				}

				rows := gamelog.ParseTeamLog(doc, section, year)
				log.Printf("[gamelog] ✓ %d: %d games", year, len(rows))
				games = append(games, rows...)
			}

			if len(games) == 0 {
				return fmt.Errorf("no %s game log found", args[0])
			}

			if err := gamelog.WriteTeamLog(out, columns, games); err != nil {
				return err
			}
			log.Printf("[gamelog] ✓ Wrote %d games to %s", len(games), out)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "output CSV file (default gbg_team_<log>.csv)")

	return cmd
}
