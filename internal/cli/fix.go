package cli

import (
	"fmt"
	"log"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fortuna/gridiron/internal/csvfile"
	"github.com/fortuna/gridiron/internal/fetch"
	"github.com/fortuna/gridiron/internal/names"
	"github.com/fortuna/gridiron/internal/scrape"
)

// fuzzyThreshold is the Jaro-Winkler floor for last-resort name matches.
const fuzzyThreshold = 0.9

func init() {
	rootCmd.AddCommand(newFixCmd())
}

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Repair columns in a master CSV",
	}
	cmd.AddCommand(newFixRushingTDCmd())
	return cmd
}

func newFixRushingTDCmd() *cobra.Command {
	var opts fetchOptions
	var master string

	cmd := &cobra.Command{
		Use:   "rushing-td",
		Short: "Re-scrape rushing touchdown counts into a master CSV",
		Long: `Some seasons publish the rushing table without a usable TD column.
This command re-reads each season page, builds a player-to-touchdowns
map from whatever rushing table variant the page has, and patches the
TD column of the master CSV. Names are matched exactly, then with the
comma halves swapped, then fuzzily.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			header, rows, err := csvfile.ReadAll(master)
			if err != nil {
				return err
			}

			nameCol := pickColumn(header, "Name", "name", "Player")
			yearCol := pickColumn(header, "Year", "year")
			tdCol := pickColumn(header, "TD", "td")
			if nameCol == "" || yearCol == "" || tdCol == "" {
				return fmt.Errorf("%s: need Name, Year and TD columns, have %v", master, header)
			}

			client, err := opts.client(false)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := cmd.Context()
			fixed := 0

			for _, year := range opts.years() {
				html, err := client.FetchSeason(ctx, year)
				if err != nil {
					log.Printf("[fix] %d: %v", year, err)
					continue
				}
				doc, err := fetch.ParseHTML(html)
				if err != nil {
					log.Printf("[fix] %d: %v", year, err)
					continue
				}

				tdMap := scrape.ParseRushingTouchdowns(doc)
				if len(tdMap) == 0 {
					log.Printf("[fix] %d: no touchdown data on page", year)
					continue
				}

				keys := make([]string, 0, len(tdMap))
				for k := range tdMap {
					keys = append(keys, k)
				}
				sort.Strings(keys)

				for _, row := range rows {
					if row[yearCol] != strconv.Itoa(year) {
						continue
					}
					td, ok := lookupTD(tdMap, keys, row[nameCol])
					if !ok || td == row[tdCol] {
						continue
					}
					row[tdCol] = td
					fixed++
				}
			}

			if fixed == 0 {
				log.Printf("[fix] nothing to change in %s", master)
				return nil
			}

			if err := csvfile.Write(master, header, rows); err != nil {
				return err
			}
			log.Printf("[fix] ✓ Patched %d TD values in %s", fixed, master)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&master, "master", "master rushing.csv", "master rushing CSV to patch")

	return cmd
}

// lookupTD resolves a master CSV name against the touchdown map: exact
// key, swapped comma halves, then the closest fuzzy key.
func lookupTD(tdMap map[string]string, keys []string, name string) (string, bool) {
	if td, ok := tdMap[names.Key(name)]; ok {
		return td, true
	}
	if td, ok := tdMap[names.Key(names.SwapComma(name))]; ok {
		return td, true
	}
	if best, ok := names.BestMatch(names.Key(name), keys, fuzzyThreshold); ok {
		return tdMap[best], true
	}
	return "", false
}

func pickColumn(header []string, candidates ...string) string {
	for _, c := range candidates {
		for _, h := range header {
			if h == c {
				return h
			}
		}
	}
	return ""
}
