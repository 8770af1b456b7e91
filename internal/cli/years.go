package cli

import (
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fortuna/gridiron/internal/fetch"
	"github.com/fortuna/gridiron/internal/scrape"
)

func init() {
	rootCmd.AddCommand(newYearsCmd())
}

func newYearsCmd() *cobra.Command {
	var opts fetchOptions
	var category string

	cmd := &cobra.Command{
		Use:   "years",
		Short: "Probe which seasons have stats pages",
		Long: `Fetch each season page in the range and report which statistics
categories it carries. Useful before a long scrape to see how far back
the site goes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			probe := scrape.CategoryNames()
			if category != "" {
				cat, err := scrape.Lookup(category)
				if err != nil {
					return err
				}
				probe = []string{cat.Name}
			}

			client, err := opts.client(false)
			if err != nil {
				return err
			}
			defer client.Close()

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Year", "Page", "Categories"})

			ctx := cmd.Context()
			for _, year := range opts.years() {
				html, err := client.FetchSeason(ctx, year)
				if err != nil {
					t.AppendRow(table.Row{year, "missing", ""})
					continue
				}
				doc, err := fetch.ParseHTML(html)
				if err != nil {
					t.AppendRow(table.Row{year, "unparseable", ""})
					continue
				}

				var found []string
				for _, name := range probe {
					cat, lookupErr := scrape.Lookup(name)
					if lookupErr != nil {
						continue
					}
					if _, _, findErr := scrape.FindTable(doc, cat); findErr == nil {
						found = append(found, name)
					}
				}

				t.AppendRow(table.Row{year, "ok", strings.Join(found, ", ")})
			}

			t.Render()
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&category, "category", "", "only probe one category")
	return cmd
}
