package gamelog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/gridiron/internal/scrape"
)

// Team game-by-game logs live in sections with stable ids; the tables
// carry two header rows (a group banner above the real columns).
const (
	SectionTeamOffense = "gbg_team_offense"
	SectionTeamDefense = "gbg_team_defense"
)

// OffenseColumns is the fixed header of the aggregated offense log. The
// repeated groups are rushing, passing, first downs, penalties and
// punting blocks in site order.
var OffenseColumns = []string{
	"date", "opponent",
	"att", "yds", "td", "long",
	"att", "yds", "td", "long",
	"yds", "td", "long",
	"att", "yds", "td", "long",
	"att", "yds", "td", "long",
}

// DefenseColumns is the fixed header of the aggregated defense log.
var DefenseColumns = []string{
	"date", "opponent",
	"Solo", "aST", "TOT", "TFL", "YDS", "TOT", "YDS",
	"FF", "FR", "YDS", "TOT", "YDS", "QBH",
	"Pass Brup", "Blkd Kick", "SAF",
}

// TeamGame is one game row of a team log: the date, the opponent, and
// the remaining cells in table order.
type TeamGame struct {
	Date     string
	Opponent string
	Numbers  []string
}

// Row flattens a TeamGame to a CSV record matching columns, padding or
// truncating the numeric cells.
func (g TeamGame) Row(columns []string) []string {
	out := []string{g.Date, g.Opponent}
	needed := len(columns) - 2
	for i := 0; i < needed; i++ {
		if i < len(g.Numbers) {
			out = append(out, g.Numbers[i])
		} else {
			out = append(out, "")
		}
	}
	return out
}

// ParseTeamLog extracts the team game-by-game table under sectionID.
// Without the section the whole page is scanned for two-header-row
// tables whose rows start with a date.
func ParseTeamLog(doc *goquery.Document, sectionID string, year int) []TeamGame {
	var tables []*goquery.Selection

	if sec := doc.Find("#" + sectionID).First(); sec.Length() > 0 {
		if tbl := sec.Find("table").First(); tbl.Length() > 0 {
			tables = append(tables, tbl)
		}
	}
	if len(tables) == 0 {
		doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
			tables = append(tables, tbl)
		})
	}

	var out []TeamGame
	for _, tbl := range tables {
		if scrape.HeaderRowCount(tbl) < 2 && tbl.Find("thead tr").Length() < 2 {
			continue
		}

		scrape.DataRows(tbl).Each(func(_ int, tr *goquery.Selection) {
			cells := flatCells(tr)
			if len(cells) < 3 {
				return
			}
			date := ParseDate(cells[0], year)
			if date == "" {
				return
			}
			numbers := make([]string, 0, len(cells)-2)
			for _, c := range cells[2:] {
				numbers = append(numbers, strings.ReplaceAll(c, ",", ""))
			}
			out = append(out, TeamGame{Date: date, Opponent: cells[1], Numbers: numbers})
		})

		if len(out) > 0 {
			break
		}
	}
	return out
}

// WriteTeamLog writes an aggregated team log CSV. The fixed headers
// repeat column names across stat groups, which rules out the map-based
// master CSV writer.
func WriteTeamLog(path string, columns []string, games []TeamGame) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, g := range games {
		if err := w.Write(g.Row(columns)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
