package scrape

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// Column maps one output column to the header spellings it may appear
// under on the site.
type Column struct {
	Name    string
	Aliases []string
}

// Category describes how to locate and normalize one statistics table on
// a season stats page.
type Category struct {
	Name  string // CLI name, e.g. "rushing"
	Title string // display label

	// Table discovery, tried in order: caption, section id, heading
	// proximity, then header heuristics.
	CaptionExact []string
	CaptionWords []string
	SectionIDs   []string
	Headings     []string
	Require      []string
	RequireAny   []string
	Exclude      []string

	// Columns is nil for pass-through categories that keep whatever
	// columns the table has.
	Columns []Column

	JerseyColumn string
	NameColumn   string
	YearColumn   string // defaults to "Year"
	YearFirst    bool

	// EchoSkip lists normalized cell values that mark a repeated header
	// row inside the table body.
	EchoSkip []string

	// Rendered marks pages whose table only exists after JS runs.
	Rendered bool

	Post func(*Table)
}

var jerseyAliases = []string{"#", "NO", "NUMBER"}
var nameAliases = []string{"NAME", "PLAYER", "PLAYER NAME"}

var intRe = regexp.MustCompile(`-?\d+`)

func firstInt(s string) string {
	return intRe.FindString(s)
}

// categories is the registry of everything the scraper knows how to pull
// from a season stats page.
var categories = []*Category{
	{
		Name:         "passing",
		Title:        "Individual Passing",
		Headings:     []string{"passing"},
		CaptionWords: []string{"passing"},
		Require:      []string{"ATT", "YDS"},
		NameColumn:   "Name",
	},
	{
		Name:         "rushing",
		Title:        "Individual Rushing",
		CaptionWords: []string{"rushing"},
		SectionIDs:   []string{"individual-offense-rushing"},
		Headings:     []string{"rushing"},
		Require:      []string{"ATT", "YDS"},
		Columns: []Column{
			{"No", jerseyAliases},
			{"Name", nameAliases},
			{"GP", []string{"GP", "G", "GAMES", "GAMES PLAYED"}},
			{"ATT", []string{"ATT", "CAR", "RUSHES", "ATTEMPTS", "RSH"}},
			{"Net", []string{"NET", "YDS", "YARDS", "NET YDS", "RUSH YARDS", "RUSHING YARDS"}},
			{"avg", []string{"AVG", "AVG/RUSH", "YDS/ATT"}},
			{"TD", []string{"TD", "TOUCHDOWNS"}},
			{"Long", []string{"LONG", "LNG", "LONGEST"}},
			{"AVG/G", []string{"AVG/G", "YDS/G", "AVG/GM", "AVG/GAME"}},
		},
		JerseyColumn: "No",
		NameColumn:   "Name",
		EchoSkip:     []string{"PLAYER", "RUSHING"},
		Post:         fillRushingAverages,
	},
	{
		Name:         "receiving",
		Title:        "Individual Receiving",
		CaptionWords: []string{"receiving"},
		Headings:     []string{"receiving"},
		Require:      []string{"NO", "YDS"},
		Columns: []Column{
			{"#", jerseyAliases},
			{"Name", nameAliases},
			{"GP", []string{"GP", "G"}},
			{"NO", []string{"NO", "REC", "REC."}},
			{"yds", []string{"YDS", "YDS."}},
			{"avg", []string{"AVG"}},
			{"td", []string{"TD"}},
			{"long", []string{"LONG", "LG"}},
			{"AVG/G", []string{"AVG/G", "AVG/G."}},
		},
		JerseyColumn: "#",
		NameColumn:   "Name",
		YearColumn:   "year",
		YearFirst:    true,
		EchoSkip:     []string{"PLAYER", "RECEIVING"},
	},
	{
		Name:         "scoring",
		Title:        "Individual Scoring",
		CaptionWords: []string{"scoring"},
		Headings:     []string{"scoring"},
		Require:      []string{"PTS"},
		Columns: []Column{
			{"#", jerseyAliases},
			{"Name", nameAliases},
			{"TD", []string{"TD"}},
			{"FG", []string{"FG"}},
			{"SAF", []string{"SAF"}},
			{"KICK", []string{"KICK"}},
			{"RUSH", []string{"RUSH"}},
			{"RCV", []string{"RCV"}},
			{"PASS", []string{"PASS"}},
			{"DXP", []string{"DXP"}},
			{"PTS", []string{"PTS"}},
		},
		JerseyColumn: "#",
		NameColumn:   "Name",
		EchoSkip:     []string{"PLAYER", "SCORING"},
		Post:         cleanScoringStats,
	},
	{
		Name:       "defense",
		Title:      "Individual Defense",
		SectionIDs: []string{"individual-defense"},
		Headings:   []string{"defense"},
		RequireAny: []string{"SOLO", "ASST", "TFL", "SACKS", "BU"},
		Columns: []Column{
			{"#", jerseyAliases},
			{"Name", nameAliases},
			{"GP", []string{"GP", "G"}},
			{"NO", []string{"NO"}},
			{"SOLO", []string{"SOLO"}},
			{"ASST", []string{"ASST", "AST"}},
			{"TOT", []string{"TOT", "TOTAL"}},
			{"TFL-YDS", []string{"TFL-YDS", "TFL/YDS", "TFL"}},
			{"SACKS-YDS", []string{"SACKS-YDS", "SACKS/YDS", "SACKS", "SACK"}},
			{"INT", []string{"INT"}},
			{"BU", []string{"BU"}},
			{"QBH", []string{"QBH"}},
			{"FR", []string{"FR"}},
			{"FF", []string{"FF"}},
			{"KICK", []string{"KICK"}},
			{"SAF", []string{"SAF"}},
		},
		JerseyColumn: "#",
		NameColumn:   "Name",
		EchoSkip:     []string{"PLAYER", "DEFENSE"},
		Rendered:     true,
	},
	{
		Name:         "punting",
		Title:        "Individual Punting",
		CaptionExact: []string{"Individual Punting Statistics"},
		CaptionWords: []string{"punting"},
		Headings:     []string{"punting"},
		Require:      []string{"NO", "YDS"},
		Columns: []Column{
			{"#", jerseyAliases},
			{"Name", nameAliases},
			{"GP", []string{"GP", "G", "GAMES", "GAMES PLAYED"}},
			{"NO", []string{"NO"}},
			{"YDS", []string{"YDS"}},
			{"AVG", []string{"AVG"}},
			{"Long", []string{"LONG"}},
			{"TB", []string{"TB"}},
			{"I20", []string{"I20"}},
			{"50+", []string{"50+"}},
			{"BLK", []string{"BLK", "BLKD"}},
		},
		JerseyColumn: "#",
		NameColumn:   "Name",
		EchoSkip:     []string{"PLAYER", "PUNT"},
	},
	{
		Name:         "kickoffs",
		Title:        "Kickoffs",
		CaptionWords: []string{"kick"},
		Headings:     []string{"kickoff"},
		Require:      []string{"NO", "YDS"},
		RequireAny:   []string{"TB", "OB", "OUT", "OUT-OF-BOUNDS"},
		Exclude:      []string{"REC"},
		Columns: []Column{
			{"#", jerseyAliases},
			{"Name", nameAliases},
			{"NO", []string{"NO"}},
			{"YDS", []string{"YDS"}},
			{"AVG", []string{"AVG"}},
			{"TB", []string{"TB"}},
			{"OB", []string{"OB", "O.B.", "OUT", "OUT-OF-BOUNDS"}},
		},
		JerseyColumn: "#",
		NameColumn:   "Name",
		EchoSkip:     []string{"PLAYER", "KICKOFF"},
	},
	{
		Name:         "kickoff-returns",
		Title:        "Kickoff Returns",
		CaptionWords: []string{"kickoff", "return"},
		Headings:     []string{"kickoff return"},
		Require:      []string{"NO", "YDS", "AVG", "TD"},
		Exclude:      []string{"REC"},
		Columns: []Column{
			{"Name", nameAliases},
			{"NO", []string{"NO"}},
			{"YDS", []string{"YDS"}},
			{"AVG", []string{"AVG"}},
			{"TD", []string{"TD"}},
			{"Long", []string{"LONG", "LG"}},
		},
		NameColumn: "Name",
		EchoSkip:   []string{"PLAYER", "KICKOFF"},
	},
	{
		Name:  "field-goals",
		Title: "Field Goals",
		CaptionExact: []string{
			"Individual Field Goal Statistics",
			"Individual Field-Goal Statistics",
			"Field Goal Statistics",
		},
		Headings:   []string{"field goal"},
		RequireAny: []string{"FGM", "FGM-FGA", "FGA", "20-29"},
		Columns: []Column{
			{"#", jerseyAliases},
			{"Name", nameAliases},
			{"FGM-FGA", []string{"FGM-FGA", "FGM/FGA", "FGM"}},
			{"%", []string{"%", "PCT"}},
			{"I20", []string{"I20"}},
			{"20-29", []string{"20-29"}},
			{"30-39", []string{"30-39"}},
			{"40-49", []string{"40-49"}},
			{"50+", []string{"50+"}},
			{"Long", []string{"LONG", "LG"}},
			{"BLK", []string{"BLK", "BLKD"}},
		},
		JerseyColumn: "#",
		NameColumn:   "Name",
		EchoSkip:     []string{"PLAYER", "FIELD GOAL"},
	},
}

// Lookup finds a category by its CLI name.
func Lookup(name string) (*Category, error) {
	for _, c := range categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown category %q (have: %v)", name, CategoryNames())
}

// CategoryNames returns every registered category name, sorted.
func CategoryNames() []string {
	var out []string
	for _, c := range categories {
		out = append(out, c.Name)
	}
	sort.Strings(out)
	return out
}

// fillRushingAverages computes avg (yards per carry) and AVG/G (yards per
// game) when the scraped table had no such columns.
func fillRushingAverages(t *Table) {
	for _, row := range t.Rows {
		net, netErr := strconv.ParseFloat(row["Net"], 64)
		if row["avg"] == "" && netErr == nil {
			if att, err := strconv.ParseFloat(row["ATT"], 64); err == nil && att > 0 {
				row["avg"] = strconv.FormatFloat(round1(net/att), 'f', -1, 64)
			}
		}
		if row["AVG/G"] == "" && netErr == nil {
			if gp, err := strconv.ParseFloat(row["GP"], 64); err == nil && gp > 0 {
				row["AVG/G"] = strconv.FormatFloat(round1(net/gp), 'f', -1, 64)
			}
		}
	}
}

func round1(f float64) float64 {
	if f < 0 {
		return float64(int(f*10-0.5)) / 10
	}
	return float64(int(f*10+0.5)) / 10
}

// cleanScoringStats strips scoring cells down to their first integer.
// Some seasons render footnote markers or dashes inside the stat cells.
func cleanScoringStats(t *Table) {
	statCols := []string{"TD", "FG", "SAF", "KICK", "RUSH", "RCV", "PASS", "DXP", "PTS"}
	for _, row := range t.Rows {
		for _, c := range statCols {
			row[c] = firstInt(row[c])
		}
	}
}
