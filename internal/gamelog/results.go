// Package gamelog extracts per-game rows from a season stats page: the
// game results list plus the team game-by-game offense and defense logs.
package gamelog

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ResultColumns is the header of the game results CSV.
var ResultColumns = []string{"date", "opponent", "site", "result", "score", "duration", "attendance"}

// Result is one parsed game row.
type Result struct {
	Date       string // ISO yyyy-mm-dd
	Opponent   string
	Site       string // H, A or ""
	Result     string // W, L, T or ""
	Score      string // "24-17"
	Duration   string // "3:05"
	Attendance string
}

// Record converts a Result to a CSV row map.
func (r Result) Record() map[string]string {
	return map[string]string{
		"date":       r.Date,
		"opponent":   r.Opponent,
		"site":       r.Site,
		"result":     r.Result,
		"score":      r.Score,
		"duration":   r.Duration,
		"attendance": r.Attendance,
	}
}

var (
	scoreRe      = regexp.MustCompile(`(\d{1,3})\s*-\s*(\d{1,3})`)
	wltRe        = regexp.MustCompile(`\b(W|L|T)\b`)
	durationRe   = regexp.MustCompile(`\b(\d+:\d{2})\b`)
	attendanceRe = regexp.MustCompile(`([0-9][0-9,]{2,})`)
	letterRe     = regexp.MustCompile(`[A-Za-z]`)
	leadDigitRe  = regexp.MustCompile(`^\s*\d`)
	hurstRe      = regexp.MustCompile(`(?i)mercyhurst`)
)

var teamAliases = []string{"mercyhurst", "mercyhurst university", "mercyhurst lakers", "hurstathletics"}

func isTeamName(s string) bool {
	low := strings.ToLower(s)
	for _, a := range teamAliases {
		if strings.Contains(low, a) {
			return true
		}
	}
	return false
}

// FindScore extracts the first "NN-NN" score from free text.
func FindScore(text string) string {
	if m := scoreRe.FindStringSubmatch(text); m != nil {
		return m[1] + "-" + m[2]
	}
	return ""
}

// SplitSite separates a site marker from the opponent text. "vs X" is a
// home game, "at X" and "@X" are away games.
func SplitSite(opponent string) (site, clean string) {
	s := strings.TrimSpace(opponent)
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "vs "):
		return "H", strings.TrimSpace(s[3:])
	case strings.HasPrefix(lower, "at "):
		return "A", strings.TrimSpace(s[3:])
	case strings.HasPrefix(s, "@"):
		return "A", strings.TrimSpace(s[1:])
	}
	if strings.Contains(lower, " vs ") {
		parts := strings.SplitN(s, "vs", 2)
		return "H", strings.TrimSpace(parts[1])
	}
	if strings.Contains(lower, " at ") || strings.Contains(lower, " @ ") {
		parts := regexp.MustCompile(`(?i) at | @ `).Split(s, -1)
		return "A", strings.TrimSpace(parts[len(parts)-1])
	}
	return "", s
}

// ParseResults scans every table on the page for rows that look like
// games: a parseable date plus either a score or a W/L/T marker.
func ParseResults(doc *goquery.Document, year int) []Result {
	var out []Result

	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		var headerCells []string

		tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			ths := tr.Find("th")
			if ths.Length() > 0 && len(headerCells) == 0 && tr.Find("td").Length() == 0 {
				ths.Each(func(_ int, c *goquery.Selection) {
					headerCells = append(headerCells, strings.ToLower(strings.TrimSpace(c.Text())))
				})
				return
			}

			cells := flatCells(tr)
			if len(cells) == 0 {
				return
			}

			r, ok := resultFromCells(cells, headerCells, year)
			if ok {
				out = append(out, r)
			}
		})
	})

	// schedule pages without tables render games as list items
	if len(out) == 0 {
		doc.Find("li").Each(func(_ int, li *goquery.Selection) {
			text := strings.Join(strings.Fields(li.Text()), " ")
			date := ParseDate(text, year)
			if date == "" {
				return
			}
			r := Result{
				Date:     date,
				Score:    FindScore(text),
				Duration: durationRe.FindString(text),
			}
			if m := wltRe.FindStringSubmatch(text); m != nil {
				r.Result = m[1]
			}
			if m := attendanceRe.FindString(strings.ReplaceAll(text, " ", " ")); m != "" {
				r.Attendance = strings.ReplaceAll(m, ",", "")
			}
			r.Site, r.Opponent = SplitSite(text)
			if letterRe.MatchString(r.Opponent) && (r.Score != "" || r.Result != "") {
				out = append(out, r)
			}
		})
	}

	return out
}

func resultFromCells(cells []string, headerCells []string, year int) (Result, bool) {
	var r Result

	for _, c := range firstN(cells, 3) {
		if d := ParseDate(c, year); d != "" {
			r.Date = d
			break
		}
	}
	if r.Date == "" {
		return r, false
	}

	opponent := pickOpponent(cells)
	rowText := strings.Join(cells, " ")

	r.Score = FindScore(rowText)
	if m := wltRe.FindStringSubmatch(rowText); m != nil {
		r.Result = m[1]
	}
	r.Duration = durationRe.FindString(rowText)

	// attendance: a dedicated header column wins over the trailing
	// numeric-cell guess
	for i, h := range headerCells {
		if strings.Contains(h, "attend") || h == "att" {
			if i < len(cells) {
				r.Attendance = strings.ReplaceAll(cells[i], ",", "")
			}
			break
		}
	}
	if r.Attendance == "" {
		for i := len(cells) - 1; i >= 0; i-- {
			c := strings.ReplaceAll(cells[i], " ", " ")
			if m := attendanceRe.FindString(c); m != "" {
				r.Attendance = strings.ReplaceAll(m, ",", "")
				break
			}
		}
	}

	r.Site, r.Opponent = SplitSite(opponent)
	if isTeamName(r.Opponent) {
		if alt := pickOpponent(cells[1:]); alt != "" && !isTeamName(alt) {
			r.Site, r.Opponent = SplitSite(alt)
		}
	}
	r.Opponent = strings.Trim(hurstRe.ReplaceAllString(r.Opponent, ""), " -:,")

	if !letterRe.MatchString(r.Opponent) || (r.Score == "" && r.Result == "") {
		return r, false
	}
	return r, true
}

// pickOpponent chooses the first nearby cell with letters that is not a
// bare number and not our own team name.
func pickOpponent(cells []string) string {
	limit := 6
	if len(cells) < limit {
		limit = len(cells)
	}
	for _, c := range cells[min(1, len(cells)):limit] {
		if c == "" || isTeamName(c) {
			continue
		}
		if letterRe.MatchString(c) && !leadDigitRe.MatchString(c) {
			return c
		}
	}
	if len(cells) >= 2 {
		return cells[1]
	}
	return ""
}

// Dedupe drops repeated games (same date, opponent and score) and sorts
// by date.
func Dedupe(rows []Result) []Result {
	seen := map[[3]string]bool{}
	var out []Result
	for _, r := range rows {
		key := [3]string{r.Date, r.Opponent, r.Score}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func flatCells(tr *goquery.Selection) []string {
	var cells []string
	tr.Find("td, th").Each(func(_ int, c *goquery.Selection) {
		cells = append(cells, strings.Join(strings.Fields(c.Text()), " "))
	})
	return cells
}

func firstN(cells []string, n int) []string {
	if len(cells) < n {
		return cells
	}
	return cells[:n]
}
