package gamelog

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/gridiron/internal/csvfile"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

func TestParseDate(t *testing.T) {
	require.Equal(t, "2024-09-07", ParseDate("2024-09-07", 0))
	require.Equal(t, "2024-09-07", ParseDate("Sat 9/7/2024 1:00 PM", 0))
	require.Equal(t, "2012-10-13", ParseDate("10/13/12", 0))
	require.Equal(t, "2024-09-07", ParseDate("Sep 7", 2024))
	require.Equal(t, "2024-09-07", ParseDate("September 7, 2024", 0))
	require.Equal(t, "", ParseDate("Opponent", 2024))
	require.Equal(t, "", ParseDate("", 2024))
}

func TestSplitSite(t *testing.T) {
	site, opp := SplitSite("vs Gannon")
	require.Equal(t, "H", site)
	require.Equal(t, "Gannon", opp)

	site, opp = SplitSite("at Slippery Rock")
	require.Equal(t, "A", site)
	require.Equal(t, "Slippery Rock", opp)

	site, opp = SplitSite("@Edinboro")
	require.Equal(t, "A", site)
	require.Equal(t, "Edinboro", opp)

	site, opp = SplitSite("Gannon")
	require.Equal(t, "", site)
	require.Equal(t, "Gannon", opp)
}

func TestFindScore(t *testing.T) {
	require.Equal(t, "24-17", FindScore("W 24-17 (OT)"))
	require.Equal(t, "24-17", FindScore("24 - 17"))
	require.Equal(t, "", FindScore("no score here"))
}

const resultsPage = `<html><body>
<table>
<tr><th>Date</th><th>Opponent</th><th>Result</th><th>Attendance</th></tr>
<tr><td>9/7/2024</td><td>vs Gannon</td><td>W 24-17</td><td>3,215</td></tr>
<tr><td>9/14/2024</td><td>at Slippery Rock</td><td>L 10-31</td><td>5,400</td></tr>
<tr><td>9/14/2024</td><td>at Slippery Rock</td><td>L 10-31</td><td>5,400</td></tr>
<tr><td>Bye</td><td></td><td></td><td></td></tr>
</table>
</body></html>`

func TestParseResults(t *testing.T) {
	rows := Dedupe(ParseResults(doc(t, resultsPage), 2024))
	require.Len(t, rows, 2, "duplicate and bye rows dropped")

	require.Equal(t, "2024-09-07", rows[0].Date)
	require.Equal(t, "Gannon", rows[0].Opponent)
	require.Equal(t, "H", rows[0].Site)
	require.Equal(t, "W", rows[0].Result)
	require.Equal(t, "24-17", rows[0].Score)
	require.Equal(t, "3215", rows[0].Attendance, "attendance from the header column, commas stripped")

	require.Equal(t, "A", rows[1].Site)
	require.Equal(t, "Slippery Rock", rows[1].Opponent)
	require.Equal(t, "L", rows[1].Result)
}

const resultsListPage = `<html><body>
<ul>
<li>Sep 7 vs Gannon W 24-17</li>
<li>practice schedule</li>
</ul>
</body></html>`

func TestParseResultsListFallback(t *testing.T) {
	rows := ParseResults(doc(t, resultsListPage), 2024)
	require.Len(t, rows, 1)
	require.Equal(t, "2024-09-07", rows[0].Date)
	require.Equal(t, "W", rows[0].Result)
	require.Equal(t, "24-17", rows[0].Score)
}

func TestResultRecordRoundTrip(t *testing.T) {
	r := Result{Date: "2024-09-07", Opponent: "Gannon", Site: "H", Result: "W", Score: "24-17", Duration: "3:05", Attendance: "3215"}
	path := filepath.Join(t.TempDir(), "game_results.csv")

	require.NoError(t, csvfile.Write(path, ResultColumns, []map[string]string{r.Record()}))

	header, rows, err := csvfile.ReadAll(path)
	require.NoError(t, err)
	require.Equal(t, ResultColumns, header)
	require.Equal(t, "3:05", rows[0]["duration"])
}

const teamLogPage = `<html><body>
<section id="gbg_team_offense">
<table>
<thead>
<tr><th colspan="2"></th><th colspan="4">Rushing</th></tr>
<tr><th>Date</th><th>Opponent</th><th>Att</th><th>Yds</th><th>TD</th><th>Long</th></tr>
</thead>
<tbody>
<tr><th>9/7/2024</th><td>Gannon</td><td>38</td><td>1,204</td><td>2</td><td>45</td></tr>
<tr><th>Total</th><td></td><td></td><td></td><td></td><td></td></tr>
</tbody>
</table>
</section>
</body></html>`

func TestParseTeamLog(t *testing.T) {
	games := ParseTeamLog(doc(t, teamLogPage), SectionTeamOffense, 2024)
	require.Len(t, games, 1, "rows without a date dropped")

	g := games[0]
	require.Equal(t, "2024-09-07", g.Date)
	require.Equal(t, "Gannon", g.Opponent)
	require.Equal(t, []string{"38", "1204", "2", "45"}, g.Numbers, "thousands separators stripped")
}

func TestTeamGameRowPadding(t *testing.T) {
	g := TeamGame{Date: "2024-09-07", Opponent: "Gannon", Numbers: []string{"38", "204"}}
	row := g.Row(OffenseColumns)
	require.Len(t, row, len(OffenseColumns))
	require.Equal(t, "38", row[2])
	require.Equal(t, "", row[5])
}

func TestWriteTeamLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game_offense.csv")
	games := []TeamGame{{Date: "2024-09-07", Opponent: "Gannon", Numbers: []string{"38", "204", "2", "45"}}}

	require.NoError(t, WriteTeamLog(path, OffenseColumns, games))

	header, err := csvfile.Header(path)
	require.NoError(t, err)
	require.Equal(t, OffenseColumns, header)
}
