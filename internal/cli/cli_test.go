package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fortuna/gridiron/internal/csvfile"
)

const puntingPage = `<html><body>
<table>
<caption>Individual Punting Statistics</caption>
<thead><tr><th>#</th><th>Player</th><th>GP</th><th>No</th><th>Yds</th><th>Avg</th></tr></thead>
<tbody>
<tr><td>44</td><td>Koch, Sam</td><td>10</td><td>41</td><td>1640</td><td>40.0</td></tr>
<tr><td></td><td>Totals</td><td>10</td><td>41</td><td>1640</td><td>40.0</td></tr>
</tbody>
</table>
</body></html>`

func statsTestServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(page))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestFetchOptionsYears(t *testing.T) {
	opts := fetchOptions{startYear: 2020, endYear: 2022}
	require.Equal(t, []int{2020, 2021, 2022}, opts.years())

	opts.year = 2015
	require.Equal(t, []int{2015}, opts.years())

	opts = fetchOptions{startYear: 2022, endYear: 2020}
	require.Equal(t, []int{2020, 2021, 2022}, opts.years())
}

func TestMergeColumns(t *testing.T) {
	cols := mergeColumns(nil, []string{"No", "Name", "Year"})
	cols = mergeColumns(cols, []string{"No", "Name", "TB", "Year"})
	require.Equal(t, []string{"No", "Name", "Year", "TB"}, cols)
}

func TestFilterYears(t *testing.T) {
	got := filterYears([]int{2020, 2021, 2022}, map[int]bool{2021: true})
	require.Equal(t, []int{2020, 2022}, got)
}

func TestPickColumn(t *testing.T) {
	header := []string{"No", "Name", "year", "TD"}
	require.Equal(t, "Name", pickColumn(header, "Name", "Player"))
	require.Equal(t, "year", pickColumn(header, "Year", "year"))
	require.Equal(t, "", pickColumn(header, "GP"))
}

func TestLookupTD(t *testing.T) {
	tdMap := map[string]string{
		"brown, marcus": "6",
		"marcus brown":  "6",
		"lee, bo":       "2",
		"bo lee":        "2",
	}
	keys := []string{"bo lee", "brown, marcus", "lee, bo", "marcus brown"}

	td, ok := lookupTD(tdMap, keys, "Brown, Marcus")
	require.True(t, ok)
	require.Equal(t, "6", td)

	// page stored the name in First Last order
	td, ok = lookupTD(tdMap, keys, "Bo Lee")
	require.True(t, ok)
	require.Equal(t, "2", td)

	// close misspelling falls through to the fuzzy tier
	td, ok = lookupTD(tdMap, keys, "Browne, Marcus")
	require.True(t, ok)
	require.Equal(t, "6", td)

	_, ok = lookupTD(tdMap, keys, "Zimmerman, Ted")
	require.False(t, ok)
}

func TestFetchCommandWritesCSV(t *testing.T) {
	ts := statsTestServer(t, map[string]string{"/2023": puntingPage})

	out := filepath.Join(t.TempDir(), "punting.csv")
	cmd := newFetchCmd()
	cmd.SetArgs([]string{"punting", "--base-url", ts.URL, "--year", "2023", "--out", out, "--delay", "0s"})
	require.NoError(t, cmd.Execute())

	header, rows, err := csvfile.ReadAll(out)
	require.NoError(t, err)
	require.Contains(t, header, "Name")
	require.Contains(t, header, "Year")
	require.Len(t, rows, 1)
	require.Equal(t, "Koch, Sam", rows[0]["Name"])
	require.Equal(t, "2023", rows[0]["Year"])
}

func TestFetchCommandAppendSkipsExistingYears(t *testing.T) {
	ts := statsTestServer(t, map[string]string{"/2023": puntingPage})

	master := filepath.Join(t.TempDir(), "master punting.csv")
	require.NoError(t, os.WriteFile(master, []byte("#,Name,Year\n44,\"Koch, Sam\",2023\n"), 0o644))

	cmd := newFetchCmd()
	cmd.SetArgs([]string{"punting", "--base-url", ts.URL, "--year", "2023", "--append-to", master, "--delay", "0s"})
	require.NoError(t, cmd.Execute())

	_, rows, err := csvfile.ReadAll(master)
	require.NoError(t, err)
	require.Len(t, rows, 1, "covered year must not be re-appended")
}

func TestResultsCommandWritesCSV(t *testing.T) {
	page := `<html><body><table>
<tr><th>Date</th><th>Opponent</th><th>Score</th></tr>
<tr><td>Sep 7, 2024</td><td>vs Gannon</td><td>W 24-17</td></tr>
</table></body></html>`
	ts := statsTestServer(t, map[string]string{"/2024": page})

	out := filepath.Join(t.TempDir(), "game_results.csv")
	cmd := newResultsCmd()
	cmd.SetArgs([]string{"--base-url", ts.URL, "--year", "2024", "--out", out, "--delay", "0s"})
	require.NoError(t, cmd.Execute())

	_, rows, err := csvfile.ReadAll(out)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Gannon", rows[0]["opponent"])
	require.Equal(t, "H", rows[0]["site"])
	require.Equal(t, "24-17", rows[0]["score"])
}
