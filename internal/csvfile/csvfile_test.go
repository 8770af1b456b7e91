package csvfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteAndReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "rushing.csv")

	cols := []string{"Name", "ATT", "Year"}
	rows := []map[string]string{
		{"Name": "Brown, Marcus", "ATT": "100", "Year": "2021"},
		{"Name": "Lee, Bo", "ATT": "40", "Year": "2021"},
	}
	require.NoError(t, Write(path, cols, rows))

	header, got, err := ReadAll(path)
	require.NoError(t, err)
	require.Equal(t, cols, header)
	require.Len(t, got, 2)
	require.Equal(t, "100", got[0]["ATT"])
}

func TestAppendCreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.csv")

	require.NoError(t, Append(path, []string{"Name", "Year"}, []map[string]string{
		{"Name": "Lee, Bo", "Year": "2020"},
	}))

	header, rows, err := ReadAll(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Name", "Year"}, header)
	require.Len(t, rows, 1)
}

func TestAppendAlignsToExistingHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.csv")

	require.NoError(t, Write(path, []string{"Name", "GP", "Year"}, []map[string]string{
		{"Name": "Lee, Bo", "GP": "10", "Year": "2020"},
	}))

	// new scrape has no GP but adds TD
	require.NoError(t, Append(path, []string{"Name", "TD", "Year"}, []map[string]string{
		{"Name": "Brown, Marcus", "TD": "6", "Year": "2021"},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"Brown, Marcus",,2021,6`, "missing cols blank, new cols appended at end")

	_, rows, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "", rows[1]["GP"])
	require.Equal(t, "2021", rows[1]["Year"])
}

func TestYears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.csv")

	years, err := Years(path)
	require.NoError(t, err)
	require.Empty(t, years)

	require.NoError(t, Write(path, []string{"Name", "Year"}, []map[string]string{
		{"Name": "A", "Year": "2019"},
		{"Name": "B", "Year": "2021"},
		{"Name": "C", "Year": ""},
	}))

	years, err = Years(path)
	require.NoError(t, err)
	require.Equal(t, map[int]bool{2019: true, 2021: true}, years)
}

func TestYearsLowercaseColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receiving.csv")
	require.NoError(t, Write(path, []string{"year", "Name"}, []map[string]string{
		{"year": "2018", "Name": "A"},
	}))

	years, err := Years(path)
	require.NoError(t, err)
	require.True(t, years[2018])
}
