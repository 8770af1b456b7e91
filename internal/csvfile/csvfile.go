// Package csvfile handles master CSV files: season scrapes accumulate
// into one file per category, keyed by a Year column.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Write rewrites path with the given column order, creating parent
// directories as needed.
func Write(path string, columns []string, rows []map[string]string) error {
	if err := ensureDir(path); err != nil {
		return err
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
	for _, row := range rows {
		if err := w.Write(project(columns, row)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// Append adds rows to a master CSV. When the file already exists, rows
// are aligned to its header: columns the master lacks go to the end,
// columns the rows lack are filled with empty strings. The header is only
// written when the file is created.
func Append(path string, columns []string, rows []map[string]string) error {
	existing, err := Header(path)
	if os.IsNotExist(err) {
		return Write(path, columns, rows)
	}
	if err != nil {
		return err
	}

	aligned := make([]string, len(existing))
	copy(aligned, existing)
	seen := map[string]bool{}
	for _, c := range existing {
		seen[c] = true
	}
	for _, c := range columns {
		if !seen[c] {
			aligned = append(aligned, c)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, row := range rows {
		if err := w.Write(project(aligned, row)); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// Header reads just the header row of a CSV file.
func Header(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	return header, nil
}

// ReadAll loads a CSV file into column order plus one map per row.
func ReadAll(path string) ([]string, []map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	header := records[0]
	var rows []map[string]string
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		// rows written after a later scrape added columns are wider
		// than the header; extra cells are unnamed and dropped
		rows = append(rows, row)
	}
	return header, rows, nil
}

// Years returns the set of season years already present in a master CSV.
// A missing file is an empty set, not an error.
func Years(path string) (map[int]bool, error) {
	header, rows, err := ReadAll(path)
	if os.IsNotExist(err) {
		return map[int]bool{}, nil
	}
	if err != nil {
		return nil, err
	}

	yearCol := ""
	for _, c := range header {
		if c == "Year" || c == "year" {
			yearCol = c
			break
		}
	}
	years := map[int]bool{}
	if yearCol == "" {
		return years, nil
	}
	for _, row := range rows {
		if y, err := strconv.Atoi(row[yearCol]); err == nil {
			years[y] = true
		}
	}
	return years, nil
}

func project(columns []string, row map[string]string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = row[c]
	}
	return out
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
