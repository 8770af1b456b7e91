// Package xlsxdb converts spreadsheet workbooks of scraped stats into
// SQLite databases and merges those databases into one file.
package xlsxdb

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
	_ "modernc.org/sqlite"
)

var nonAlnumRe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// SanitizeName makes a string safe to use as a SQLite table or column
// name: whitespace and punctuation become underscores and a leading digit
// gets a prefix.
func SanitizeName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), "_")
	s = nonAlnumRe.ReplaceAllString(s, "_")
	if s == "" {
		return "col"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}

// ImportWorkbook converts one .xlsx file into a sibling .db SQLite file.
// The first sheet becomes a table named after the file, further sheets get
// the sheet name appended. Re-importing replaces the tables. Returns the
// output path and the tables written.
func ImportWorkbook(xlsxPath string) (string, []string, error) {
	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return "", nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	base := SanitizeName(strings.TrimSuffix(filepath.Base(xlsxPath), filepath.Ext(xlsxPath)))
	dbPath := strings.TrimSuffix(xlsxPath, filepath.Ext(xlsxPath)) + ".db"

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return "", nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	var written []string
	for i, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}

		table := base
		if i > 0 {
			table = base + "_" + SanitizeName(sheet)
		}

		if err := writeTable(db, table, rows); err != nil {
			return "", nil, fmt.Errorf("write table %q: %w", table, err)
		}
		written = append(written, table)
	}

	return dbPath, written, nil
}

// writeTable replaces a table with the sheet contents. The first row is
// the header, every value stays TEXT.
func writeTable(db *sql.DB, table string, rows [][]string) error {
	cols := sanitizeColumns(rows[0])

	if _, err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, table)); err != nil {
		return err
	}

	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf(`"%s" TEXT`, c)
	}
	if _, err := db.Exec(fmt.Sprintf(`CREATE TABLE "%s" (%s)`, table, strings.Join(defs, ", "))); err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",")
	insert := fmt.Sprintf(`INSERT INTO "%s" VALUES (%s)`, table, placeholders)

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows[1:] {
		vals := make([]interface{}, len(cols))
		for i := range cols {
			if i < len(row) {
				vals[i] = row[i]
			} else {
				vals[i] = ""
			}
		}
		if _, err := stmt.Exec(vals...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// sanitizeColumns cleans header cells and deduplicates repeats with a
// numeric suffix.
func sanitizeColumns(header []string) []string {
	seen := map[string]int{}
	out := make([]string, len(header))
	for i, h := range header {
		c := SanitizeName(h)
		seen[c]++
		if n := seen[c]; n > 1 {
			c = fmt.Sprintf("%s_%d", c, n)
		}
		out[i] = c
	}
	return out
}
