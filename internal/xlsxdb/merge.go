package xlsxdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MergedName is the output file Merge writes next to its inputs.
const MergedName = "all_tables.db"

// Merge combines every .db file in dir into dir/all_tables.db. The merge
// aborts, listing the offenders, when two inputs carry the same table
// name. Returns the tables copied.
func Merge(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.db"))
	if err != nil {
		return nil, err
	}

	var inputs []string
	for _, p := range paths {
		if filepath.Base(p) == MergedName {
			continue
		}
		inputs = append(inputs, p)
	}
	sort.Strings(inputs)

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no .db files in %s", dir)
	}

	// first pass: collect table names and refuse duplicates
	owner := map[string]string{}
	var dupes []string
	tablesByFile := map[string][]string{}
	for _, p := range inputs {
		tables, err := listTables(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(p), err)
		}
		tablesByFile[p] = tables
		for _, t := range tables {
			if prev, ok := owner[t]; ok {
				dupes = append(dupes, fmt.Sprintf("%s (%s, %s)", t, filepath.Base(prev), filepath.Base(p)))
				continue
			}
			owner[t] = p
		}
	}
	if len(dupes) > 0 {
		return nil, fmt.Errorf("duplicate table names, merge aborted: %s", strings.Join(dupes, "; "))
	}

	mergedPath := filepath.Join(dir, MergedName)
	if err := os.Remove(mergedPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove stale merge: %w", err)
	}

	out, err := sql.Open("sqlite", mergedPath)
	if err != nil {
		return nil, fmt.Errorf("open merged database: %w", err)
	}
	defer out.Close()
	out.SetMaxOpenConns(1)

	var copied []string
	for _, p := range inputs {
		if _, err := out.Exec(`ATTACH DATABASE ? AS src`, p); err != nil {
			return nil, fmt.Errorf("attach %s: %w", filepath.Base(p), err)
		}
		for _, t := range tablesByFile[p] {
			stmt := fmt.Sprintf(`CREATE TABLE "%s" AS SELECT * FROM src."%s"`, t, t)
			if _, err := out.Exec(stmt); err != nil {
				return nil, fmt.Errorf("copy table %q: %w", t, err)
			}
			copied = append(copied, t)
		}
		if _, err := out.Exec(`DETACH DATABASE src`); err != nil {
			return nil, fmt.Errorf("detach %s: %w", filepath.Base(p), err)
		}
	}

	sort.Strings(copied)
	return copied, nil
}

func listTables(path string) ([]string, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
