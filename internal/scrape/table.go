package scrape

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/gridiron/internal/names"
)

// Table is a normalized stat table ready for CSV or database output.
// Columns fixes the output order; every row maps column name to value.
type Table struct {
	Category string
	Year     int
	Columns  []string
	Rows     []map[string]string
}

// ParseSeason extracts and normalizes the category's table from a season
// stats page.
func ParseSeason(doc *goquery.Document, cat *Category, year int) (*Table, error) {
	tbl, headers, err := FindTable(doc, cat)
	if err != nil {
		return nil, err
	}

	yearCol := cat.YearColumn
	if yearCol == "" {
		yearCol = "Year"
	}

	var t *Table
	if cat.Columns == nil {
		t = parsePassThrough(tbl, headers, cat)
	} else {
		t = parseMapped(tbl, headers, cat)
	}

	t.Category = cat.Name
	t.Year = year
	if cat.YearFirst {
		t.Columns = append([]string{yearCol}, t.Columns...)
	} else {
		t.Columns = append(t.Columns, yearCol)
	}
	for _, row := range t.Rows {
		row[yearCol] = strconv.Itoa(year)
	}

	if cat.Post != nil {
		cat.Post(t)
	}
	return t, nil
}

// parseMapped pulls a fixed output column set out of the table using the
// category's per-column header aliases.
func parseMapped(tbl *goquery.Selection, headers []string, cat *Category) *Table {
	indices := make(map[string]int, len(cat.Columns))
	for _, col := range cat.Columns {
		indices[col.Name] = HeaderIndex(headers, col.Aliases)
	}

	t := &Table{}
	for _, col := range cat.Columns {
		t.Columns = append(t.Columns, col.Name)
	}

	DataRows(tbl).Each(func(_ int, tr *goquery.Selection) {
		cells := RowCells(tr)
		if emptyRow(cells) || headerEcho(cells, cat) {
			return
		}

		row := make(map[string]string, len(cat.Columns)+1)
		for _, col := range cat.Columns {
			i := indices[col.Name]
			if i < 0 || i >= len(cells) {
				row[col.Name] = ""
				continue
			}
			row[col.Name] = strings.TrimSpace(strings.ReplaceAll(cells[i], "\n", " "))
		}

		if cat.NameColumn != "" {
			i := indices[cat.NameColumn]
			raw := ""
			if i >= 0 && i < len(cells) {
				raw = cells[i]
			}
			name := names.Clean(raw)
			if names.IsFiller(name) {
				return
			}
			row[cat.NameColumn] = name
		}
		if cat.JerseyColumn != "" {
			i := indices[cat.JerseyColumn]
			raw := ""
			if i >= 0 && i < len(cells) {
				raw = cells[i]
			}
			row[cat.JerseyColumn] = names.Jersey(raw)
		}

		t.Rows = append(t.Rows, row)
	})
	return t
}

// parsePassThrough keeps the table's own columns, minus bio and link
// columns the site injects next to player names.
func parsePassThrough(tbl *goquery.Selection, headers []string, cat *Category) *Table {
	type kept struct {
		name string
		idx  int
	}
	var cols []kept
	for i, h := range headers {
		h = strings.TrimSpace(h)
		lower := strings.ToLower(h)
		if h == "" || strings.Contains(lower, "bio") || strings.Contains(lower, "link") {
			continue
		}
		cols = append(cols, kept{h, i})
	}

	nameIdx := -1
	for _, c := range cols {
		lower := strings.ToLower(c.name)
		if strings.Contains(lower, "player") || strings.Contains(lower, "name") {
			nameIdx = c.idx
			break
		}
	}
	if nameIdx < 0 && len(cols) >= 2 {
		nameIdx = cols[1].idx
	}

	t := &Table{}
	for _, c := range cols {
		t.Columns = append(t.Columns, c.name)
	}

	DataRows(tbl).Each(func(_ int, tr *goquery.Selection) {
		cells := RowCells(tr)
		if emptyRow(cells) || headerEcho(cells, cat) {
			return
		}

		row := make(map[string]string, len(cols)+1)
		for _, c := range cols {
			if c.idx >= len(cells) {
				row[c.name] = ""
				continue
			}
			val := cells[c.idx]
			if c.idx == nameIdx {
				val = names.Clean(val)
				if names.IsFiller(val) {
					return
				}
			} else {
				val = strings.TrimSpace(strings.ReplaceAll(val, "\n", " "))
			}
			row[c.name] = val
		}
		t.Rows = append(t.Rows, row)
	})
	return t
}

func emptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// headerEcho detects repeated header rows inside a table body.
func headerEcho(cells []string, cat *Category) bool {
	for _, c := range cells {
		k := NormKey(c)
		for _, echo := range cat.EchoSkip {
			if k == NormKey(echo) {
				return true
			}
		}
	}
	return false
}
