package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NormKey canonicalizes a header cell for comparison: uppercase, NBSP and
// en-dash folded, whitespace and dots stripped. "Avg/G." and "AVG/G"
// normalize to the same key.
func NormKey(h string) string {
	h = strings.ReplaceAll(h, " ", " ")
	h = strings.ReplaceAll(h, "–", "-")
	h = strings.ToUpper(strings.TrimSpace(h))

	var b strings.Builder
	for _, r := range h {
		switch r {
		case ' ', '\t', '\n', '.':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func alnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// KeysMatch reports whether a wanted column name matches a table header,
// exactly or by substring in either direction.
func KeysMatch(want, header string) bool {
	w := NormKey(want)
	h := NormKey(header)
	if w == "" || h == "" {
		return false
	}
	wa, ha := alnum(w), alnum(h)
	if wa == "" || ha == "" {
		// symbolic headers like "#" only match exactly
		return w == h
	}
	return wa == ha || strings.Contains(ha, wa) || strings.Contains(wa, ha)
}

// HeaderIndex resolves the column index for a list of alias candidates.
// Exact key matches win over substring matches so that "NO" does not land
// on "NO-YDS" when a plain NO column exists. Returns -1 when nothing fits.
func HeaderIndex(headers []string, aliases []string) int {
	for _, a := range aliases {
		ak := NormKey(a)
		for i, h := range headers {
			if NormKey(h) == ak {
				return i
			}
		}
	}
	for _, a := range aliases {
		for i, h := range headers {
			if KeysMatch(a, h) {
				return i
			}
		}
	}
	return -1
}

// TableHeaders extracts the header texts of a stat table. Tables with a
// two-row thead (grouped column banners above the real columns) yield the
// second row.
func TableHeaders(tbl *goquery.Selection) []string {
	var headers []string

	thead := tbl.Find("thead").First()
	if thead.Length() > 0 {
		rows := thead.Find("tr")
		cells := thead.Find("th, td")
		if rows.Length() >= 2 {
			cells = rows.Eq(1).Find("th, td")
		}
		cells.Each(func(_ int, c *goquery.Selection) {
			headers = append(headers, strings.TrimSpace(c.Text()))
		})
		return headers
	}

	first := tbl.Find("tr").First()
	first.Find("th, td").Each(func(_ int, c *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(c.Text()))
	})
	return headers
}

// HeaderRowCount counts the leading rows of a table made entirely of th
// cells. Team game-by-game tables carry two.
func HeaderRowCount(tbl *goquery.Selection) int {
	count := 0
	stop := false
	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if stop {
			return
		}
		if tr.Find("th").Length() > 0 && tr.Find("td").Length() == 0 {
			count++
			return
		}
		stop = true
	})
	return count
}

// DataRows returns the data rows of a table: tbody rows when a tbody
// exists, otherwise every row after the header.
func DataRows(tbl *goquery.Selection) *goquery.Selection {
	tbody := tbl.Find("tbody").First()
	if tbody.Length() > 0 {
		return tbody.Find("tr")
	}
	return tbl.Find("tr").Slice(1, goquery.ToEnd)
}

// CellText flattens a table cell into newline-separated fragments. Name
// cells stack the jersey number and one or more copies of the name in
// child elements, and the caller needs those boundaries preserved.
func CellText(cell *goquery.Selection) string {
	var parts []string
	cell.Contents().Each(func(_ int, n *goquery.Selection) {
		t := strings.TrimSpace(n.Text())
		if t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return strings.TrimSpace(cell.Text())
	}
	return strings.Join(parts, "\n")
}

// RowCells extracts every cell of a row via CellText.
func RowCells(tr *goquery.Selection) []string {
	var cells []string
	tr.Find("td, th").Each(func(_ int, c *goquery.Selection) {
		cells = append(cells, CellText(c))
	})
	return cells
}
