package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/gridiron/internal/names"
)

var lastFirstLoose = regexp.MustCompile(`([A-Za-z\-]+,\s*[A-Za-z\-\s]+)`)

// ParseRushingTouchdowns builds a map from normalized player name to the
// TD value on a season stats page. Each player is keyed twice, as
// "last, first" and "first last", so callers can match either rendering.
//
// The rushing TD column in older seasons is unreliable when read by
// position, but the site tags cells with data-label attributes that
// survive layout changes.
func ParseRushingTouchdowns(doc *goquery.Document) map[string]string {
	out := map[string]string{}

	// First try a straight header-mapped table with Name, ATT and TD.
	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		headers := TableHeaders(tbl)
		nameIdx := HeaderIndex(headers, nameAliases)
		attIdx := HeaderIndex(headers, []string{"ATT"})
		tdIdx := -1
		for i, h := range headers {
			if NormKey(h) == "TD" {
				tdIdx = i
				break
			}
		}
		if nameIdx < 0 || attIdx < 0 || tdIdx < 0 {
			return true
		}

		DataRows(tbl).Each(func(_ int, tr *goquery.Selection) {
			cells := RowCells(tr)
			if tdIdx >= len(cells) || nameIdx >= len(cells) {
				return
			}
			name := names.Clean(cells[nameIdx])
			if names.IsFiller(name) {
				return
			}
			addTD(out, name, strings.TrimSpace(cells[tdIdx]))
		})
		return len(out) == 0
	})
	if len(out) > 0 {
		return out
	}

	// Fallback: rows where the name sits in a th and the TD cell carries
	// a data-label attribute.
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		tdCell := tr.Find(`td[data-label]`).FilterFunction(func(_ int, c *goquery.Selection) bool {
			label, _ := c.Attr("data-label")
			return strings.EqualFold(label, "td")
		}).First()
		if tdCell.Length() == 0 {
			return
		}

		raw := ""
		if th := tr.Find("th").First(); th.Length() > 0 {
			raw = CellText(th)
		} else if td := tr.Find("td").First(); td.Length() > 0 {
			raw = CellText(td)
		}
		if raw == "" {
			return
		}

		name := raw
		if m := lastFirstLoose.FindString(raw); m != "" {
			name = m
		}
		name = strings.TrimSpace(name)
		lower := strings.ToLower(name)
		if names.IsFiller(name) ||
			strings.Contains(lower, "rushing") ||
			strings.Contains(lower, "passing") ||
			strings.Contains(lower, "scoring") ||
			strings.Contains(lower, "statistic") {
			return
		}

		addTD(out, name, strings.TrimSpace(tdCell.Text()))
	})

	return out
}

func addTD(out map[string]string, name, td string) {
	out[names.Key(name)] = td
	out[names.Key(names.SwapComma(name))] = td
}
