package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FindTable locates the category's table on a season stats page. Strategies
// are tried in order of reliability: caption text, known section ids,
// heading proximity, then header heuristics across every table.
func FindTable(doc *goquery.Document, cat *Category) (*goquery.Selection, []string, error) {
	if tbl := findByCaption(doc, cat); tbl != nil {
		return tbl, TableHeaders(tbl), nil
	}
	if tbl := findBySection(doc, cat); tbl != nil {
		return tbl, TableHeaders(tbl), nil
	}
	if tbl := findByHeading(doc, cat); tbl != nil {
		return tbl, TableHeaders(tbl), nil
	}
	if tbl := findByHeaders(doc, cat); tbl != nil {
		return tbl, TableHeaders(tbl), nil
	}
	return nil, nil, fmt.Errorf("no %s table found", cat.Name)
}

func findByCaption(doc *goquery.Document, cat *Category) *goquery.Selection {
	if len(cat.CaptionExact) == 0 && len(cat.CaptionWords) == 0 {
		return nil
	}

	var found *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		cap := strings.TrimSpace(tbl.Find("caption").First().Text())
		if cap == "" {
			return true
		}
		for _, exact := range cat.CaptionExact {
			if cap == exact {
				found = tbl
				return false
			}
		}
		if len(cat.CaptionWords) > 0 {
			lower := strings.ToLower(cap)
			all := true
			for _, w := range cat.CaptionWords {
				if !strings.Contains(lower, w) {
					all = false
					break
				}
			}
			if all {
				found = tbl
				return false
			}
		}
		return true
	})
	return found
}

func findBySection(doc *goquery.Document, cat *Category) *goquery.Selection {
	for _, id := range cat.SectionIDs {
		tbl := doc.Find("#" + id + " table").First()
		if tbl.Length() > 0 {
			return tbl
		}
	}
	return nil
}

// findByHeading walks headings and tables in document order and returns
// the first table after a heading mentioning the category.
func findByHeading(doc *goquery.Document, cat *Category) *goquery.Selection {
	if len(cat.Headings) == 0 {
		return nil
	}

	var found *goquery.Selection
	armed := false
	doc.Find("h1, h2, h3, h4, strong, table").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if goquery.NodeName(s) == "table" {
			if armed {
				found = s
				return false
			}
			return true
		}
		text := strings.ToLower(strings.TrimSpace(s.Text()))
		for _, kw := range cat.Headings {
			if strings.Contains(text, kw) {
				armed = true
				break
			}
		}
		return true
	})
	return found
}

func findByHeaders(doc *goquery.Document, cat *Category) *goquery.Selection {
	if len(cat.Require) == 0 && len(cat.RequireAny) == 0 {
		return nil
	}

	var found *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		if headersSatisfy(TableHeaders(tbl), cat) {
			found = tbl
			return false
		}
		return true
	})
	return found
}

func headersSatisfy(headers []string, cat *Category) bool {
	keys := make([]string, 0, len(headers))
	for _, h := range headers {
		if k := NormKey(h); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return false
	}

	for _, ex := range cat.Exclude {
		exk := NormKey(ex)
		for _, k := range keys {
			if strings.Contains(k, exk) {
				return false
			}
		}
	}

	hasKey := func(want string) bool {
		wk := NormKey(want)
		for _, k := range keys {
			if k == wk {
				return true
			}
		}
		return false
	}

	for _, req := range cat.Require {
		if !hasKey(req) {
			return false
		}
	}

	if len(cat.RequireAny) > 0 {
		any := false
		for _, req := range cat.RequireAny {
			wk := NormKey(req)
			for _, k := range keys {
				if k == wk || strings.Contains(k, wk) {
					any = true
					break
				}
			}
			if any {
				break
			}
		}
		if !any {
			return false
		}
	}

	return true
}
