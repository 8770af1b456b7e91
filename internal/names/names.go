// Package names cleans player name cells scraped from stats tables.
//
// Sidearm stat tables render a name cell as several stacked fragments
// (jersey number, "Last, First", sometimes the same name twice for the
// mobile layout), so the raw text needs aggressive cleanup before it can
// be used as a key.
package names

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"
)

var (
	lastFirstRe = regexp.MustCompile(`([A-Za-z][A-Za-z'\-\. ]+?,\s*[A-Za-z][A-Za-z'\-\. ]+)`)
	leadDigits  = regexp.MustCompile(`^[\s"']*\d+\s*`)
	jerseyRe    = regexp.MustCompile(`\b(\d{1,3})\b`)
	spacesRe    = regexp.MustCompile(`\s+`)
)

var fillerWords = []string{"total", "totals", "team", "opponent", "opponents", "opp"}

// Clean extracts a human name from a raw table cell.
func Clean(raw string) string {
	raw = strings.ReplaceAll(raw, " ", " ")
	lines := strings.Split(raw, "\n")

	// Prefer the fragment that looks like "Last, First".
	candidate := ""
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, ",") {
			candidate = line
			break
		}
		if candidate == "" && strings.ContainsFunc(line, func(r rune) bool {
			return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
		}) {
			candidate = line
		}
	}

	candidate = leadDigits.ReplaceAllString(candidate, "")
	candidate = strings.Trim(candidate, `"' `)
	candidate = spacesRe.ReplaceAllString(candidate, " ")
	candidate = CollapseDoubled(candidate)

	// When several "Last, First" patterns survive, the last one is the
	// real name (earlier matches come from the duplicated mobile cell).
	if matches := lastFirstRe.FindAllString(candidate, -1); len(matches) > 0 {
		candidate = strings.TrimSpace(matches[len(matches)-1])
	}

	return strings.TrimSpace(candidate)
}

// CollapseDoubled fixes cells where the site repeats the name back to
// back, e.g. "Urena, AdamUrena, Adam" -> "Urena, Adam".
func CollapseDoubled(s string) string {
	for n := len(s) / 2; n >= 3; n-- {
		if len(s) >= 2*n && s[:n] == s[n:2*n] {
			return s[:n] + s[2*n:]
		}
	}
	return s
}

// Jersey returns the first 1-3 digit number found in the cell, or "" if
// the cell has none.
func Jersey(raw string) string {
	if m := jerseyRe.FindString(raw); m != "" {
		if _, err := strconv.Atoi(m); err == nil {
			return m
		}
	}
	return ""
}

// IsFiller reports whether the name belongs to a totals or team row
// rather than a player.
func IsFiller(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return true
	}
	for _, w := range fillerWords {
		if lower == w || strings.HasPrefix(lower, w+" ") || strings.HasSuffix(lower, " "+w) {
			return true
		}
	}
	return false
}

// Normalize lowercases and collapses whitespace so two renderings of the
// same name compare equal.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ".", "")
	return spacesRe.ReplaceAllString(s, " ")
}

// Key reduces a name to a stable lookup key: lowercase, digits and
// punctuation (except comma, hyphen, space) removed, whitespace collapsed.
func Key(s string) string {
	s = strings.NewReplacer(`"`, "", "'", "").Replace(s)
	s = spacesRe.ReplaceAllString(s, " ")
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || r == ',' || r == ' ' || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// SwapComma turns "Last, First" into "First Last". Names without a comma
// come back unchanged.
func SwapComma(s string) string {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return s
	}
	return strings.TrimSpace(parts[1]) + " " + strings.TrimSpace(parts[0])
}

// BestMatch finds the candidate closest to target by Jaro-Winkler
// similarity. It returns false when nothing clears the threshold.
func BestMatch(target string, candidates []string, threshold float64) (string, bool) {
	best := ""
	bestScore := 0.0
	normTarget := Normalize(target)
	for _, c := range candidates {
		score := matchr.JaroWinkler(normTarget, Normalize(c), false)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	if bestScore < threshold {
		return "", false
	}
	return best, true
}
