package gamelog

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRe   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	slashDateRe = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4}`)
	monthDayRe  = regexp.MustCompile(`\b\d{1,2}/\d{1,2}\b`)
	textDateRe  = regexp.MustCompile(`(?i)\b(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?\s+(\d{1,2})(?:,\s*(\d{4}))?`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDate finds a date inside free text and returns it as yyyy-mm-dd,
// or "" when nothing parses. Month/day dates without a year take the
// season year.
func ParseDate(text string, defaultYear int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if m := isoDateRe.FindString(text); m != "" {
		if d, err := time.Parse("2006-01-02", m); err == nil {
			return d.Format("2006-01-02")
		}
	}

	if m := slashDateRe.FindString(text); m != "" {
		for _, layout := range []string{"1/2/2006", "1/2/06"} {
			if d, err := time.Parse(layout, m); err == nil {
				return d.Format("2006-01-02")
			}
		}
	} else if m := monthDayRe.FindString(text); m != "" && defaultYear > 0 {
		parts := strings.Split(m, "/")
		mm, err1 := strconv.Atoi(parts[0])
		dd, err2 := strconv.Atoi(parts[1])
		if err1 == nil && err2 == nil && mm >= 1 && mm <= 12 && dd >= 1 && dd <= 31 {
			return time.Date(defaultYear, time.Month(mm), dd, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		}
	}

	if m := textDateRe.FindStringSubmatch(text); m != nil {
		month, ok := monthsByPrefix[strings.ToLower(m[1][:3])]
		if !ok {
			return ""
		}
		day, err := strconv.Atoi(m[2])
		if err != nil || day < 1 || day > 31 {
			return ""
		}
		year := defaultYear
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		if year == 0 {
			return ""
		}
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	}

	return ""
}
