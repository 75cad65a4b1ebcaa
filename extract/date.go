package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRe   = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	mdyDateRe   = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4})`)
	bareYearRe  = regexp.MustCompile(`^\s*(\d{4})\s*$`)
	monthNameRe = regexp.MustCompile(`(?i)([a-z]+)\s+(\d{1,2}),?\s+(\d{4})`)
)

var monthNameLayouts = []string{"January 2 2006", "Jan 2 2006"}

// Date normalizes a date mention to YYYY-MM-DD. Accepted shapes: ISO,
// M/D/YYYY (or dashes), a bare 4-digit year (Jan 1), and month-name dates
// with or without a comma. Four-digit years are required throughout; a
// two-digit year is ambiguous and is rejected rather than guessed, so a
// parse can never drift into the wrong century.
func Date(text string) string {
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		if validDate(m[1], m[2], m[3]) {
			return m[0]
		}
		return ""
	}
	if m := mdyDateRe.FindStringSubmatch(text); m != nil {
		year, month, day := m[3], m[1], m[2]
		if validDate(year, month, day) {
			return fmt.Sprintf("%s-%s-%s", year, pad2(month), pad2(day))
		}
		return ""
	}
	if m := bareYearRe.FindStringSubmatch(text); m != nil {
		return m[1] + "-01-01"
	}
	if m := monthNameRe.FindStringSubmatch(text); m != nil {
		candidate := fmt.Sprintf("%s %s %s", capitalize(m[1]), m[2], m[3])
		for _, layout := range monthNameLayouts {
			parsed, err := time.Parse(layout, candidate)
			if err != nil {
				continue
			}
			iso := parsed.Format("2006-01-02")
			// Guard against the parse landing in a different year than the
			// literal the user typed.
			if strings.Contains(iso, m[3]) {
				return iso
			}
		}
		return ""
	}
	return ""
}

func validDate(year, month, day string) bool {
	y, err := strconv.Atoi(year)
	if err != nil {
		return false
	}
	m, err := strconv.Atoi(strings.TrimLeft(month, "0"))
	if err != nil || m < 1 || m > 12 {
		return false
	}
	d, err := strconv.Atoi(strings.TrimLeft(day, "0"))
	if err != nil || d < 1 || d > 31 {
		return false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Year() == y && int(t.Month()) == m && t.Day() == d
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
