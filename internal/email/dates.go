package email

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// monthNames maps French and English month words to months. French entries
// carry accent-less doubles because recruiters type both.
var monthNames = map[string]time.Month{
	"janvier": time.January, "février": time.February, "fevrier": time.February,
	"mars": time.March, "avril": time.April, "mai": time.May, "juin": time.June,
	"juillet": time.July, "août": time.August, "aout": time.August,
	"septembre": time.September, "octobre": time.October,
	"novembre": time.November, "décembre": time.December, "decembre": time.December,

	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

// The trailing \b after the day keeps a bare "mars 2026" from reading as
// day 20; RE2 has no lookahead, so the boundary does that job.
var (
	isoDatePattern     = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	dayMonthPattern    = regexp.MustCompile(`\b(\d{1,2})(?:er|st|nd|rd|th)?\s+(\p{L}+)(?:\s+(\d{4})\b)?`)
	monthDayPattern    = regexp.MustCompile(`\b(\p{L}+)\s+(\d{1,2})(?:st|nd|rd|th|er)?\b(?:,?\s*(\d{4})\b)?`)
	numericDatePattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
)

// ExtractInterviewDate finds the first plausible calendar date in text.
// Supported forms: ISO (2026-03-12), day then month name ("le 12 mars",
// "3rd February 2027"), month name then day ("March 12, 2026"), and
// numeric day/month ("12/03", "12/03/2026"). A missing year resolves to
// the next occurrence on or after ref.
func ExtractInterviewDate(text string, ref time.Time) *time.Time {
	lower := strings.ToLower(text)

	for _, m := range isoDatePattern.FindAllStringSubmatch(lower, -1) {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if d, ok := buildDate(day, time.Month(month), year, ref); ok {
			return d
		}
	}

	for _, m := range dayMonthPattern.FindAllStringSubmatch(lower, -1) {
		month, ok := monthNames[m[2]]
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		year := 0
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		if d, ok := buildDate(day, month, year, ref); ok {
			return d
		}
	}

	for _, m := range monthDayPattern.FindAllStringSubmatch(lower, -1) {
		month, ok := monthNames[m[1]]
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[2])
		year := 0
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		if d, ok := buildDate(day, month, year, ref); ok {
			return d
		}
	}

	for _, m := range numericDatePattern.FindAllStringSubmatch(lower, -1) {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			continue
		}
		year := 0
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		if d, ok := buildDate(day, time.Month(month), year, ref); ok {
			return d
		}
	}

	return nil
}

// buildDate validates the day against the month and resolves a zero year to
// the next occurrence on or after ref's date.
func buildDate(day int, month time.Month, year int, ref time.Time) (*time.Time, bool) {
	if day < 1 || day > 31 || month < time.January || month > time.December {
		return nil, false
	}

	if year == 0 {
		year = ref.Year()
		refDate := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
		if time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Before(refDate) {
			year++
		}
	}

	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Month() != month || d.Day() != day {
		// time.Date normalizes overflow, e.g. 31 February into March
		return nil, false
	}
	return &d, true
}
