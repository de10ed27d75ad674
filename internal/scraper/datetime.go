package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/karolakvido/ics-export/internal/event"
)

// czechMonths maps accent-folded genitive month names to their month. The
// site writes dates the way people say them, "14. února 2026 v 10:00 hodin".
var czechMonths = map[string]time.Month{
	"ledna":     time.January,
	"unora":     time.February,
	"brezna":    time.March,
	"dubna":     time.April,
	"kvetna":    time.May,
	"cervna":    time.June,
	"cervence":  time.July,
	"srpna":     time.August,
	"zari":      time.September,
	"rijna":     time.October,
	"listopadu": time.November,
	"prosince":  time.December,
}

var (
	// "14. února 2026 v 10:00 hodin", "1. září 2026, 17 hodin"
	dateTimeRe = regexp.MustCompile(`(?i)(\d{1,2})\.\s*([A-Za-zÁ-ž]+)\s*(\d{4})\s*,?\s*(?:(?:v|ve)\s*)?(\d{1,2})(?::(\d{2}))?(?:\s*hodin)?`)

	// "14. února v 10:00", with the year stated elsewhere on the page
	dateTimeNoYearRe = regexp.MustCompile(`(?i)(\d{1,2})\.\s*([A-Za-zÁ-ž]+)\s*,?\s*(?:(?:v|ve)\s*)?(\d{1,2})(?::(\d{2}))?(?:\s*hodin)?`)

	yearRe = regexp.MustCompile(`\b(20\d{2})\b`)

	// "7.3.2026", possibly followed by a clock time such as "od 15:30"
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(20\d{2})\b`)
	clockRe       = regexp.MustCompile(`\b(\d{1,2})[.:](\d{2})\b`)
)

// numericTimeWindow is how far past a numeric date a clock time may trail.
const numericTimeWindow = 48

// findDateTime returns the first date with an explicit year in text that
// names a real calendar day.
func findDateTime(text string) (time.Time, bool) {
	for _, m := range dateTimeRe.FindAllStringSubmatch(text, -1) {
		month, ok := monthByName(m[2])
		if !ok {
			continue
		}
		t, err := makeDateTime(toInt(m[3]), month, toInt(m[1]), toInt(m[4]), optMinute(m[5]))
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// findDateTimeInYear is findDateTime for texts that omit the year.
func findDateTimeInYear(text string, year int) (time.Time, bool) {
	for _, m := range dateTimeNoYearRe.FindAllStringSubmatch(text, -1) {
		month, ok := monthByName(m[2])
		if !ok {
			continue
		}
		t, err := makeDateTime(year, month, toInt(m[1]), toInt(m[3]), optMinute(m[4]))
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// findYear returns the first plausible event year mentioned in text.
func findYear(text string) (int, bool) {
	m := yearRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return toInt(m[1]), true
}

// findNumericDateTime handles "7.3.2026" style dates. A clock time is taken
// from the text shortly after the date when one is present; without one the
// event starts at midnight.
func findNumericDateTime(text string) (time.Time, bool) {
	for _, idx := range numericDateRe.FindAllStringSubmatchIndex(text, -1) {
		day := toInt(text[idx[2]:idx[3]])
		month := time.Month(toInt(text[idx[4]:idx[5]]))
		year := toInt(text[idx[6]:idx[7]])

		hour, minute := 0, 0
		window := text[idx[1]:]
		if len(window) > numericTimeWindow {
			window = window[:numericTimeWindow]
		}
		if m := clockRe.FindStringSubmatch(window); m != nil {
			hour, minute = toInt(m[1]), toInt(m[2])
		}

		t, err := makeDateTime(year, month, day, hour, minute)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// makeDateTime builds a Prague-local instant, rejecting values the calendar
// does not contain so callers can move on to their next candidate.
func makeDateTime(year int, month time.Month, day, hour, minute int) (time.Time, error) {
	if hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid time %d:%02d", hour, minute)
	}
	loc, err := event.TimeZone()
	if err != nil {
		return time.Time{}, err
	}
	t := time.Date(year, month, day, hour, minute, 0, 0, loc)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid calendar day %d.%d.%d", day, int(month), year)
	}
	return t, nil
}

func monthByName(name string) (time.Month, bool) {
	month, ok := czechMonths[strings.ToLower(event.FoldDiacritics(name))]
	return month, ok
}

// toInt converts regex digit captures, which are always plain ASCII digits.
func toInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func optMinute(s string) int {
	if s == "" {
		return 0
	}
	return toInt(s)
}
