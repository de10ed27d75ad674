package calendar

import (
	"fmt"
	"strings"

	"github.com/karolakvido/ics-export/internal/event"
)

// prodID identifies the generator in exported calendars.
const prodID = "-//karolakvido//calendar-export//CS"

// maxLineLen is the content line length at which output is folded.
const maxLineLen = 75

// Build renders events as an iCalendar document. The output is deterministic:
// the same events always produce byte-identical text, so republishing an
// unchanged calendar produces an unchanged file.
func Build(events []*event.Event) (string, error) {
	loc, err := event.TimeZone()
	if err != nil {
		return "", fmt.Errorf("loading timezone: %w", err)
	}

	var ics strings.Builder

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+prodID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	writeLine(&ics, "X-WR-TIMEZONE:"+event.TimeZoneName)

	for _, evt := range events {
		location := evt.Location
		if location == "" {
			location = event.NoLocation
		}

		writeLine(&ics, "BEGIN:VEVENT")
		writeLine(&ics, foldLine("UID:"+evt.UID()))
		// DTSTAMP derives from the event itself, not the wall clock
		writeLine(&ics, "DTSTAMP:"+evt.Start.UTC().Format("20060102T150405Z"))
		writeLine(&ics, "DTSTART;TZID="+event.TimeZoneName+":"+evt.Start.In(loc).Format("20060102T150405"))
		writeLine(&ics, foldLine("SUMMARY:"+escapeICS(evt.Title)))
		writeLine(&ics, foldLine("LOCATION:"+escapeICS(location)))
		writeLine(&ics, foldLine("DESCRIPTION:"+escapeICS(evt.Description())))
		writeLine(&ics, "END:VEVENT")
	}

	writeLine(&ics, "END:VCALENDAR")
	return ics.String(), nil
}

func writeLine(ics *strings.Builder, line string) {
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

// escapeICS escapes special characters according to RFC 5545
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// foldLine folds a content line longer than maxLineLen, continuing on the
// next line after a single space. Lengths are counted in runes so multi-byte
// Czech characters are never split in half.
func foldLine(line string) string {
	runes := []rune(line)
	if len(runes) <= maxLineLen {
		return line
	}

	var folded strings.Builder
	folded.WriteString(string(runes[:maxLineLen]))
	rest := runes[maxLineLen:]
	for len(rest) > 0 {
		n := maxLineLen - 1
		if n > len(rest) {
			n = len(rest)
		}
		folded.WriteString("\r\n ")
		folded.WriteString(string(rest[:n]))
		rest = rest[n:]
	}
	return folded.String()
}
