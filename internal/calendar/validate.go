package calendar

import (
	"fmt"
	"strings"

	ics "github.com/arran4/golang-ical"
)

// Validate re-reads an iCalendar document with an independent parser and
// checks that it carries the expected number of events. It guards the export
// path: a calendar that does not survive a round trip is never published.
func Validate(data string, wantEvents int) error {
	cal, err := ics.ParseCalendar(strings.NewReader(data))
	if err != nil {
		return fmt.Errorf("generated calendar does not parse: %w", err)
	}

	if got := len(cal.Events()); got != wantEvents {
		return fmt.Errorf("generated calendar has %d events, want %d", got, wantEvents)
	}

	for _, evt := range cal.Events() {
		for _, prop := range []ics.ComponentProperty{ics.ComponentPropertyUniqueId, ics.ComponentPropertyDtStart, ics.ComponentPropertySummary} {
			if evt.GetProperty(prop) == nil {
				return fmt.Errorf("generated event is missing %s", prop)
			}
		}
	}
	return nil
}
