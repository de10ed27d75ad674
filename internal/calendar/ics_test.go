package calendar

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/karolakvido/ics-export/internal/event"
)

func sampleEvents(t *testing.T) []*event.Event {
	t.Helper()
	loc, err := event.TimeZone()
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}
	return []*event.Event{
		{
			Title:       "Pirátský poklad",
			Start:       time.Date(2026, 2, 14, 10, 0, 0, 0, loc),
			Location:    "Divadlo U Hasičů, Římská 45, Praha 2",
			Region:      "Praha",
			City:        "Praha",
			Information: "Připravte se na show plnou dobrodružství.",
			DetailURL:   "https://karolakvido.cz/akce_karol_a_kvido/piratsky-poklad-14-unora-2026-praha/",
		},
		{
			Title:     "Zimní pohádka",
			Start:     time.Date(2026, 6, 20, 16, 0, 0, 0, loc),
			Location:  "Litvínov",
			City:      "Litvínov",
			DetailURL: "https://karolakvido.cz/akce_karol_a_kvido/zimni-pohadka-20-cervna-2026-litvinov/",
		},
	}
}

func TestBuild(t *testing.T) {
	events := sampleEvents(t)

	data, err := Build(events)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//karolakvido//calendar-export//CS",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"X-WR-TIMEZONE:Europe/Prague",
		"UID:" + events[0].UID(),
		"DTSTART;TZID=Europe/Prague:20260214T100000",
		"DTSTAMP:20260214T090000Z",
		"SUMMARY:Pirátský poklad",
		"LOCATION:Divadlo U Hasičů\\, Římská 45\\, Praha 2",
		"DESCRIPTION:Připravte se na show plnou dobrodružství.\\n\\nhttps:",
		"END:VEVENT",
		"END:VCALENDAR",
	}

	for _, field := range requiredFields {
		if !strings.Contains(data, field) {
			t.Errorf("calendar missing required field: %s", field)
		}
	}

	if !strings.Contains(data, "\r\n") {
		t.Error("calendar should use \\r\\n line endings")
	}
	if !strings.HasSuffix(data, "END:VCALENDAR\r\n") {
		t.Error("calendar should end with a terminated END:VCALENDAR line")
	}

	if got := strings.Count(data, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("expected 2 BEGIN:VEVENT, got %d", got)
	}
	if got := strings.Count(data, "END:VEVENT"); got != 2 {
		t.Errorf("expected 2 END:VEVENT, got %d", got)
	}
}

func TestBuildSummerTime(t *testing.T) {
	events := sampleEvents(t)

	data, err := Build(events)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	// 16:00 CEST is 14:00 UTC; the local form must stay 16:00
	if !strings.Contains(data, "DTSTART;TZID=Europe/Prague:20260620T160000") {
		t.Error("summer DTSTART should keep the civil local time")
	}
	if !strings.Contains(data, "DTSTAMP:20260620T140000Z") {
		t.Error("summer DTSTAMP should be the start instant in UTC")
	}
}

func TestBuildLocationFallback(t *testing.T) {
	loc, err := event.TimeZone()
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}
	events := []*event.Event{{
		Title:     "Akce bez místa",
		Start:     time.Date(2026, 2, 14, 10, 0, 0, 0, loc),
		DetailURL: "https://karolakvido.cz/akce_karol_a_kvido/bez-mista/",
	}}

	data, err := Build(events)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if !strings.Contains(data, "LOCATION:Neuvedeno") {
		t.Error("missing LOCATION fallback for an event without a venue")
	}
}

func TestBuildDeterministic(t *testing.T) {
	events := sampleEvents(t)

	first, err := Build(events)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	second, err := Build(events)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if first != second {
		t.Error("two serializations of the same events should be byte-identical")
	}
}

func TestBuildEmpty(t *testing.T) {
	data, err := Build(nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if !strings.Contains(data, "BEGIN:VCALENDAR") || !strings.Contains(data, "END:VCALENDAR") {
		t.Error("an empty calendar still needs its wrapper")
	}
	if strings.Contains(data, "BEGIN:VEVENT") {
		t.Error("an empty calendar must not contain events")
	}
	if err := Validate(data, 0); err != nil {
		t.Errorf("empty calendar should validate: %v", err)
	}
}

func TestBuildLineLengths(t *testing.T) {
	events := sampleEvents(t)
	events[0].Information = strings.Repeat("Dlouhý popis akce s diakritikou ěščřžýáíé. ", 10)

	data, err := Build(events)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	for i, line := range strings.Split(data, "\r\n") {
		if n := len([]rune(line)); n > maxLineLen {
			t.Errorf("line %d is %d characters long: %q", i, n, line)
		}
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Prostý text", "Prostý text"},
		{"Čárka, uvnitř", "Čárka\\, uvnitř"},
		{"Středník; uvnitř", "Středník\\; uvnitř"},
		{"Zpětné\\lomítko", "Zpětné\\\\lomítko"},
		{"Nový\nřádek", "Nový\\nřádek"},
		{"Vše, najednou; tady\\\n", "Vše\\, najednou\\; tady\\\\\\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := escapeICS(tt.input); got != tt.expected {
				t.Errorf("escapeICS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFoldLine(t *testing.T) {
	short := "SUMMARY:Krátký řádek"
	if got := foldLine(short); got != short {
		t.Errorf("short lines must not be folded, got %q", got)
	}

	exact := strings.Repeat("x", maxLineLen)
	if got := foldLine(exact); got != exact {
		t.Errorf("a line of exactly %d characters must not be folded", maxLineLen)
	}

	long := "DESCRIPTION:" + strings.Repeat("dlouhý text ", 20)
	folded := foldLine(long)

	for _, line := range strings.Split(folded, "\r\n") {
		if n := len([]rune(line)); n > maxLineLen {
			t.Errorf("folded physical line is %d characters: %q", n, line)
		}
	}

	// unfolding must give the original back
	if unfolded := strings.ReplaceAll(folded, "\r\n ", ""); unfolded != long {
		t.Errorf("unfolding changed the content:\n%q\n%q", unfolded, long)
	}
}

func TestRoundTrip(t *testing.T) {
	events := sampleEvents(t)
	loc, err := event.TimeZone()
	if err != nil {
		t.Fatalf("loading timezone: %v", err)
	}

	data, err := Build(events)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(data))
	if err != nil {
		t.Fatalf("generated calendar does not parse back: %v", err)
	}

	parsed := cal.Events()
	if len(parsed) != len(events) {
		t.Fatalf("expected %d events after the round trip, got %d", len(events), len(parsed))
	}

	for i, evt := range parsed {
		uid := evt.GetProperty(ics.ComponentPropertyUniqueId)
		if uid == nil || uid.Value != events[i].UID() {
			t.Errorf("event %d UID did not survive the round trip", i)
		}

		dtstart := evt.GetProperty(ics.ComponentPropertyDtStart)
		if dtstart == nil {
			t.Fatalf("event %d has no DTSTART", i)
		}
		tzids, ok := dtstart.ICalParameters["TZID"]
		if !ok || len(tzids) != 1 || tzids[0] != "Europe/Prague" {
			t.Errorf("event %d DTSTART TZID = %v, want Europe/Prague", i, tzids)
		}
		start, err := time.ParseInLocation("20060102T150405", dtstart.Value, loc)
		if err != nil {
			t.Fatalf("event %d DTSTART %q does not parse: %v", i, dtstart.Value, err)
		}
		if !start.Equal(events[i].Start) {
			t.Errorf("event %d start = %v, want %v", i, start, events[i].Start)
		}
	}

	// the second event's text fields need no escapes, so they must come
	// back exactly
	summary := parsed[1].GetProperty(ics.ComponentPropertySummary)
	if summary == nil || summary.Value != "Zimní pohádka" {
		t.Errorf("summary did not survive the round trip: %+v", summary)
	}
	location := parsed[1].GetProperty(ics.ComponentPropertyLocation)
	if location == nil || location.Value != "Litvínov" {
		t.Errorf("location did not survive the round trip: %+v", location)
	}

	// folding must be transparent to the reader
	desc := parsed[0].GetProperty(ics.ComponentPropertyDescription)
	if desc == nil || !strings.Contains(desc.Value, "karolakvido.cz") {
		t.Errorf("description lost its URL in the round trip: %+v", desc)
	}
}

func TestValidate(t *testing.T) {
	data, err := Build(sampleEvents(t))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if err := Validate(data, 2); err != nil {
		t.Errorf("a freshly built calendar should validate: %v", err)
	}
	if err := Validate(data, 3); err == nil {
		t.Error("a wrong event count should fail validation")
	}
	if err := Validate("tohle není kalendář", 0); err == nil {
		t.Error("garbage input should fail validation")
	}
}
