package event

import (
	"strings"
	"testing"
	"time"
)

func TestUID(t *testing.T) {
	evt := &Event{DetailURL: "https://karolakvido.cz/akce_karol_a_kvido/piratsky-poklad-14-unora-2026-praha/"}

	uid1 := evt.UID()
	uid2 := evt.UID()

	if uid1 != uid2 {
		t.Errorf("UID should be deterministic, got different values: %s vs %s", uid1, uid2)
	}

	if !strings.HasSuffix(uid1, "@karolakvido") {
		t.Errorf("expected UID to end in @karolakvido, got %s", uid1)
	}

	// uuid5 over the URL namespace, so the value is fixed forever
	if len(uid1) != 36+len("@karolakvido") {
		t.Errorf("expected a UUID plus domain suffix, got %q", uid1)
	}
}

func TestUIDIgnoresEverythingButURL(t *testing.T) {
	a := &Event{Title: "Pirátský poklad", DetailURL: "https://karolakvido.cz/akce_karol_a_kvido/piratsky-poklad/"}
	b := &Event{Title: "Jiný název, jiný čas", Start: time.Now(), DetailURL: "https://karolakvido.cz/akce_karol_a_kvido/piratsky-poklad/"}

	if a.UID() != b.UID() {
		t.Errorf("events with the same detail URL must share a UID: %s vs %s", a.UID(), b.UID())
	}

	c := &Event{DetailURL: "https://karolakvido.cz/akce_karol_a_kvido/kouzelny-les/"}
	if a.UID() == c.UID() {
		t.Errorf("events with different detail URLs must not share a UID: %s", a.UID())
	}
}

func TestDescription(t *testing.T) {
	tests := []struct {
		name        string
		information string
		detailURL   string
		expected    string
	}{
		{
			name:        "information and URL",
			information: "Doors open at 19:00",
			detailURL:   "https://example.com/e/42",
			expected:    "Doors open at 19:00\n\nhttps://example.com/e/42",
		},
		{
			name:        "no information",
			information: "",
			detailURL:   "https://example.com/e/42",
			expected:    "https://example.com/e/42",
		},
		{
			name:        "whitespace-only information",
			information: "  \n ",
			detailURL:   "https://example.com/e/42",
			expected:    "https://example.com/e/42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := &Event{Information: tt.information, DetailURL: tt.detailURL}
			if got := evt.Description(); got != tt.expected {
				t.Errorf("Description() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTimeZone(t *testing.T) {
	loc, err := TimeZone()
	if err != nil {
		t.Fatalf("TimeZone() returned error: %v", err)
	}
	if loc.String() != "Europe/Prague" {
		t.Errorf("expected Europe/Prague, got %s", loc)
	}

	// winter is CET, summer is CEST
	winter := time.Date(2026, 2, 14, 10, 0, 0, 0, loc)
	if winter.UTC().Hour() != 9 {
		t.Errorf("expected 10:00 CET to be 09:00 UTC, got %s", winter.UTC())
	}
	summer := time.Date(2026, 6, 20, 16, 0, 0, 0, loc)
	if summer.UTC().Hour() != 14 {
		t.Errorf("expected 16:00 CEST to be 14:00 UTC, got %s", summer.UTC())
	}
}

func TestSortByStart(t *testing.T) {
	loc, err := TimeZone()
	if err != nil {
		t.Fatalf("TimeZone() returned error: %v", err)
	}

	later := &Event{Title: "B", Start: time.Date(2026, 6, 20, 16, 0, 0, 0, loc), DetailURL: "https://example.com/b"}
	earlier := &Event{Title: "C", Start: time.Date(2026, 2, 14, 10, 0, 0, 0, loc), DetailURL: "https://example.com/c"}
	sameTimeA := &Event{Title: "A", Start: time.Date(2026, 6, 20, 16, 0, 0, 0, loc), DetailURL: "https://example.com/a"}

	events := []*Event{later, earlier, sameTimeA}
	SortByStart(events)

	want := []string{"C", "A", "B"}
	for i, evt := range events {
		if evt.Title != want[i] {
			t.Errorf("position %d: got %q, want %q", i, evt.Title, want[i])
		}
	}
}

func TestSortByStartStable(t *testing.T) {
	loc, _ := TimeZone()
	start := time.Date(2026, 2, 14, 10, 0, 0, 0, loc)

	a := &Event{Title: "Same", Start: start, DetailURL: "https://example.com/a"}
	b := &Event{Title: "Same", Start: start, DetailURL: "https://example.com/b"}

	events := []*Event{b, a}
	SortByStart(events)

	if events[0].DetailURL != "https://example.com/a" {
		t.Errorf("identical title and start should fall back to URL order, got %s first", events[0].DetailURL)
	}
}
