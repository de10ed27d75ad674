package event

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TimeZoneName is the civil timezone all published start times belong to.
const TimeZoneName = "Europe/Prague"

// NoLocation is the placeholder venue used when a page names none.
const NoLocation = "Neuvedeno"

// uidDomain suffixes every iCalendar UID so it is globally unique.
const uidDomain = "karolakvido"

// Event represents a single Karol a Kvído performance
type Event struct {
	Title       string
	Start       time.Time
	Location    string
	Region      string // canonical kraj name, empty when the page gives none
	City        string
	Information string
	DetailURL   string
}

var (
	tzOnce sync.Once
	tzLoc  *time.Location
	tzErr  error
)

// TimeZone returns the Europe/Prague location shared by the whole exporter.
func TimeZone() (*time.Location, error) {
	tzOnce.Do(func() {
		tzLoc, tzErr = time.LoadLocation(TimeZoneName)
	})
	return tzLoc, tzErr
}

// UID returns the stable iCalendar identifier for the event. It is derived
// from the detail URL alone, so repeated exports of the same event always
// carry the same UID no matter when they run.
func (e *Event) UID() string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(e.DetailURL)).String() + "@" + uidDomain
}

// Description combines the free-text information block with the detail URL.
// Events without any information text describe themselves by URL only.
func (e *Event) Description() string {
	info := strings.TrimSpace(e.Information)
	if info == "" {
		return e.DetailURL
	}
	return info + "\n\n" + e.DetailURL
}

// SortByStart orders events chronologically. Ties fall back to title and then
// detail URL so two runs over the same page always serialize in the same order.
func SortByStart(events []*Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		if events[i].Title != events[j].Title {
			return events[i].Title < events[j].Title
		}
		return events[i].DetailURL < events[j].DetailURL
	})
}
