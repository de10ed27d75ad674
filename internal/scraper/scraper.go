package scraper

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/karolakvido/ics-export/internal/event"
)

// CalendarURL is the public concert calendar the exporter reads by default.
const CalendarURL = "https://karolakvido.cz/kalendar-koncertu/"

// ErrNoEvents means the calendar page contained none of the expected event
// markup, which usually signals a site layout change.
var ErrNoEvents = errors.New("no event links found in calendar page")

// Fetcher retrieves the raw content of a URL.
type Fetcher interface {
	Fetch(url string) (string, error)
}

// Ref is one entry of the concert calendar: a link to an event's detail page,
// grouped under the city heading it appeared beneath.
type Ref struct {
	Title     string
	DetailURL string
	City      string
}

// Scraper turns the concert calendar and its detail pages into events.
type Scraper struct {
	fetcher Fetcher
	logger  zerolog.Logger
}

// New creates a Scraper reading pages through the given fetcher.
func New(fetcher Fetcher) *Scraper {
	return &Scraper{
		fetcher: fetcher,
		logger:  log.Logger,
	}
}

// Collect fetches the calendar page and every linked detail page, returning
// the events that parsed cleanly in chronological order. A page that cannot
// be fetched fails the whole collection; a detail page whose content cannot
// be understood is logged and skipped.
func (s *Scraper) Collect(calendarURL string) ([]*event.Event, error) {
	s.logger.Info().Str("url", calendarURL).Msg("fetching concert calendar")
	listing, err := s.fetcher.Fetch(calendarURL)
	if err != nil {
		return nil, fmt.Errorf("fetching calendar: %w", err)
	}

	refs, err := ParseListing(listing, calendarURL)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("count", len(refs)).Msg("event links found")

	events := make([]*event.Event, 0, len(refs))
	for _, ref := range refs {
		page, err := s.fetcher.Fetch(ref.DetailURL)
		if err != nil {
			return nil, fmt.Errorf("fetching event %q: %w", ref.Title, err)
		}

		evt, err := ParseDetail(page, ref)
		if err != nil {
			s.logger.Warn().Err(err).Str("url", ref.DetailURL).Str("title", ref.Title).Msg("skipping event")
			continue
		}
		events = append(events, evt)
	}

	event.SortByStart(events)
	s.logger.Info().Int("count", len(events)).Msg("events extracted")
	return events, nil
}

// ParseListing extracts event references from the calendar page. City group
// headings (h3) set the city for the event links (h5) that follow them; a
// heading announcing several events contributes one entry per link. When the
// same detail URL is listed more than once the later entry wins, keeping the
// position of the first.
func ParseListing(htmlText, baseURL string) ([]Ref, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, fmt.Errorf("parsing calendar page: %w", err)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	var refs []Ref
	city := ""
	doc.Find("h3, h5").Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "h3" {
			city = textContent(sel)
			return
		}

		sel.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
			href := strings.TrimSpace(link.AttrOr("href", ""))
			if href == "" {
				return
			}
			resolved, err := base.Parse(href)
			if err != nil {
				return
			}
			if !isEventURL(resolved, base) {
				return
			}
			title := textContent(link)
			if title == "" {
				return
			}
			refs = append(refs, Ref{Title: title, DetailURL: resolved.String(), City: city})
		})
	})

	refs = dedupeRefs(refs)
	if len(refs) == 0 {
		return nil, ErrNoEvents
	}
	return refs, nil
}

// isEventURL keeps only links to event detail pages on the calendar's own
// site. The path markers match the two URL shapes the site uses for events.
func isEventURL(u, base *url.URL) bool {
	if stripWWW(u.Host) != stripWWW(base.Host) {
		return false
	}
	return strings.Contains(u.Path, "/akce_karol_a_kvido/") || strings.Contains(u.Path, "karol-a-kvido-slavi")
}

func stripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

// dedupeRefs collapses repeated detail URLs: the last occurrence wins but it
// keeps the position of the first.
func dedupeRefs(refs []Ref) []Ref {
	index := make(map[string]int, len(refs))
	out := make([]Ref, 0, len(refs))
	for _, ref := range refs {
		if at, seen := index[ref.DetailURL]; seen {
			out[at] = ref
			continue
		}
		index[ref.DetailURL] = len(out)
		out = append(out, ref)
	}
	return out
}

// textContent returns the selection's text with whitespace runs collapsed.
func textContent(sel *goquery.Selection) string {
	return normalizeWhitespace(sel.Text())
}

func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
