package scraper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/karolakvido/ics-export/internal/event"
)

// footerMarker ends the information section: everything from the "all events"
// back link onwards is page chrome, not event text.
const footerMarker = "všechny akce karol a kvído"

// sectionLabels are text chunks that merely repeat a section heading and
// carry no information of their own.
var sectionLabels = map[string]bool{
	"informace": true,
	"vstupenky": true,
}

// ParseDetail turns an event's detail page into an Event. The ref supplies
// the fallback title and the city from the calendar listing.
func ParseDetail(htmlText string, ref Ref) (*event.Event, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, fmt.Errorf("parsing event page: %w", err)
	}

	title := textContent(doc.Find("h1").First())
	if title == "" {
		title = ref.Title
	}

	start, err := extractStart(doc)
	if err != nil {
		return nil, err
	}

	location := extractLocation(doc, ref.City)
	information := extractInformation(doc)
	region, _ := event.NormalizeRegion(ref.City)

	return &event.Event{
		Title:       title,
		Start:       start,
		Location:    location,
		Region:      region,
		City:        ref.City,
		Information: information,
		DetailURL:   ref.DetailURL,
	}, nil
}

// extractStart finds the event's start instant. The "Kdy" section is tried
// first, with the year borrowed from elsewhere on the page when the section
// omits it. Failing that, the whole page is searched for a written-out or
// numeric date.
func extractStart(doc *goquery.Document) (time.Time, error) {
	fullText := nodeText(doc.Get(0))

	var start time.Time
	found := false
	doc.Find("h2, h3").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(textContent(heading)), "kdy") {
			return true
		}
		section := normalizeWhitespace(strings.Join(siblingTexts(heading), " "))
		if section == "" {
			return true
		}
		if t, ok := findDateTime(section); ok {
			start, found = t, true
			return false
		}
		if year, ok := findYear(fullText); ok {
			if t, ok := findDateTimeInYear(section, year); ok {
				start, found = t, true
				return false
			}
		}
		return true
	})
	if found {
		return start, nil
	}

	if t, ok := findDateTime(fullText); ok {
		return t, nil
	}
	if t, ok := findNumericDateTime(fullText); ok {
		return t, nil
	}

	return time.Time{}, errors.New("no event date found on page")
}

// extractLocation reads the "Kde" section, joining its pieces into a single
// venue line. Pages without one fall back to the listing city, and failing
// that to the explicit "not stated" placeholder.
func extractLocation(doc *goquery.Document, city string) string {
	location := ""
	doc.Find("h2, h3").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(textContent(heading)), "kde") {
			return true
		}
		location = strings.Trim(strings.Join(siblingTexts(heading), ", "), ", ")
		return false
	})

	if location != "" {
		return location
	}
	if city != "" {
		return city
	}
	return event.NoLocation
}

// extractInformation gathers the free text of the "Informace" section: every
// text node after its heading up to the next h2/h3, skipping script and style
// content and chunks that just repeat a section label. Chunks keep their own
// lines so paragraphs survive into the calendar description.
func extractInformation(doc *goquery.Document) string {
	var heading *html.Node
	doc.Find("h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(textContent(sel)), "informace") {
			heading = sel.Nodes[0]
			return false
		}
		return true
	})
	if heading == nil {
		return ""
	}

	var chunks []string
walk:
	for n := nextNode(heading); n != nil; {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h2", "h3":
				break walk
			case "script", "style":
				n = skipSubtree(n)
				continue
			}
		}
		if n.Type == html.TextNode && n.Parent != heading {
			text := normalizeWhitespace(n.Data)
			if text != "" {
				if sectionLabels[strings.ToLower(strings.Trim(text, " :"))] {
					n = nextNode(n)
					continue
				}
				if strings.Contains(strings.ToLower(text), footerMarker) {
					break walk
				}
				chunks = append(chunks, text)
			}
		}
		n = nextNode(n)
	}

	return strings.TrimSpace(strings.Join(chunks, "\n"))
}

// siblingTexts collects the normalized text of each node between a heading
// and the next h2/h3, one entry per non-empty sibling.
func siblingTexts(heading *goquery.Selection) []string {
	if len(heading.Nodes) == 0 {
		return nil
	}
	var parts []string
	for n := heading.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
		if isHeading(n) {
			break
		}
		text := ""
		switch n.Type {
		case html.ElementNode:
			text = nodeText(n)
		case html.TextNode:
			text = normalizeWhitespace(n.Data)
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return parts
}

func isHeading(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.Data == "h2" || n.Data == "h3")
}

// nodeText returns the whitespace-normalized text of a node's whole subtree.
// Adjacent text nodes are separated by a space, so tokens split across markup
// keep their word boundaries.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return normalizeWhitespace(sb.String())
}

// nextNode returns the document-order successor of n, descending into children.
func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	return skipSubtree(n)
}

// skipSubtree returns the document-order successor of n without entering n's
// children.
func skipSubtree(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}
