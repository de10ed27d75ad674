package event

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// krajNames lists the canonical names of the fourteen Czech kraje, in the
// spelling the exporter uses for the Region field and the --kraj flag.
var krajNames = []string{
	"Praha",
	"Středočeský",
	"Jihočeský",
	"Plzeňský",
	"Karlovarský",
	"Ústecký",
	"Liberecký",
	"Královéhradecký",
	"Pardubický",
	"Vysočina",
	"Jihomoravský",
	"Olomoucký",
	"Zlínský",
	"Moravskoslezský",
}

// krajAliases maps folded alternate spellings to their canonical name.
var krajAliases = map[string]string{
	"hlavni mesto praha": "Praha",
	"kraj vysocina":      "Vysočina",
}

var krajIndex = buildKrajIndex()

func buildKrajIndex() map[string]string {
	index := make(map[string]string, len(krajNames)+len(krajAliases))
	for _, name := range krajNames {
		index[regionKey(name)] = name
	}
	for alias, name := range krajAliases {
		index[alias] = name
	}
	return index
}

var diacriticsFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldDiacritics strips combining accents so Czech text can be compared in
// plain ASCII, e.g. "Středočeský" becomes "Stredocesky".
func FoldDiacritics(s string) string {
	out, _, err := transform.String(diacriticsFold, s)
	if err != nil {
		return s
	}
	return out
}

// regionKey reduces a kraj spelling to its lookup form: accents folded,
// lowercased, whitespace collapsed and the generic "kraj" suffix dropped.
func regionKey(s string) string {
	key := strings.ToLower(FoldDiacritics(s))
	key = strings.Join(strings.Fields(key), " ")
	key = strings.TrimSuffix(key, " kraj")
	return key
}

// NormalizeRegion resolves a kraj spelling to its canonical name. It accepts
// accent-free and case-insensitive variants ("stredocesky", "PRAHA") as well
// as official long forms ("Hlavní město Praha", "Kraj Vysočina"). The second
// return value reports whether the input named a known kraj at all; labels
// that are not kraj names, such as plain city names, resolve to nothing.
func NormalizeRegion(label string) (string, bool) {
	name, ok := krajIndex[regionKey(label)]
	return name, ok
}

// Regions returns the canonical kraj names in their fixed order.
func Regions() []string {
	out := make([]string, len(krajNames))
	copy(out, krajNames)
	return out
}

// FilterByRegion returns the events whose Region equals the given canonical
// kraj name. An empty kraj disables filtering and returns the input slice
// unchanged. Events without a region never match a non-empty kraj, so they
// are dropped from filtered feeds rather than guessed into one.
func FilterByRegion(events []*Event, kraj string) []*Event {
	if kraj == "" {
		return events
	}
	filtered := make([]*Event, 0, len(events))
	for _, e := range events {
		if e.Region == kraj {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
