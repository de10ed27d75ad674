package fetch

import (
	"errors"
	"fmt"
)

// ErrNotRecorded reports a fixture miss: the requested URL has no recorded body.
var ErrNotRecorded = errors.New("no recorded response for URL")

// Fixture serves recorded page bodies keyed by URL. It stands in for a
// network Client in tests and offline runs.
type Fixture map[string]string

// Fetch returns the recorded body for url.
func (f Fixture) Fetch(url string) (string, error) {
	body, ok := f[url]
	if !ok {
		return "", fmt.Errorf("fetch %s: %w", url, ErrNotRecorded)
	}
	return body, nil
}
