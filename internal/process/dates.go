// Package process filters and normalizes collected entries: keyword
// relevance, HTML cleanup, published-date normalization, URL
// canonicalization, and best-effort article-body verification.
package process

import (
	"strings"
	"time"
)

// publishedFormats lists the date encodings seen across feed and scraper
// outputs, tried in order.
var publishedFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
}

// ParsePublished parses a published timestamp in any of the known source
// formats. It returns false when nothing matches.
func ParsePublished(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, format := range publishedFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// NormalizePublished re-emits a published timestamp as RFC3339, or empty
// when the input cannot be parsed.
func NormalizePublished(raw string) string {
	t, ok := ParsePublished(raw)
	if !ok {
		return ""
	}

	return t.Format(time.RFC3339)
}
