// Package utils provides common utility functions.
package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// NormalizeWhitespace replaces runs of whitespace with a single space.
func NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// Truncate shortens a string to at most maxWidth display cells, appending an
// ellipsis when it had to cut. Width is measured with runewidth so CJK text
// is not cut mid-cell.
func Truncate(str string, maxWidth int) string {
	if runewidth.StringWidth(str) <= maxWidth {
		return str
	}

	if maxWidth <= 3 {
		return runewidth.Truncate(str, maxWidth, "")
	}

	return runewidth.Truncate(str, maxWidth, "...")
}

// FirstNonEmpty returns the first non-empty string in the list.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
