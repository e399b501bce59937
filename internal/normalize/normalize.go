// Package normalize provides utilities for normalizing and sanitizing data.
package normalize

import "strings"

// Name folds a human name into a comparison key: trimmed, lowercased,
// with runs of whitespace collapsed to single spaces. Used for
// case-insensitive display-name uniqueness and author deduplication.
func Name(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
