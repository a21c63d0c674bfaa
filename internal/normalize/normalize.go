// Package normalize holds the canonical forms used for lookups and comparisons.
package normalize

import "strings"

// Email returns a normalized form of an email address suitable for
// storage and comparisons: surrounding whitespace trimmed, lower-cased.
func Email(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Title trims a room title and collapses runs of inner whitespace so
// "Ocean  View " and "Ocean View" address the same room. Case is kept;
// titles are matched exactly as seeded.
func Title(t string) string {
	return strings.Join(strings.Fields(t), " ")
}

// SameEmail reports whether two addresses are equal once normalized.
func SameEmail(a, b string) bool {
	return Email(a) == Email(b)
}
