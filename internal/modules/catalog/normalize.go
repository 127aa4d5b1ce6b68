// README: Title normalization for duplicate-route detection.
package catalog

import "strings"

// Folded characters cover the Swedish/Norwegian titles the catalog holds;
// anything else passes through lowercased.
var diacritics = strings.NewReplacer(
	"å", "a", "ä", "a", "ö", "o", "é", "e",
)

// foldTitle lowercases, strips the fixed diacritic set and collapses
// internal whitespace.
func foldTitle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = diacritics.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// RouteKey builds the normalized (from, to) key under which a stored route
// direction must be unique.
func RouteKey(fromTitle, toTitle string) string {
	return foldTitle(fromTitle) + "→" + foldTitle(toTitle)
}
