package model

import "strings"

// Username placeholder tokens accepted in URL templates and evidence
// patterns. Both forms are supported for backward compatibility with
// older site lists.
const (
	// PlaceholderUser is the primary username placeholder.
	PlaceholderUser = "{user}"

	// PlaceholderBang is the legacy username placeholder.
	PlaceholderBang = "{!!}"
)

// Site describes one target website: where to look for a profile page and,
// optionally, what counts as proof that the profile exists.
//
// Sites are normalized once at load time (see the config package) and are
// read-only for the rest of the run.
type Site struct {
	// Name is the human-readable site name used in console output and
	// exports (e.g. "GitHub"). Falls back to the URL host when the site
	// list does not provide one.
	Name string

	// URLTemplate is the profile URL with username placeholders
	// (e.g. "https://github.com/{user}").
	URLTemplate string

	// EvidencePatterns are regular expressions that must match the
	// response body for a hit to count as verified. Placeholders are
	// substituted with the literal username before matching. An empty
	// list means a bare HTTP 200 is sufficient evidence.
	EvidencePatterns []string
}

// ResolveURL substitutes the username into the site's URL template at
// every placeholder occurrence.
func (s Site) ResolveURL(username string) string {
	u := strings.ReplaceAll(s.URLTemplate, PlaceholderUser, username)
	return strings.ReplaceAll(u, PlaceholderBang, username)
}
