package probe

import (
	"regexp"
	"strings"

	"github.com/hacktolive/userscout/internal/model"
)

// MatchesEvidence reports whether body constitutes verified evidence of
// a profile for username, given a site's evidence patterns.
//
// An empty pattern list means a bare HTTP 200 is sufficient, so the
// answer is true. Otherwise each pattern has its username placeholders
// substituted with the regex-escaped literal username, so the username
// itself is never treated as regex syntax, and is searched
// case-insensitively across lines. A match on any pattern wins.
//
// A pattern that fails to compile is skipped: it never aborts the check
// and never counts as a match.
func MatchesEvidence(body string, patterns []string, username string) bool {
	if len(patterns) == 0 {
		return true
	}

	quoted := regexp.QuoteMeta(username)
	for _, pat := range patterns {
		pat = strings.ReplaceAll(pat, model.PlaceholderUser, quoted)
		pat = strings.ReplaceAll(pat, model.PlaceholderBang, quoted)

		re, err := regexp.Compile("(?im)" + pat)
		if err != nil {
			continue
		}
		if re.MatchString(body) {
			return true
		}
	}
	return false
}
