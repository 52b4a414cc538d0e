package probe

import "testing"

// TestMatchesEvidence covers the evidence matcher contract: placeholder
// substitution before escaping, case-insensitive multiline search, and
// malformed pattern handling.
func TestMatchesEvidence(t *testing.T) {
	t.Parallel()

	t.Run("empty patterns treat bare 200 as evidence", func(t *testing.T) {
		t.Parallel()
		if !MatchesEvidence("anything", nil, "alice") {
			t.Error("expected true for empty pattern list")
		}
		if !MatchesEvidence("", []string{}, "alice") {
			t.Error("expected true for empty pattern slice")
		}
	})

	t.Run("substitutes username before searching", func(t *testing.T) {
		t.Parallel()
		body := "Profile: alice"
		if !MatchesEvidence(body, []string{"Profile: {user}"}, "alice") {
			t.Error("expected match for alice")
		}
		if MatchesEvidence(body, []string{"Profile: {user}"}, "bob") {
			t.Error("expected no match for bob")
		}
	})

	t.Run("username is escaped, not interpreted as regex", func(t *testing.T) {
		t.Parallel()
		// "a.b" must only match the literal dot.
		if MatchesEvidence("Profile: axb", []string{"Profile: {user}"}, "a.b") {
			t.Error("expected dot in username to be literal")
		}
		if !MatchesEvidence("Profile: a.b", []string{"Profile: {user}"}, "a.b") {
			t.Error("expected literal a.b to match")
		}
	})

	t.Run("legacy placeholder is substituted too", func(t *testing.T) {
		t.Parallel()
		if !MatchesEvidence("user alice here", []string{"user {!!} here"}, "alice") {
			t.Error("expected {!!} substitution")
		}
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		t.Parallel()
		if !MatchesEvidence("PROFILE: ALICE", []string{"profile: {user}"}, "alice") {
			t.Error("expected case-insensitive match")
		}
	})

	t.Run("multiline bodies match per line", func(t *testing.T) {
		t.Parallel()
		body := "header\nProfile: alice\nfooter"
		if !MatchesEvidence(body, []string{"^Profile: {user}$"}, "alice") {
			t.Error("expected anchored pattern to match an inner line")
		}
	})

	t.Run("any matching pattern wins", func(t *testing.T) {
		t.Parallel()
		patterns := []string{"nomatch-one", "Profile: {user}", "nomatch-two"}
		if !MatchesEvidence("Profile: alice", patterns, "alice") {
			t.Error("expected second pattern to match")
		}
	})

	t.Run("malformed pattern is skipped, not a match", func(t *testing.T) {
		t.Parallel()
		if MatchesEvidence("anything", []string{"(["}, "alice") {
			t.Error("malformed pattern must not count as a match")
		}
		// A later valid pattern still gets its chance.
		if !MatchesEvidence("Profile: alice", []string{"([", "Profile: {user}"}, "alice") {
			t.Error("expected valid pattern after malformed one to match")
		}
	})
}
