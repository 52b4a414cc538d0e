package config

import (
	"errors"
	"testing"
)

// TestParseSites covers every accepted site list shape and the
// normalization rules applied to each.
func TestParseSites(t *testing.T) {
	t.Parallel()

	t.Run("list of mappings", func(t *testing.T) {
		t.Parallel()

		data := `
- name: GitHub
  url: "https://github.com/{user}"
  evidence_regex:
    - "{user}"
    - "Repositories"
- name: Reddit
  url: "https://reddit.com/user/{user}"
`
		sites, err := ParseSites([]byte(data))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sites) != 2 {
			t.Fatalf("expected 2 sites, got %d", len(sites))
		}
		if sites[0].Name != "GitHub" {
			t.Errorf("expected GitHub, got %q", sites[0].Name)
		}
		if len(sites[0].EvidencePatterns) != 2 {
			t.Errorf("expected 2 evidence patterns, got %d", len(sites[0].EvidencePatterns))
		}
		if len(sites[1].EvidencePatterns) != 0 {
			t.Errorf("expected no evidence patterns, got %v", sites[1].EvidencePatterns)
		}
	})

	t.Run("list of bare URL strings uses host as name", func(t *testing.T) {
		t.Parallel()

		data := `
- "https://github.com/{user}"
- "https://gitlab.com/{user}"
`
		sites, err := ParseSites([]byte(data))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sites) != 2 {
			t.Fatalf("expected 2 sites, got %d", len(sites))
		}
		if sites[0].Name != "github.com" {
			t.Errorf("expected github.com, got %q", sites[0].Name)
		}
		if sites[1].URLTemplate != "https://gitlab.com/{user}" {
			t.Errorf("unexpected template %q", sites[1].URLTemplate)
		}
	})

	t.Run("mapping of name to URL or entry", func(t *testing.T) {
		t.Parallel()

		data := `
GitHub: "https://github.com/{user}"
Reddit:
  url: "https://reddit.com/user/{user}"
  evidence_regex: "u/{user}"
`
		sites, err := ParseSites([]byte(data))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sites) != 2 {
			t.Fatalf("expected 2 sites, got %d", len(sites))
		}
		if sites[0].Name != "GitHub" || sites[0].URLTemplate != "https://github.com/{user}" {
			t.Errorf("unexpected site %+v", sites[0])
		}
		// Scalar evidence_regex is promoted to a one-element list.
		if len(sites[1].EvidencePatterns) != 1 || sites[1].EvidencePatterns[0] != "u/{user}" {
			t.Errorf("unexpected evidence patterns %v", sites[1].EvidencePatterns)
		}
	})

	t.Run("template is accepted as alias for url", func(t *testing.T) {
		t.Parallel()

		data := `
- name: Legacy
  template: "https://legacy.example/{!!}"
`
		sites, err := ParseSites([]byte(data))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sites[0].URLTemplate != "https://legacy.example/{!!}" {
			t.Errorf("unexpected template %q", sites[0].URLTemplate)
		}
	})

	t.Run("entry without url is skipped", func(t *testing.T) {
		t.Parallel()

		data := `
- name: Broken
- name: Works
  url: "https://works.example/{user}"
`
		sites, err := ParseSites([]byte(data))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sites) != 1 || sites[0].Name != "Works" {
			t.Errorf("expected only the usable entry, got %+v", sites)
		}
	})

	t.Run("missing name falls back to host", func(t *testing.T) {
		t.Parallel()

		data := `
- url: "https://noname.example/{user}"
`
		sites, err := ParseSites([]byte(data))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sites[0].Name != "noname.example" {
			t.Errorf("expected host fallback, got %q", sites[0].Name)
		}
	})

	t.Run("scalar root returns ErrUnrecognizedSiteList", func(t *testing.T) {
		t.Parallel()

		_, err := ParseSites([]byte(`"just a string"`))
		if !errors.Is(err, ErrUnrecognizedSiteList) {
			t.Errorf("expected ErrUnrecognizedSiteList, got %v", err)
		}
	})

	t.Run("list with nothing usable returns ErrEmptySiteList", func(t *testing.T) {
		t.Parallel()

		_, err := ParseSites([]byte(`- name: NoURL`))
		if !errors.Is(err, ErrEmptySiteList) {
			t.Errorf("expected ErrEmptySiteList, got %v", err)
		}
	})

	t.Run("malformed YAML returns an error", func(t *testing.T) {
		t.Parallel()

		_, err := ParseSites([]byte("invalid: yaml: [}"))
		if err == nil {
			t.Error("expected error for malformed YAML")
		}
	})
}

// TestFilterSites verifies the --only site name filter.
func TestFilterSites(t *testing.T) {
	t.Parallel()

	sites, err := ParseSites([]byte(`
GitHub: "https://github.com/{user}"
Reddit: "https://reddit.com/user/{user}"
Twitter: "https://twitter.com/{user}"
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("empty filter keeps all sites", func(t *testing.T) {
		t.Parallel()
		got, matched := FilterSites(sites, nil)
		if !matched || len(got) != 3 {
			t.Errorf("expected all 3 sites, got %d (matched=%v)", len(got), matched)
		}
	})

	t.Run("filter is case-insensitive", func(t *testing.T) {
		t.Parallel()
		got, matched := FilterSites(sites, []string{"github", "TWITTER"})
		if !matched || len(got) != 2 {
			t.Fatalf("expected 2 sites, got %d (matched=%v)", len(got), matched)
		}
		if got[0].Name != "GitHub" || got[1].Name != "Twitter" {
			t.Errorf("unexpected filtered sites %+v", got)
		}
	})

	t.Run("no match falls back to full list", func(t *testing.T) {
		t.Parallel()
		got, matched := FilterSites(sites, []string{"Facebook"})
		if matched {
			t.Error("expected matched=false")
		}
		if len(got) != 3 {
			t.Errorf("expected fallback to all sites, got %d", len(got))
		}
	})

	t.Run("names are trimmed before matching", func(t *testing.T) {
		t.Parallel()
		got, matched := FilterSites(sites, []string{" reddit "})
		if !matched || len(got) != 1 || got[0].Name != "Reddit" {
			t.Errorf("expected Reddit, got %+v (matched=%v)", got, matched)
		}
	})
}
