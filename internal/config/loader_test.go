package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadSites tests loading and normalizing a site list from disk.
func TestLoadSites(t *testing.T) {
	t.Parallel()

	t.Run("loads valid site list", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "sites.yml")
		content := `
- name: GitHub
  url: "https://github.com/{user}"
  evidence_regex:
    - "{user}"
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write site list: %v", err)
		}

		sites, err := LoadSites(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sites) != 1 || sites[0].Name != "GitHub" {
			t.Errorf("unexpected sites %+v", sites)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadSites(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
			t.Error("expected error for missing site list")
		}
	})
}

// TestLoadHeaders tests loading the header configuration.
func TestLoadHeaders(t *testing.T) {
	t.Parallel()

	t.Run("loads base headers and pools", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "headers.yml")
		content := `
Base:
  Accept: "text/html"
  DNT: "1"
User-Agents:
  - "Mozilla/5.0 (X11; Linux x86_64)"
Accept-Languages:
  - "en-US,en;q=0.9"
  - "de-DE,de;q=0.9"
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write header config: %v", err)
		}

		hc, err := LoadHeaders(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hc.Base["Accept"] != "text/html" {
			t.Errorf("unexpected base headers %v", hc.Base)
		}
		if len(hc.UserAgents) != 1 || len(hc.AcceptLanguages) != 2 {
			t.Errorf("unexpected pools: %d user agents, %d languages",
				len(hc.UserAgents), len(hc.AcceptLanguages))
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadHeaders(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
			t.Error("expected error for missing header config")
		}
	})

	t.Run("nil base map is initialized", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "headers.yml")
		if err := os.WriteFile(path, []byte("User-Agents:\n  - agent\n"), 0600); err != nil {
			t.Fatalf("failed to write header config: %v", err)
		}

		hc, err := LoadHeaders(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hc.Base == nil {
			t.Error("expected Base map to be initialized")
		}
	})
}

// TestSessionHeaders verifies per-session header assembly.
func TestSessionHeaders(t *testing.T) {
	t.Parallel()

	t.Run("base headers are applied", func(t *testing.T) {
		t.Parallel()

		hc := &HeaderConfig{Base: map[string]string{"DNT": "1"}}
		h := hc.SessionHeaders()
		if h.Get("DNT") != "1" {
			t.Errorf("expected DNT header, got %v", h)
		}
	})

	t.Run("pool pick lands in the corresponding header", func(t *testing.T) {
		t.Parallel()

		hc := &HeaderConfig{
			UserAgents:      []string{"UA-1"},
			AcceptLanguages: []string{"en-US"},
		}
		h := hc.SessionHeaders()
		if h.Get("User-Agent") != "UA-1" {
			t.Errorf("expected UA-1, got %q", h.Get("User-Agent"))
		}
		if h.Get("Accept-Language") != "en-US" {
			t.Errorf("expected en-US, got %q", h.Get("Accept-Language"))
		}
	})

	t.Run("empty pools leave headers unset", func(t *testing.T) {
		t.Parallel()

		hc := &HeaderConfig{Base: map[string]string{}}
		h := hc.SessionHeaders()
		if h.Get("User-Agent") != "" {
			t.Errorf("expected no User-Agent, got %q", h.Get("User-Agent"))
		}
	})
}

// TestReadUserList tests bulk username loading.
func TestReadUserList(t *testing.T) {
	t.Parallel()

	t.Run("skips blank lines and trims whitespace", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "users.txt")
		if err := os.WriteFile(path, []byte("alice\n\n  bob \r\ncarol\n"), 0600); err != nil {
			t.Fatalf("failed to write user list: %v", err)
		}

		users, err := ReadUserList(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"alice", "bob", "carol"}
		if len(users) != len(want) {
			t.Fatalf("expected %d users, got %d: %v", len(want), len(users), users)
		}
		for i := range want {
			if users[i] != want[i] {
				t.Errorf("user %d: expected %q, got %q", i, want[i], users[i])
			}
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()

		if _, err := ReadUserList(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
			t.Error("expected error for missing user list")
		}
	})
}
