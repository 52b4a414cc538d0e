package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hacktolive/userscout/internal/model"
)

// LoadSites reads and normalizes the site list. Any failure here is
// fatal at startup: the probing core must never run against an invalid
// or partially loaded configuration.
func LoadSites(path string) ([]model.Site, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		return nil, fmt.Errorf("read site list: %w", err)
	}

	sites, err := ParseSites(data)
	if err != nil {
		return nil, fmt.Errorf("parse site list %s: %w", path, err)
	}
	return sites, nil
}

// LoadHeaders reads the header configuration. Like the site list, a
// load failure is fatal at startup.
func LoadHeaders(path string) (*HeaderConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		return nil, fmt.Errorf("read header config: %w", err)
	}

	var hc HeaderConfig
	if err := yaml.Unmarshal(data, &hc); err != nil {
		return nil, fmt.Errorf("parse header config %s: %w", path, err)
	}
	if hc.Base == nil {
		hc.Base = make(map[string]string)
	}
	return &hc, nil
}

// ReadUserList reads one username per line from path, skipping blank lines.
func ReadUserList(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("read user list: %w", err)
	}

	var users []string
	for line := range strings.Lines(string(data)) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			users = append(users, trimmed)
		}
	}
	return users, nil
}
