package config

import (
	"fmt"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hacktolive/userscout/internal/model"
)

// siteEntry is the mapping shape accepted for one site list entry.
// "template" is accepted as an alias for "url", and "evidence" as an
// alias for "evidence_regex", for older site lists.
type siteEntry struct {
	Name          string     `yaml:"name"`
	URL           string     `yaml:"url"`
	Template      string     `yaml:"template"`
	EvidenceRegex stringList `yaml:"evidence_regex"`
	Evidence      stringList `yaml:"evidence"`
}

// stringList accepts either a single YAML scalar or a sequence of
// scalars, so "evidence_regex: foo" and "evidence_regex: [foo, bar]"
// both parse.
type stringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var one string
		if err := value.Decode(&one); err != nil {
			return err
		}
		*s = stringList{one}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*s = stringList(many)
		return nil
	default:
		return fmt.Errorf("evidence_regex: expected string or list, got %s", value.Tag)
	}
}

// ParseSites normalizes a raw site list document into canonical site
// descriptors. Three shapes are accepted:
//
//   - a sequence of mappings: [{name: GitHub, url: "https://...", evidence_regex: [...]}]
//   - a sequence of bare URL strings: ["https://site/{user}", ...]
//   - a mapping of name to URL string or mapping: {GitHub: "https://...", Reddit: {url: ...}}
//
// Normalization happens exactly once, here; the probing core only ever
// sees the canonical form. Entries without a usable URL are skipped.
// A root node that is neither a sequence nor a mapping is an error, as
// is a list that normalizes to nothing.
func ParseSites(data []byte) ([]model.Site, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, ErrEmptySiteList
		}
		node = node.Content[0]
	}

	var sites []model.Site
	switch node.Kind {
	case yaml.SequenceNode:
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				var raw string
				if err := item.Decode(&raw); err != nil {
					return nil, err
				}
				if raw == "" {
					continue
				}
				name := hostOf(raw)
				if name == "" {
					name = raw
				}
				sites = append(sites, model.Site{Name: name, URLTemplate: raw})
			case yaml.MappingNode:
				var entry siteEntry
				if err := item.Decode(&entry); err != nil {
					return nil, err
				}
				if site, ok := entry.toSite(""); ok {
					sites = append(sites, site)
				}
			default:
				// Anything else in the sequence is noise; skip it.
			}
		}
	case yaml.MappingNode:
		// Content alternates key, value.
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			var name string
			if err := keyNode.Decode(&name); err != nil {
				return nil, err
			}
			switch valNode.Kind {
			case yaml.ScalarNode:
				var raw string
				if err := valNode.Decode(&raw); err != nil {
					return nil, err
				}
				if raw == "" {
					continue
				}
				sites = append(sites, model.Site{Name: name, URLTemplate: raw})
			case yaml.MappingNode:
				var entry siteEntry
				if err := valNode.Decode(&entry); err != nil {
					return nil, err
				}
				if site, ok := entry.toSite(name); ok {
					sites = append(sites, site)
				}
			default:
				// Skip mapping values that are neither URL nor entry.
			}
		}
	default:
		return nil, ErrUnrecognizedSiteList
	}

	if len(sites) == 0 {
		return nil, ErrEmptySiteList
	}
	return sites, nil
}

// toSite converts a decoded entry into a canonical descriptor.
// name, when non-empty, comes from a mapping key and wins over the
// entry's own name field. Entries without a URL are unusable.
func (e siteEntry) toSite(name string) (model.Site, bool) {
	tmpl := e.URL
	if tmpl == "" {
		tmpl = e.Template
	}
	if tmpl == "" {
		return model.Site{}, false
	}

	if name == "" {
		name = e.Name
	}
	if name == "" {
		if name = hostOf(tmpl); name == "" {
			name = "site"
		}
	}

	patterns := e.EvidenceRegex
	if len(patterns) == 0 {
		patterns = e.Evidence
	}

	return model.Site{
		Name:             name,
		URLTemplate:      tmpl,
		EvidencePatterns: []string(patterns),
	}, true
}

// hostOf extracts the host portion of a URL template, or "" when the
// template does not parse as a URL.
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}

// FilterSites returns the sites whose names appear in only
// (case-insensitive). An empty filter keeps everything. The second
// return value is false when the filter matched nothing, in which case
// the full list is returned so callers can warn and continue.
func FilterSites(sites []model.Site, only []string) ([]model.Site, bool) {
	if len(only) == 0 {
		return sites, true
	}

	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			wanted[name] = true
		}
	}

	var matched []model.Site
	for _, site := range sites {
		if wanted[strings.ToLower(site.Name)] {
			matched = append(matched, site)
		}
	}

	if len(matched) == 0 {
		return sites, false
	}
	return matched, true
}
