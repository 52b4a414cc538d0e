// Package config holds run configuration and the loaders for the two
// YAML inputs userscout consumes: the site list (sites.yml) and the
// header configuration (headers.yml).
//
// Site lists historically come in several shapes (list of mappings, list
// of bare URLs, name-to-URL map). All accepted shapes are normalized into
// canonical model.Site descriptors in a single parsing step at load time;
// the probing core never sees anything but the canonical form.
package config
