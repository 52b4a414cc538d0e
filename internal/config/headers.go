package config

import (
	"math/rand/v2"
	"net/http"
)

// HeaderConfig mirrors headers.yml: a base header set plus pools of
// User-Agent and Accept-Language values. One value is drawn from each
// pool per session so a run presents a consistent identity while
// successive runs vary.
type HeaderConfig struct {
	// Base headers applied to every request.
	Base map[string]string `yaml:"Base"`

	// UserAgents is the pool of User-Agent values.
	UserAgents []string `yaml:"User-Agents"`

	// AcceptLanguages is the pool of Accept-Language values.
	AcceptLanguages []string `yaml:"Accept-Languages"`
}

// SessionHeaders builds the header set for one run: the base headers
// plus a random pick from each non-empty pool. Pool picks override any
// same-named base header.
func (hc *HeaderConfig) SessionHeaders() http.Header {
	h := make(http.Header, len(hc.Base)+2)
	for k, v := range hc.Base {
		h.Set(k, v)
	}
	if len(hc.UserAgents) > 0 {
		h.Set("User-Agent", hc.UserAgents[rand.IntN(len(hc.UserAgents))])
	}
	if len(hc.AcceptLanguages) > 0 {
		h.Set("Accept-Language", hc.AcceptLanguages[rand.IntN(len(hc.AcceptLanguages))])
	}
	return h
}
