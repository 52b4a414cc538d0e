// Package main provides the entry point for the userscout CLI.
//
// userscout checks whether a username exists across a configurable list
// of websites. It probes each site concurrently, verifies positive
// responses against per-site evidence patterns, and records confirmed
// hits.
//
// Usage:
//
//	userscout scan <username>...
//	userscout scan --userlist <file>
//
// See --help for all available options.
package main

// main is the entry point for userscout.
func main() {
	Execute()
}
