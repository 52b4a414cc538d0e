// Package gate provides per-domain admission control for outgoing probes.
//
// Each target domain gets a counting semaphore capping its in-flight
// requests. The registry is an explicit instance handed to the prober at
// construction, so concurrent runs (tests included) never interfere with
// each other.
package gate
