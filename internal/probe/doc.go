// Package probe performs single username/site probes: URL resolution,
// jittered and rate-gated HTTP fetching, and evidence-based hit
// classification.
//
// The prober's contract is total: Probe always returns a result and
// never an error. All transport failures are encoded in the result's
// status label so one bad site can never abort a run.
package probe
