package model

import "fmt"

// Error kinds used in the "ERR: <kind>" status labels of failed probes.
//
// Design decision: transport failures are encoded as a typed kind inside
// the result rather than returned as Go errors, so the prober's contract
// is total (it always returns a value, never unwinds). Callers that need
// to branch on the failure class compare against these constants.
const (
	// ErrKindTimeout marks a request that exceeded the caller-supplied timeout.
	ErrKindTimeout = "timeout"

	// ErrKindDNS marks a name resolution failure.
	ErrKindDNS = "dns"

	// ErrKindConnection marks a TCP/TLS connection failure.
	ErrKindConnection = "connection"

	// ErrKindCanceled marks a probe abandoned due to run cancellation.
	ErrKindCanceled = "canceled"

	// ErrKindBadURL marks a resolved URL that could not be parsed.
	ErrKindBadURL = "badurl"

	// ErrKindTransport marks any other transport-level failure.
	ErrKindTransport = "transport"

	// ErrKindPanic marks a worker that panicked mid-probe. The ordinal
	// slot is still released so ordering stays gap-free.
	ErrKindPanic = "panic"
)

// ProbeResult is the immutable outcome of one probe task.
//
// Produced exactly once per task by a worker, handed to the reassembler,
// and forwarded to observers in ordinal order. No component mutates a
// result after handoff.
type ProbeResult struct {
	// Ordinal and Total mirror the originating task.
	Ordinal int
	Total   int

	// SiteName is the target site's display name.
	SiteName string

	// Username is the account name that was probed.
	Username string

	// URL is the fully resolved profile URL.
	URL string

	// StatusLabel is the HTTP status code as text ("200", "404", ...) or
	// "ERR: <kind>" for transport failures.
	StatusLabel string

	// ElapsedMS is the wall-clock probe duration in milliseconds,
	// measured from after the pre-request jitter delay. Gate wait and
	// transfer time are included.
	ElapsedMS int64

	// HTTPOK is true when the response status was 200.
	HTTPOK bool

	// VerifiedHit is true when the response body matched the site's
	// evidence patterns (or the site has none and HTTPOK is true).
	VerifiedHit bool

	// ShouldPersist is true when the result qualifies for the dedup sink
	// and batch exports under the run's hit mode.
	ShouldPersist bool

	// PageTitle is the HTML <title> of the profile page, extracted only
	// for persisting hits. Empty otherwise.
	PageTitle string
}

// ErrStatusLabel formats an "ERR: <kind>" status label.
func ErrStatusLabel(kind string) string {
	return "ERR: " + kind
}

// IsError reports whether the result represents a transport failure
// rather than an HTTP response.
func (r *ProbeResult) IsError() bool {
	return !r.HTTPOK && len(r.StatusLabel) >= 3 && r.StatusLabel[:3] == "ERR"
}

// ConsoleLine formats the result as one ordered console line:
//
//	[ordinal/total] [ status ] (elapsed ms) site: url
func (r *ProbeResult) ConsoleLine() string {
	return fmt.Sprintf("[%d/%d] [ %s ] (%dms) %s: %s",
		r.Ordinal, r.Total, r.StatusLabel, r.ElapsedMS, r.SiteName, r.URL)
}
