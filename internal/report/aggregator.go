package report

import (
	"strings"
	"sync"
	"time"

	"github.com/hacktolive/userscout/internal/model"
)

// RunSummary is the aggregate outcome of one scan run. It feeds the
// end-of-run console summary and every batch export writer.
type RunSummary struct {
	// Usernames are the probed usernames in input order.
	Usernames []string

	// SiteCount is the number of sites each username was probed on.
	SiteCount int

	// Total is the number of probes executed (usernames x sites).
	Total int

	// Hits are the persisting results in release order.
	Hits []*model.ProbeResult

	// Misses counts non-persisting HTTP responses.
	Misses int

	// Errors counts probes that failed before producing a response.
	Errors int

	// EvidenceOnly records the hit mode the run used.
	EvidenceOnly bool

	// StartedAt is when the run began.
	StartedAt time.Time

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// HitCount returns the number of persisting hits.
func (s *RunSummary) HitCount() int {
	return len(s.Hits)
}

// UsernameList returns the usernames joined for display.
func (s *RunSummary) UsernameList() string {
	return strings.Join(s.Usernames, ", ")
}

// Aggregator is a result observer that accumulates the run summary.
// Observe is called from the ordered result stream; the mutex makes the
// aggregator safe regardless of who drives it.
type Aggregator struct {
	mu      sync.Mutex
	summary RunSummary
}

// NewAggregator creates an Aggregator for a run over the given
// usernames and site count. It records the start time.
func NewAggregator(usernames []string, siteCount int, evidenceOnly bool) *Aggregator {
	return &Aggregator{
		summary: RunSummary{
			Usernames:    usernames,
			SiteCount:    siteCount,
			EvidenceOnly: evidenceOnly,
			StartedAt:    time.Now(),
		},
	}
}

// Observe records one released result.
func (a *Aggregator) Observe(res *model.ProbeResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.summary.Total++
	switch {
	case res.IsError():
		a.summary.Errors++
	case res.ShouldPersist:
		a.summary.Hits = append(a.summary.Hits, res)
	default:
		a.summary.Misses++
	}
}

// Summary finalizes and returns the run summary. Call it once after the
// run has completed.
func (a *Aggregator) Summary() *RunSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.summary
	s.Elapsed = time.Since(s.StartedAt)
	return &s
}
