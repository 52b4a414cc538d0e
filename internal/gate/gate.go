package gate

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultDomainLimit is the per-domain in-flight request cap applied
// when no explicit limit is configured.
const DefaultDomainLimit = 3

// Registry hands out admission slots keyed by target domain.
//
// Design decision: we use weighted semaphores rather than a busy-wait
// counter loop. The semaphore gives true blocking suspension (no polling)
// and makes the "in-flight never exceeds limit" invariant exact rather
// than best-effort: there is no check-then-increment window in which two
// waiters can both slip through.
//
// No fairness is guaranteed across domains or waiters; any waiter may
// take a freed slot.
type Registry struct {
	// limit is the uniform per-domain cap. Per-site limits are an
	// extension point, not a current requirement.
	limit int64

	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
}

// NewRegistry creates a registry with the given per-domain limit.
// Limits below 1 fall back to DefaultDomainLimit.
func NewRegistry(limitPerDomain int) *Registry {
	if limitPerDomain < 1 {
		limitPerDomain = DefaultDomainLimit
	}
	return &Registry{
		limit: int64(limitPerDomain),
		sems:  make(map[string]*semaphore.Weighted),
	}
}

// Acquire blocks until the domain has a free slot, then claims it and
// returns the matching release func. Acquisition never fails on its own;
// the only error path is cancellation of ctx, in which case no slot is
// held and release must not be called.
//
// The release func is idempotent-unsafe by design: call it exactly once,
// typically via defer immediately after a successful Acquire.
func (r *Registry) Acquire(ctx context.Context, domain string) (release func(), err error) {
	sem := r.semFor(domain)
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { sem.Release(1) }, nil
}

// TryAcquire claims a slot without blocking. It reports whether the slot
// was claimed; on success the returned release func must be called.
func (r *Registry) TryAcquire(domain string) (release func(), ok bool) {
	sem := r.semFor(domain)
	if !sem.TryAcquire(1) {
		return nil, false
	}
	return func() { sem.Release(1) }, true
}

// Limit returns the per-domain cap.
func (r *Registry) Limit() int {
	return int(r.limit)
}

// semFor returns the semaphore for a domain, creating it on first use.
func (r *Registry) semFor(domain string) *semaphore.Weighted {
	r.mu.Lock()
	defer r.mu.Unlock()

	sem, ok := r.sems[domain]
	if !ok {
		sem = semaphore.NewWeighted(r.limit)
		r.sems[domain] = sem
	}
	return sem
}
