package gate

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestRegistryLimit verifies that in-flight acquisitions for one domain
// never exceed the configured limit, even under heavy contention. The
// semaphore makes this exact, not probabilistic.
func TestRegistryLimit(t *testing.T) {
	t.Parallel()

	const (
		limit   = 3
		workers = 40
	)

	reg := NewRegistry(limit)
	ctx := context.Background()

	var (
		inFlight atomic.Int64
		maxSeen  atomic.Int64
		wg       sync.WaitGroup
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release, err := reg.Acquire(ctx, "example.com")
			if err != nil {
				t.Errorf("unexpected acquire error: %v", err)
				return
			}
			defer release()

			now := inFlight.Add(1)
			for {
				prev := maxSeen.Load()
				if now <= prev || maxSeen.CompareAndSwap(prev, now) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
		}()
	}
	wg.Wait()

	if got := maxSeen.Load(); got > limit {
		t.Errorf("in-flight count reached %d, limit is %d", got, limit)
	}
}

// TestRegistryDomainsIndependent verifies that saturating one domain
// does not block another.
func TestRegistryDomainsIndependent(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(1)
	ctx := context.Background()

	release, err := reg.Acquire(ctx, "a.example")
	if err != nil {
		t.Fatalf("unexpected acquire error: %v", err)
	}
	defer release()

	// a.example is saturated; b.example must still admit immediately.
	done := make(chan struct{})
	go func() {
		defer close(done)
		rel, err := reg.Acquire(ctx, "b.example")
		if err != nil {
			t.Errorf("unexpected acquire error: %v", err)
			return
		}
		rel()
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("acquire on independent domain blocked")
	}
}

// TestRegistryReleaseFreesSlot verifies that a released slot admits a
// blocked waiter.
func TestRegistryReleaseFreesSlot(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(1)
	ctx := context.Background()

	release, err := reg.Acquire(ctx, "example.com")
	if err != nil {
		t.Fatalf("unexpected acquire error: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		rel, err := reg.Acquire(ctx, "example.com")
		if err != nil {
			t.Errorf("unexpected acquire error: %v", err)
			return
		}
		close(acquired)
		rel()
	}()

	select {
	case <-acquired:
		t.Fatal("waiter acquired before slot was released")
	case <-time.After(50 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never acquired after release")
	}
}

// TestRegistryAcquireCancellation verifies that a blocked acquire
// returns when the context is cancelled, without holding a slot.
func TestRegistryAcquireCancellation(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(1)

	release, err := reg.Acquire(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("unexpected acquire error: %v", err)
	}
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := reg.Acquire(ctx, "example.com")
		errCh <- err
	}()

	cancel()

	select {
	case err := <-errCh:
		if err == nil {
			t.Error("expected cancellation error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled acquire never returned")
	}
}

// TestRegistryTryAcquire verifies the non-blocking path.
func TestRegistryTryAcquire(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(1)

	rel1, ok := reg.TryAcquire("example.com")
	if !ok {
		t.Fatal("expected first TryAcquire to succeed")
	}

	if _, ok := reg.TryAcquire("example.com"); ok {
		t.Error("expected second TryAcquire to fail while slot is held")
	}

	rel1()

	rel2, ok := reg.TryAcquire("example.com")
	if !ok {
		t.Error("expected TryAcquire to succeed after release")
	} else {
		rel2()
	}
}

// TestNewRegistryClampsLimit verifies fallback for nonsensical limits.
func TestNewRegistryClampsLimit(t *testing.T) {
	t.Parallel()

	if got := NewRegistry(0).Limit(); got != DefaultDomainLimit {
		t.Errorf("expected fallback to %d, got %d", DefaultDomainLimit, got)
	}
	if got := NewRegistry(-5).Limit(); got != DefaultDomainLimit {
		t.Errorf("expected fallback to %d, got %d", DefaultDomainLimit, got)
	}
	if got := NewRegistry(7).Limit(); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
}
