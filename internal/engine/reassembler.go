package engine

import (
	"sync"

	"github.com/hacktolive/userscout/internal/model"
)

// Reassembler restores submission order over concurrently completing
// results. Completions for future ordinals are buffered; each time the
// next expected ordinal arrives, it and every consecutive buffered
// successor are released in one batch.
//
// Design decision: emit runs under the reassembler mutex. That keeps
// released batches contiguous without a second ordering layer, at the
// cost of serializing observers. Observers here are console printing
// and file appends, which must be serialized anyway.
type Reassembler struct {
	mu       sync.Mutex
	next     int
	pending  map[int]*model.ProbeResult
	emit     func(*model.ProbeResult)
	released int
}

// NewReassembler creates a Reassembler that forwards ordered results to
// emit. Ordinals are expected to start at 1.
func NewReassembler(emit func(*model.ProbeResult)) *Reassembler {
	return &Reassembler{
		next:    1,
		pending: make(map[int]*model.ProbeResult),
		emit:    emit,
	}
}

// Complete records one finished result. If it carries the next expected
// ordinal, it is released immediately along with any buffered
// consecutive successors; otherwise it waits in the buffer.
func (r *Reassembler) Complete(res *model.ProbeResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending[res.Ordinal] = res
	for {
		next, ok := r.pending[r.next]
		if !ok {
			return
		}
		delete(r.pending, r.next)
		r.next++
		r.released++
		r.emit(next)
	}
}

// Released returns how many results have been emitted so far.
func (r *Reassembler) Released() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}

// Pending returns how many results are buffered waiting for an earlier
// ordinal to complete.
func (r *Reassembler) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
