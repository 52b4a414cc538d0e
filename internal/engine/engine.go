package engine

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hacktolive/userscout/internal/model"
)

// Prober executes one probe task and always returns a result. Failures
// are carried inside the result, never as an error, so every ordinal
// slot reaches the reassembler.
type Prober interface {
	Probe(ctx context.Context, task *model.ProbeTask) *model.ProbeResult
}

// Engine fans probe tasks out over a bounded worker pool and delivers
// results to its observers in submission order.
type Engine struct {
	prober    Prober
	workers   int
	observers []func(*model.ProbeResult)
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the requested worker count. The effective count is
// clamped by ClampWorkers.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithObserver appends an observer. Observers run in registration order
// for each released result, one result at a time.
func WithObserver(fn func(*model.ProbeResult)) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, fn)
	}
}

// WithLogger sets the logger for worker diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine around the given prober.
func NewEngine(prober Prober, opts ...Option) *Engine {
	e := &Engine{
		prober:  prober,
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.workers = ClampWorkers(e.workers)
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// ClampWorkers bounds a requested worker count: at least 1, at most
// five workers per CPU. Probe work is network-bound, so the ceiling is
// well above the CPU count, but an unbounded pool would just thrash
// the per-domain gates.
func ClampWorkers(requested int) int {
	ceiling := max(1, runtime.NumCPU()*5)
	return max(1, min(requested, ceiling))
}

// Workers returns the effective worker count.
func (e *Engine) Workers() int {
	return e.workers
}

// Run executes all tasks and blocks until every result has been
// delivered. Cancelling the context stops new network work promptly,
// but every task still produces a result so the ordered stream stays
// gap-free. Returns the context error when the run was cancelled.
func (e *Engine) Run(ctx context.Context, tasks []*model.ProbeTask) error {
	reasm := NewReassembler(func(res *model.ProbeResult) {
		for _, fn := range e.observers {
			fn(res)
		}
	})

	var g errgroup.Group
	g.SetLimit(e.workers)
	for _, task := range tasks {
		g.Go(func() error {
			reasm.Complete(e.probeSafe(ctx, task))
			return nil
		})
	}
	// Workers never return errors; Wait is pure synchronization here.
	_ = g.Wait()

	return ctx.Err()
}

// probeSafe runs one probe and converts panics and pre-start
// cancellation into error results, keeping the Probe contract total
// even when a prober misbehaves.
func (e *Engine) probeSafe(ctx context.Context, task *model.ProbeTask) (res *model.ProbeResult) {
	errResult := func(kind string) *model.ProbeResult {
		return &model.ProbeResult{
			Ordinal:     task.Ordinal,
			Total:       task.Total,
			SiteName:    task.Site.Name,
			Username:    task.Username,
			URL:         task.Site.ResolveURL(task.Username),
			StatusLabel: model.ErrStatusLabel(kind),
		}
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("probe worker panicked",
				"site", task.Site.Name,
				"username", task.Username,
				"panic", r,
			)
			res = errResult(model.ErrKindPanic)
		}
	}()

	if ctx.Err() != nil {
		return errResult(model.ErrKindCanceled)
	}
	return e.prober.Probe(ctx, task)
}
