package probe

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hacktolive/userscout/internal/gate"
	"github.com/hacktolive/userscout/internal/model"
)

// Default prober tuning.
const (
	// defaultMaxBodySize bounds how much of a response body is read for
	// evidence matching. Profile pages are small; 2MB is plenty.
	defaultMaxBodySize = 2 * 1024 * 1024

	// Jitter bounds for the randomized pre-request delay. Spreading
	// request starts avoids bursts against a single domain.
	defaultJitterMin = 80 * time.Millisecond
	defaultJitterMax = 250 * time.Millisecond
)

// Prober performs one username/site probe at a time. It is safe for
// concurrent use by multiple workers: all fields are read-only after
// construction and the gate registry serializes per-domain admission.
//
// Design decision: the prober takes the HTTP client and gate registry as
// constructor arguments rather than creating them, matching how scanners
// share a pre-configured client. This keeps proxy and retry policy in
// one place and lets tests substitute both.
type Prober struct {
	// client is the shared HTTP client, already wrapped with the
	// transient-status retry transport. The prober adds no retries.
	client *http.Client

	// gate limits in-flight requests per target domain.
	gate *gate.Registry

	// headers is the session header set applied to every request.
	headers http.Header

	// evidenceOnly selects the hit mode used to compute ShouldPersist.
	evidenceOnly bool

	// maxBodySize limits response body reads.
	maxBodySize int64

	// jitterMin/jitterMax bound the randomized pre-request delay.
	jitterMin time.Duration
	jitterMax time.Duration

	// logger records transport failures at debug level.
	logger *slog.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithHeaders sets the session header set applied to every request.
func WithHeaders(h http.Header) Option {
	return func(p *Prober) {
		p.headers = h
	}
}

// WithEvidenceOnly selects the hit mode: true persists only
// evidence-verified hits, false persists any HTTP 200.
func WithEvidenceOnly(evidenceOnly bool) Option {
	return func(p *Prober) {
		p.evidenceOnly = evidenceOnly
	}
}

// WithMaxBodySize limits response body reads.
func WithMaxBodySize(size int64) Option {
	return func(p *Prober) {
		if size > 0 {
			p.maxBodySize = size
		}
	}
}

// WithJitter sets the pre-request delay bounds. Zero max disables jitter
// entirely, which tests rely on.
func WithJitter(minDelay, maxDelay time.Duration) Option {
	return func(p *Prober) {
		p.jitterMin = minDelay
		p.jitterMax = maxDelay
	}
}

// WithLogger sets the logger for debug-level transport diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prober) {
		p.logger = logger
	}
}

// NewProber creates a Prober using the given shared client and gate registry.
func NewProber(client *http.Client, reg *gate.Registry, opts ...Option) *Prober {
	p := &Prober{
		client:       client,
		gate:         reg,
		evidenceOnly: true,
		maxBodySize:  defaultMaxBodySize,
		jitterMin:    defaultJitterMin,
		jitterMax:    defaultJitterMax,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Probe executes one task and returns its result. The contract is
// total: every exit path returns a result, transport failures included,
// and the gate slot is released on every path once acquired.
func (p *Prober) Probe(ctx context.Context, task *model.ProbeTask) *model.ProbeResult {
	res := &model.ProbeResult{
		Ordinal:  task.Ordinal,
		Total:    task.Total,
		SiteName: task.Site.Name,
		Username: task.Username,
		URL:      task.Site.ResolveURL(task.Username),
	}

	// Jitter is pacing, not site latency; the probe clock starts after it.
	if !p.sleepJitter(ctx) {
		res.StatusLabel = model.ErrStatusLabel(model.ErrKindCanceled)
		return res
	}

	start := time.Now()
	finish := func() *model.ProbeResult {
		res.ElapsedMS = time.Since(start).Milliseconds()
		if p.evidenceOnly {
			res.ShouldPersist = res.VerifiedHit
		} else {
			res.ShouldPersist = res.HTTPOK
		}
		return res
	}

	u, err := url.Parse(res.URL)
	if err != nil || u.Host == "" {
		res.StatusLabel = model.ErrStatusLabel(model.ErrKindBadURL)
		return finish()
	}

	release, ok := p.gate.TryAcquire(u.Host)
	if !ok {
		p.logger.Debug("waiting for domain slot", "domain", u.Host)
		var err error
		release, err = p.gate.Acquire(ctx, u.Host)
		if err != nil {
			res.StatusLabel = model.ErrStatusLabel(model.ErrKindCanceled)
			return finish()
		}
	}
	defer release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.URL, nil)
	if err != nil {
		res.StatusLabel = model.ErrStatusLabel(model.ErrKindBadURL)
		return finish()
	}
	for key, values := range p.headers {
		for _, value := range values {
			req.Header.Set(key, value)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		kind := classifyErr(err)
		res.StatusLabel = model.ErrStatusLabel(kind)
		p.logger.Debug("probe transport failure",
			"site", task.Site.Name,
			"url", res.URL,
			"kind", kind,
			"error", err,
		)
		return finish()
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close

	res.StatusLabel = strconv.Itoa(resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		// 404 is a plain miss; any other status is recorded verbatim
		// and counted as a miss too.
		return finish()
	}

	res.HTTPOK = true
	body, err := decodeBody(resp.Body, resp.Header.Get("Content-Type"), p.maxBodySize)
	if err != nil {
		// 200 without a readable body cannot be verified.
		p.logger.Debug("body read failed", "url", res.URL, "error", err)
		return finish()
	}

	res.VerifiedHit = MatchesEvidence(body, task.Site.EvidencePatterns, task.Username)
	if res.VerifiedHit || !p.evidenceOnly {
		res.PageTitle = pageTitle(body)
	}
	return finish()
}

// sleepJitter waits the randomized pre-request delay. Returns false when
// the context was cancelled during the wait.
func (p *Prober) sleepJitter(ctx context.Context) bool {
	if p.jitterMax <= 0 {
		return ctx.Err() == nil
	}

	delay := p.jitterMin
	if spread := p.jitterMax - p.jitterMin; spread > 0 {
		delay += rand.N(spread)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// classifyErr maps a transport error to a typed error kind for the
// "ERR: <kind>" status label.
func classifyErr(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return model.ErrKindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return model.ErrKindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.ErrKindTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return model.ErrKindDNS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return model.ErrKindConnection
	}

	return model.ErrKindTransport
}
