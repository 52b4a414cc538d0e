package probe

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	xproxy "golang.org/x/net/proxy"
)

// Retry policy for transient server and rate-limit statuses. This lives
// in the transport so the prober itself never retries; stacking a second
// retry layer on top would multiply request counts.
const (
	// maxRetries bounds how many times a retryable status is retried.
	maxRetries = 3

	// retryBackoffBase is the first backoff delay; each subsequent
	// retry doubles it (0.5s, 1s, 2s).
	retryBackoffBase = 500 * time.Millisecond
)

// retryableStatus reports whether a response status warrants a retry.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// retryTransport wraps a base RoundTripper with bounded retry and
// exponential backoff on transient statuses. Probe requests are GETs
// with no body, so replaying them is always safe.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

// RoundTrip implements http.RoundTripper.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := t.base.RoundTrip(req)
		if err != nil {
			// Network errors surface immediately; the caller encodes
			// them in the probe result.
			return nil, err
		}
		if !retryableStatus(resp.StatusCode) || attempt >= t.maxRetries {
			return resp, nil
		}

		// Drain so the connection can be reused for the retry.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10)) //nolint:errcheck // Best effort drain
		_ = resp.Body.Close()                                         //nolint:errcheck // Best effort close

		timer := time.NewTimer(t.backoff << attempt)
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}
	}
}

// NewClient builds the HTTP client shared by all probes in a run.
// Redirects are followed (net/http's default 10-hop cap) and timeout
// applies per request. proxyAddr may be empty, an http(s):// URL, or a
// socks5:// URL.
func NewClient(timeout time.Duration, proxyAddr string) (*http.Client, error) {
	transport := &http.Transport{
		MaxIdleConns:        64,
		MaxIdleConnsPerHost: 8,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if proxyAddr != "" {
		u, err := url.Parse(proxyAddr)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", proxyAddr, err)
		}
		switch u.Scheme {
		case "http", "https":
			transport.Proxy = http.ProxyURL(u)
		case "socks5", "socks5h":
			dialer, err := xproxy.FromURL(u, xproxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("socks proxy %q: %w", proxyAddr, err)
			}
			if cd, ok := dialer.(xproxy.ContextDialer); ok {
				transport.DialContext = cd.DialContext
			} else {
				transport.Dial = dialer.Dial //nolint:staticcheck // Fallback for dialers without context support
			}
		default:
			return nil, fmt.Errorf("unsupported proxy scheme %q (use http, https, or socks5)", u.Scheme)
		}
	}

	return &http.Client{
		Transport: &retryTransport{
			base:       transport,
			maxRetries: maxRetries,
			backoff:    retryBackoffBase,
		},
		Timeout: timeout,
	}, nil
}
