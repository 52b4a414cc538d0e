package probe

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// testClient builds a client with a fast retry schedule so tests finish
// quickly while still exercising the retry path.
func testClient(t *testing.T) *http.Client {
	t.Helper()
	return &http.Client{
		Transport: &retryTransport{
			base:       http.DefaultTransport,
			maxRetries: maxRetries,
			backoff:    time.Millisecond,
		},
		Timeout: 5 * time.Second,
	}
}

// TestRetryTransportRetriesTransientStatuses verifies bounded retry with
// eventual success on a transient status.
func TestRetryTransportRetriesTransientStatuses(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := testClient(t).Get(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 after retries, got %d", resp.StatusCode)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 requests, got %d", got)
	}
}

// TestRetryTransportDoesNotRetryFinalStatuses verifies that ordinary
// statuses pass through untouched.
func TestRetryTransportDoesNotRetryFinalStatuses(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	resp, err := testClient(t).Get(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected exactly 1 request, got %d", got)
	}
}

// TestRetryTransportGivesUpAfterMaxRetries verifies the retry bound: the
// last transient response is surfaced once retries are exhausted.
func TestRetryTransportGivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	resp, err := testClient(t).Get(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected 429 to surface, got %d", resp.StatusCode)
	}
	if got := calls.Load(); got != int32(maxRetries)+1 {
		t.Errorf("expected %d requests, got %d", maxRetries+1, got)
	}
}

// TestRetryableStatus documents the transient status set.
func TestRetryableStatus(t *testing.T) {
	t.Parallel()

	for _, code := range []int{429, 500, 502, 503, 504} {
		if !retryableStatus(code) {
			t.Errorf("expected %d to be retryable", code)
		}
	}
	for _, code := range []int{200, 301, 403, 404, 501} {
		if retryableStatus(code) {
			t.Errorf("expected %d to be final", code)
		}
	}
}

// TestNewClient verifies client construction and proxy validation.
func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("no proxy", func(t *testing.T) {
		t.Parallel()
		client, err := NewClient(10*time.Second, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.Timeout != 10*time.Second {
			t.Errorf("expected 10s timeout, got %v", client.Timeout)
		}
	})

	t.Run("http proxy", func(t *testing.T) {
		t.Parallel()
		if _, err := NewClient(time.Second, "http://127.0.0.1:8080"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("socks5 proxy", func(t *testing.T) {
		t.Parallel()
		if _, err := NewClient(time.Second, "socks5://127.0.0.1:9050"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("unsupported scheme is rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := NewClient(time.Second, "ftp://127.0.0.1:21"); err == nil {
			t.Error("expected error for unsupported proxy scheme")
		}
	})
}
