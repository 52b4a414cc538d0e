package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Where a default mirrors the classic
// username-checker behavior (timeout, thread count, jitter, domain limit)
// the original value is kept so existing site lists behave identically.
const (
	// DefaultSitesFile is the default site list path, resolved relative
	// to the working directory.
	DefaultSitesFile = "sites.yml"

	// DefaultHeadersFile is the default header configuration path.
	DefaultHeadersFile = "headers.yml"

	// DefaultTimeout is the per-request timeout. Ten seconds is generous
	// for profile pages while keeping dead sites from stalling a run.
	DefaultTimeout = 10 * time.Second

	// DefaultThreads is the requested worker-pool size. The effective
	// size is clamped to available parallelism by the engine.
	DefaultThreads = 32

	// DefaultDomainLimit caps in-flight requests per target domain.
	// Three concurrent requests is low enough to stay under most
	// rate limiters while still overlapping latency.
	DefaultDomainLimit = 3

	// DefaultLinksOut is the default append-only file for positive URLs.
	DefaultLinksOut = "hits.txt"

	// DefaultMaxBodySize limits how much of a response body is read for
	// evidence matching. Profile pages are small; 2MB is plenty and
	// bounds memory under high concurrency.
	DefaultMaxBodySize = 2 * 1024 * 1024

	// Jitter bounds for the randomized pre-request delay. Spreading
	// request starts avoids bursts against a single domain.
	DefaultJitterMin = 80 * time.Millisecond
	DefaultJitterMax = 250 * time.Millisecond

	// AppName is used for XDG directory paths.
	AppName = "userscout"
)

// Config holds all options for a scan run.
//
// Design decision: a single flat struct populated from CLI flags and
// passed by reference, rather than global state. The option count is
// manageable and nesting would add complexity without benefit.
type Config struct {
	// SitesFile is the path to the YAML site list.
	SitesFile string

	// HeadersFile is the path to the YAML header configuration.
	HeadersFile string

	// Usernames are the account names to check.
	Usernames []string

	// Only restricts the run to sites whose names match (case-insensitive).
	// Empty means all sites.
	Only []string

	// Threads is the requested worker-pool size.
	Threads int

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// Proxy is an optional proxy URL (http://, https://, or socks5://).
	Proxy string

	// DomainLimit caps concurrent in-flight requests per domain.
	DomainLimit int

	// EvidenceOnly selects the hit mode: when true only evidence-verified
	// hits are persisted; when false any HTTP 200 qualifies.
	EvidenceOnly bool

	// LinksOut is the append-only de-duplicated file that receives each
	// positive URL as soon as it is confirmed. Empty disables streaming.
	LinksOut string

	// HitsOut is an optional JSONL export path, written after the run.
	HitsOut string

	// CSVOut is an optional CSV export path, written after the run.
	CSVOut string

	// XLSXOut is an optional XLSX export path, written after the run.
	XLSXOut string

	// MarkdownOut is an optional Markdown summary path, written after the run.
	MarkdownOut string

	// SaveToDB records verified hits in the hit-history database.
	SaveToDB bool

	// DBDir is the directory holding the hit-history database.
	// Defaults to the XDG data directory.
	DBDir string

	// NoColor disables ANSI colors on console output.
	NoColor bool

	// Verbose enables slog.LevelDebug logging.
	Verbose bool
}

// NewConfig returns a Config populated with defaults.
//
// Design decision: a constructor instead of zero values because most
// defaults are non-zero, and the constructor documents them in one place.
func NewConfig() *Config {
	return &Config{
		SitesFile:    DefaultSitesFile,
		HeadersFile:  DefaultHeadersFile,
		Threads:      DefaultThreads,
		Timeout:      DefaultTimeout,
		DomainLimit:  DefaultDomainLimit,
		EvidenceOnly: true,
		LinksOut:     DefaultLinksOut,
		SaveToDB:     true,
		DBDir:        XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for userscout
// (~/.local/share/userscout on Linux).
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration, returning the first problem found.
// Called once after CLI parsing and the interactive username prompt,
// before any probing begins.
func (c *Config) Validate() error {
	if len(c.Usernames) == 0 {
		return ErrNoUsernames
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Threads <= 0 {
		return ErrInvalidThreads
	}
	if c.DomainLimit <= 0 {
		return ErrInvalidDomainLimit
	}
	return nil
}
