package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoUsernames is returned when no username is supplied via
	// arguments, --userlist, or the interactive prompt.
	ErrNoUsernames = errors.New("no usernames specified: pass usernames as arguments or use --userlist")

	// ErrInvalidTimeout is returned when the per-request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidThreads is returned when the requested worker count is not positive.
	ErrInvalidThreads = errors.New("invalid threads: must be positive")

	// ErrInvalidDomainLimit is returned when the per-domain concurrency
	// limit is not positive.
	ErrInvalidDomainLimit = errors.New("invalid domain limit: must be positive")

	// ErrUnrecognizedSiteList is returned when the site list YAML root is
	// neither a sequence nor a mapping.
	ErrUnrecognizedSiteList = errors.New("site list format not recognized: use a list or a mapping")

	// ErrEmptySiteList is returned when normalization yields no usable sites.
	ErrEmptySiteList = errors.New("site list contains no usable entries")
)
