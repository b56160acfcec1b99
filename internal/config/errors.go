package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() to distinguish them.
var (
	// ErrNoEndpoint is returned when the classifier endpoint URL is empty.
	ErrNoEndpoint = errors.New("no endpoint specified: set --endpoint or 'endpoint' in the config file")

	// ErrInvalidEndpoint is returned when the endpoint is not an absolute http(s) URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint: must be an absolute http or https URL")

	// ErrInvalidTimeout is returned when the timeout is negative.
	// Zero is allowed and means the request waits without a deadline.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidStepDelay is returned when the progress delay range is
	// negative or its minimum exceeds its maximum.
	ErrInvalidStepDelay = errors.New("invalid progress delay: need 0 <= min <= max")

	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown and --html is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: only one of --json, --markdown and --html can be used")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidProxyAddress is returned when the SOCKS5 proxy address is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: must be host:port")
)
