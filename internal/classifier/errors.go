package classifier

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
// Expected format is "host:port".
var ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

// ErrInvalidEndpoint is returned when the endpoint is not an absolute http(s) URL.
var ErrInvalidEndpoint = errors.New("invalid endpoint: expected an absolute http or https URL")

// maxErrorBody is how much of a failed response body is kept for diagnostics.
const maxErrorBody = 512

// NetworkError reports a failed classification request.
// StatusCode is zero when no response was received.
type NetworkError struct {
	// StatusCode is the HTTP status of the response, or 0 for transport failures.
	StatusCode int

	// Body is the start of the response body, for diagnostics.
	Body string

	// Err is the underlying transport or decode error, if any.
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("classifier request failed: %v", e.Err)
	case e.Err != nil:
		return fmt.Sprintf("invalid classifier response (status %d): %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
	}
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request failed because a deadline passed.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// ProxyStatus represents the result of checking the SOCKS5 proxy.
type ProxyStatus int

const (
	// ProxyStatusOK indicates the proxy is a working SOCKS5 proxy.
	ProxyStatusOK ProxyStatus = iota

	// ProxyStatusWrongType indicates the proxy answered but did not speak
	// unauthenticated SOCKS5.
	ProxyStatusWrongType

	// ProxyStatusCannotConnect indicates we could not establish a connection.
	ProxyStatusCannotConnect

	// ProxyStatusTimeout indicates the connection attempt timed out.
	ProxyStatusTimeout
)

// Proxy check errors, returned by ProxyStatus.Error.
var (
	ErrProxyNotSOCKS5     = errors.New("proxy is not an unauthenticated SOCKS5 proxy")
	ErrProxyCannotConnect = errors.New("cannot connect to proxy")
	ErrProxyTimeout       = errors.New("timeout connecting to proxy")
)

// String returns a human-readable description of the proxy status.
func (s ProxyStatus) String() string {
	switch s {
	case ProxyStatusOK:
		return "OK"
	case ProxyStatusWrongType:
		return "wrong type (not SOCKS5)"
	case ProxyStatusCannotConnect:
		return "cannot connect"
	case ProxyStatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error returns the appropriate error for this status, or nil if OK.
func (s ProxyStatus) Error() error {
	switch s {
	case ProxyStatusOK:
		return nil
	case ProxyStatusWrongType:
		return ErrProxyNotSOCKS5
	case ProxyStatusCannotConnect:
		return ErrProxyCannotConnect
	case ProxyStatusTimeout:
		return ErrProxyTimeout
	default:
		return errors.New("unknown proxy status")
	}
}
