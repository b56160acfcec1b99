package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/nao1215/scamscan/internal/log"
	"github.com/nao1215/scamscan/internal/model"
)

// Defaults used when the corresponding option is not given.
const (
	defaultUserAgent   = "scamscan"
	defaultMaxBodySize = 1 * 1024 * 1024
)

// Client calls the classification API.
// It is safe for concurrent use.
type Client struct {
	// endpoint is the absolute URL requests are POSTed to.
	endpoint string

	// httpClient performs the requests. It has no client-level timeout;
	// the deadline is applied per request through the context.
	httpClient *http.Client

	// timeout bounds each request. Zero means no deadline.
	timeout time.Duration

	// proxyAddress is the optional SOCKS5 proxy in host:port format.
	proxyAddress string

	userAgent   string
	headers     map[string]string
	maxBodySize int64
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero disables the deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// WithProxy routes requests through the SOCKS5 proxy at address.
// An empty address keeps direct connections.
func WithProxy(address string) Option {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// WithHeaders adds extra headers, such as an API key, to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxBodySize limits how many response bytes are read.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client. WithProxy is ignored
// when a client is supplied.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the API at endpoint.
// It validates the endpoint and proxy address but does not contact either.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}

	c := &Client{
		endpoint:    endpoint,
		userAgent:   defaultUserAgent,
		headers:     make(map[string]string),
		maxBodySize: defaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	if c.httpClient == nil {
		transport := http.DefaultTransport
		if c.proxyAddress != "" {
			pt, err := newProxyTransport(c.proxyAddress)
			if err != nil {
				return nil, err
			}
			transport = pt
		}
		c.httpClient = &http.Client{Transport: transport}
	}

	return c, nil
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// ProxyAddress returns the configured proxy address, if any.
func (c *Client) ProxyAddress() string {
	return c.proxyAddress
}

// CheckProxy runs the SOCKS5 handshake check against the configured proxy,
// using the endpoint host as the CONNECT target. It returns ProxyStatusOK
// when no proxy is configured.
func (c *Client) CheckProxy(ctx context.Context) ProxyStatus {
	if c.proxyAddress == "" {
		return ProxyStatusOK
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return ProxyStatusWrongType
	}
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}

	return CheckProxy(ctx, c.proxyAddress, net.JoinHostPort(u.Hostname(), port))
}

// Analyze sends req to the classifier and decodes the result.
// Any failure is returned as a *NetworkError.
func (c *Client) Analyze(ctx context.Context, req model.ScanRequest) (*model.ScanResult, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	attrs := append(log.MessageAttrs(req.Message),
		"endpoint", c.endpoint,
		"followup_submitted", req.FollowupSubmitted,
		"answers", len(req.FollowupAnswers),
	)
	c.logger.Debug("sending classification request", attrs...)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("classification request failed", "endpoint", c.endpoint, "error", err)
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, &NetworkError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("classifier returned an error status",
			"endpoint", c.endpoint,
			"status_code", resp.StatusCode,
		)
		return nil, &NetworkError{StatusCode: resp.StatusCode, Body: truncate(string(data), maxErrorBody)}
	}

	if int64(len(data)) > c.maxBodySize {
		return nil, &NetworkError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("response exceeds %d bytes", c.maxBodySize),
		}
	}

	var result model.ScanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &NetworkError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(data), maxErrorBody),
			Err:        err,
		}
	}

	c.logger.Debug("classification completed",
		"status", result.Status,
		"probability", result.Probability,
		"elapsed", time.Since(start),
	)

	return &result, nil
}

// truncate shortens s to at most n bytes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// IsNetworkError reports whether err is or wraps a *NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
