package config

import (
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultEndpoint is the classification API served by a locally running
	// classifier (or `scamscan mock`).
	DefaultEndpoint = "http://127.0.0.1:5000/api/analyze"

	// DefaultTimeout bounds a single classification request. The classifier
	// may load a model on first use, so this is generous.
	DefaultTimeout = 60 * time.Second

	// DefaultStepDelayMin and DefaultStepDelayMax bound the random pause
	// between progress steps.
	DefaultStepDelayMin = 220 * time.Millisecond
	DefaultStepDelayMax = 360 * time.Millisecond

	// AppName is the application name used for XDG directory paths.
	AppName = "scamscan"

	// DefaultUserAgent identifies scamscan in HTTP requests.
	DefaultUserAgent = "scamscan/1.0 (+https://github.com/nao1215/scamscan)"

	// DefaultMaxBodySize limits the classifier response body that is read.
	DefaultMaxBodySize = 1 * 1024 * 1024 // 1MB
)

// Config holds all configuration options for scamscan.
// It is populated from defaults, the config file and CLI flags, in that
// order, and passed through the application rather than kept as global state.
type Config struct {
	// Endpoint is the URL of the classification API (POST, JSON).
	Endpoint string

	// Timeout is the per-request deadline for the classifier.
	// Zero disables the deadline.
	Timeout time.Duration

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	// When empty, requests go directly to Endpoint.
	ProxyAddress string

	// Headers are extra HTTP headers sent with every classifier request,
	// for example an API key.
	Headers map[string]string

	// StepDelayMin and StepDelayMax bound the random delay between progress
	// steps shown while a request is in flight.
	StepDelayMin time.Duration
	StepDelayMax time.Duration

	// NoProgress disables the progress animation entirely.
	NoProgress bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport and HTMLReport.
	JSONReport bool

	// MarkdownReport enables GitHub Flavored Markdown report output.
	// Mutually exclusive with JSONReport and HTMLReport.
	MarkdownReport bool

	// HTMLReport enables a standalone HTML page with the highlighted preview.
	// Mutually exclusive with JSONReport and MarkdownReport.
	HTMLReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// UserAgent is the User-Agent header sent with classifier requests.
	UserAgent string

	// MaxBodySize is the maximum classifier response size in bytes to read.
	// Set to 0 to use the default (1MB).
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Endpoint:     DefaultEndpoint,
		Timeout:      DefaultTimeout,
		StepDelayMin: DefaultStepDelayMin,
		StepDelayMax: DefaultStepDelayMax,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
	}
}

// XDGConfigDir returns the XDG config directory for scamscan.
// On Linux: ~/.config/scamscan
// On macOS: ~/Library/Application Support/scamscan
// On Windows: %APPDATA%\scamscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGConfigFile returns the config file path inside XDGConfigDir.
func XDGConfigFile() string {
	return filepath.Join(XDGConfigDir(), "config.yaml")
}

// ApplyFile overlays the values set in a config file onto c.
// Unset file values leave the current configuration untouched.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.Endpoint != "" {
		c.Endpoint = f.Endpoint
	}
	if f.Timeout != nil {
		c.Timeout = *f.Timeout
	}
	if f.Proxy != "" {
		c.ProxyAddress = f.Proxy
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.Progress.MinDelay != nil {
		c.StepDelayMin = *f.Progress.MinDelay
	}
	if f.Progress.MaxDelay != nil {
		c.StepDelayMax = *f.Progress.MaxDelay
	}
	if f.Progress.Disabled {
		c.NoProgress = true
	}
	if len(f.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(f.Headers))
		}
		for k, v := range f.Headers {
			c.Headers[k] = v
		}
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors in errors.go.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrNoEndpoint
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidEndpoint
	}

	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}

	if c.StepDelayMin < 0 || c.StepDelayMax < 0 || c.StepDelayMin > c.StepDelayMax {
		return ErrInvalidStepDelay
	}

	formats := 0
	for _, on := range []bool{c.JSONReport, c.MarkdownReport, c.HTMLReport} {
		if on {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.ProxyAddress != "" && !validHostPort(c.ProxyAddress) {
		return ErrInvalidProxyAddress
	}

	return nil
}

// validHostPort reports whether addr is host:port with a port in 1-65535.
func validHostPort(addr string) bool {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n > 0 && n <= 65535
}
