package config

import "time"

// ProgressConfig tunes the progress animation shown while a request runs.
type ProgressConfig struct {
	// MinDelay and MaxDelay bound the random pause between steps.
	// Nil keeps the built-in default.
	MinDelay *time.Duration `yaml:"minDelay,omitempty"`
	MaxDelay *time.Duration `yaml:"maxDelay,omitempty"`

	// Disabled turns the animation off.
	Disabled bool `yaml:"disabled,omitempty"`
}

// File represents the structure of the .scamscan configuration file.
type File struct {
	// Endpoint is the classification API URL.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Timeout is the per-request deadline, e.g. "30s". "0s" disables it.
	Timeout *time.Duration `yaml:"timeout,omitempty"`

	// Proxy is an optional SOCKS5 proxy address in host:port format.
	Proxy string `yaml:"proxy,omitempty"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Headers are extra HTTP headers sent to the classifier.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Progress configures the progress animation.
	Progress ProgressConfig `yaml:"progress,omitempty"`
}
