package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Tests fail if defaults change unexpectedly.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Endpoint is the local classifier", func(t *testing.T) {
		t.Parallel()
		if cfg.Endpoint != "http://127.0.0.1:5000/api/analyze" {
			t.Errorf("expected local endpoint, got '%s'", cfg.Endpoint)
		}
	})

	t.Run("default Timeout is 60 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 60*time.Second {
			t.Errorf("expected Timeout to be 60s, got %v", cfg.Timeout)
		}
	})

	t.Run("default step delays are 220ms to 360ms", func(t *testing.T) {
		t.Parallel()
		if cfg.StepDelayMin != 220*time.Millisecond || cfg.StepDelayMax != 360*time.Millisecond {
			t.Errorf("expected 220ms-360ms, got %v-%v", cfg.StepDelayMin, cfg.StepDelayMax)
		}
	})

	t.Run("default proxy is empty", func(t *testing.T) {
		t.Parallel()
		if cfg.ProxyAddress != "" {
			t.Errorf("expected no proxy, got %q", cfg.ProxyAddress)
		}
	})

	t.Run("default config validates", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected default config to be valid, got %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "zero timeout is valid",
			mutate: func(c *Config) { c.Timeout = 0 },
		},
		{
			name:    "empty endpoint returns ErrNoEndpoint",
			mutate:  func(c *Config) { c.Endpoint = "" },
			wantErr: ErrNoEndpoint,
		},
		{
			name:    "relative endpoint returns ErrInvalidEndpoint",
			mutate:  func(c *Config) { c.Endpoint = "/api/analyze" },
			wantErr: ErrInvalidEndpoint,
		},
		{
			name:    "ftp endpoint returns ErrInvalidEndpoint",
			mutate:  func(c *Config) { c.Endpoint = "ftp://example.com/api" },
			wantErr: ErrInvalidEndpoint,
		},
		{
			name:    "negative timeout returns ErrInvalidTimeout",
			mutate:  func(c *Config) { c.Timeout = -1 * time.Second },
			wantErr: ErrInvalidTimeout,
		},
		{
			name: "min delay above max returns ErrInvalidStepDelay",
			mutate: func(c *Config) {
				c.StepDelayMin = time.Second
				c.StepDelayMax = time.Millisecond
			},
			wantErr: ErrInvalidStepDelay,
		},
		{
			name:    "negative delay returns ErrInvalidStepDelay",
			mutate:  func(c *Config) { c.StepDelayMin = -time.Millisecond },
			wantErr: ErrInvalidStepDelay,
		},
		{
			name: "json and markdown returns ErrConflictingReportFormats",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name: "markdown and html returns ErrConflictingReportFormats",
			mutate: func(c *Config) {
				c.MarkdownReport = true
				c.HTMLReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:   "html only is valid",
			mutate: func(c *Config) { c.HTMLReport = true },
		},
		{
			name:    "negative body size returns ErrInvalidMaxBodySize",
			mutate:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
		{
			name:    "proxy without port returns ErrInvalidProxyAddress",
			mutate:  func(c *Config) { c.ProxyAddress = "127.0.0.1" },
			wantErr: ErrInvalidProxyAddress,
		},
		{
			name:    "proxy with bad port returns ErrInvalidProxyAddress",
			mutate:  func(c *Config) { c.ProxyAddress = "127.0.0.1:70000" },
			wantErr: ErrInvalidProxyAddress,
		},
		{
			name:   "valid proxy",
			mutate: func(c *Config) { c.ProxyAddress = "127.0.0.1:9050" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestConfigApplyFile tests overlaying file values onto the config.
func TestConfigApplyFile(t *testing.T) {
	t.Parallel()

	t.Run("nil file changes nothing", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(nil)
		if cfg.Endpoint != DefaultEndpoint {
			t.Errorf("endpoint changed to %q", cfg.Endpoint)
		}
	})

	t.Run("set values override defaults", func(t *testing.T) {
		t.Parallel()

		timeout := 5 * time.Second
		minDelay := 10 * time.Millisecond
		cfg := NewConfig()
		cfg.ApplyFile(&File{
			Endpoint: "https://scan.example.com/api/analyze",
			Timeout:  &timeout,
			Proxy:    "127.0.0.1:9050",
			Headers:  map[string]string{"X-Api-Key": "secret"},
			Progress: ProgressConfig{MinDelay: &minDelay, Disabled: true},
		})

		if cfg.Endpoint != "https://scan.example.com/api/analyze" {
			t.Errorf("unexpected endpoint %q", cfg.Endpoint)
		}
		if cfg.Timeout != timeout {
			t.Errorf("expected timeout %v, got %v", timeout, cfg.Timeout)
		}
		if cfg.ProxyAddress != "127.0.0.1:9050" {
			t.Errorf("unexpected proxy %q", cfg.ProxyAddress)
		}
		if cfg.Headers["X-Api-Key"] != "secret" {
			t.Errorf("expected header to be copied, got %v", cfg.Headers)
		}
		if cfg.StepDelayMin != minDelay || cfg.StepDelayMax != DefaultStepDelayMax {
			t.Errorf("unexpected delays %v-%v", cfg.StepDelayMin, cfg.StepDelayMax)
		}
		if !cfg.NoProgress {
			t.Error("expected progress to be disabled")
		}
	})

	t.Run("explicit zero timeout disables the deadline", func(t *testing.T) {
		t.Parallel()

		zero := time.Duration(0)
		cfg := NewConfig()
		cfg.ApplyFile(&File{Timeout: &zero})
		if cfg.Timeout != 0 {
			t.Errorf("expected zero timeout, got %v", cfg.Timeout)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.scamscan")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".scamscan")
		content := `endpoint: "https://scan.example.com/api/analyze"
timeout: 30s
proxy: "127.0.0.1:9050"
headers:
  X-Api-Key: "abc"
progress:
  minDelay: 100ms
  maxDelay: 200ms
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Endpoint != "https://scan.example.com/api/analyze" {
			t.Errorf("unexpected endpoint %q", cfg.Endpoint)
		}
		if cfg.Timeout == nil || *cfg.Timeout != 30*time.Second {
			t.Errorf("expected 30s timeout, got %v", cfg.Timeout)
		}
		if cfg.Headers["X-Api-Key"] != "abc" {
			t.Errorf("expected X-Api-Key header, got %v", cfg.Headers)
		}
		if cfg.Progress.MaxDelay == nil || *cfg.Progress.MaxDelay != 200*time.Millisecond {
			t.Errorf("expected 200ms max delay, got %v", cfg.Progress.MaxDelay)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".scamscan")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Headers map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".scamscan")
		if err := os.WriteFile(configPath, []byte("endpoint: http://localhost:5000/api/analyze\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Headers == nil {
			t.Error("expected Headers map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("endpoint: http://localhost/"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("finds config in current directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		configPath := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte("endpoint: http://localhost/"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		result := FindConfigFile("")
		if filepath.Base(result) != DefaultConfigFile {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	dir := XDGConfigDir()
	if dir == "" || !strings.HasSuffix(dir, AppName) {
		t.Errorf("unexpected XDG config dir %q", dir)
	}
	if file := XDGConfigFile(); filepath.Dir(file) != dir {
		t.Errorf("expected config file in %q, got %q", dir, file)
	}
}
