package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nao1215/scamscan/internal/classifier"
	"github.com/nao1215/scamscan/internal/config"
	"github.com/nao1215/scamscan/internal/progress"
)

// addClassifierFlags registers the flags of commands that talk to the
// classification API.
func addClassifierFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("endpoint", "e", config.DefaultEndpoint, "Classification API URL")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Per-request timeout (0 disables it)")
	cmd.Flags().StringP("proxy", "x", "", "SOCKS5 proxy address (host:port)")
	cmd.Flags().Bool("no-progress", false, "Disable the progress animation")
	cmd.Flags().StringP("config", "c", "", "Config file path (default: .scamscan in current or home directory)")
}

// buildConfig creates a Config from the config file and command flags.
// Flags that were set explicitly win over the config file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configPath

	// An explicitly specified config file must exist.
	path := config.FindConfigFile(configPath)
	if configPath != "" && path == "" {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}
	if path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		if file != nil {
			cfg.ApplyFile(file)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		if cfg.Endpoint, err = flags.GetString("endpoint"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("no-progress") {
		if cfg.NoProgress, err = flags.GetBool("no-progress"); err != nil {
			return nil, err
		}
	}

	if cfg.Verbose, err = cmd.Flags().GetBool("verbose"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newClassifier creates the classification API client for cfg. When a
// proxy is configured it is checked before any message is sent.
func newClassifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*classifier.Client, error) {
	client, err := classifier.NewClient(cfg.Endpoint,
		classifier.WithTimeout(cfg.Timeout),
		classifier.WithProxy(cfg.ProxyAddress),
		classifier.WithHeaders(cfg.Headers),
		classifier.WithUserAgent(cfg.UserAgent),
		classifier.WithMaxBodySize(cfg.MaxBodySize),
		classifier.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier client: %w", err)
	}

	if cfg.ProxyAddress != "" {
		logger.Info("checking proxy connection", "proxy", cfg.ProxyAddress)
		if status := client.CheckProxy(ctx); status != classifier.ProxyStatusOK {
			return nil, status.Error()
		}
	}

	return client, nil
}

// newAnimator creates the progress animator for cfg.
func newAnimator(cfg *config.Config) *progress.Animator {
	return progress.New(
		progress.WithDelay(cfg.StepDelayMin, cfg.StepDelayMax),
		progress.WithDisabled(cfg.NoProgress),
	)
}

// progressSink prints progress lines to w.
func progressSink(w io.Writer) func(string) {
	return func(line string) {
		fmt.Fprintf(w, "  › %s\n", line)
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// openOutput returns the destination of the report: the file at path, or
// w when path is empty. The returned close function is never nil.
func openOutput(path string, w io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return w, func() error { return nil }, nil
	}

	// Create parent directories if needed (0750 for security)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Create file with restricted permissions (0600)
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
