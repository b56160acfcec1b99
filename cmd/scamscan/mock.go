package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/scamscan/internal/log"
	"github.com/nao1215/scamscan/internal/mockclassifier"
)

// shutdownTimeout bounds how long the mock server waits for open requests.
const shutdownTimeout = 5 * time.Second

// NewMockCmd creates the mock subcommand.
func NewMockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Run a local mock of the classification API",
		Long: `Serve a keyword-based stand-in for the classification API.

The mock accepts the same requests as the real service on
POST /api/analyze, scores messages with a small word model and asks
follow-up questions for uncertain results. It is meant for development
and demos; its verdicts are not reliable.

Examples:
  scamscan mock
  scamscan mock --addr 127.0.0.1:8080 --delay 500ms`,
		Args: cobra.NoArgs,
		RunE: runMockCmd,
	}

	cmd.Flags().String("addr", mockclassifier.DefaultAddr, "Listen address")
	cmd.Flags().Duration("delay", 0, "Artificial delay before each response")

	return cmd
}

// runMockCmd executes the mock command.
func runMockCmd(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	delay, err := cmd.Flags().GetDuration("delay")
	if err != nil {
		return err
	}
	if delay < 0 {
		return fmt.Errorf("invalid delay %s: must not be negative", delay)
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, baseURL, err := mockclassifier.Start(addr,
		mockclassifier.WithDelay(delay),
		mockclassifier.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Mock classifier listening on %s%s (Ctrl+C to stop)\n", baseURL, mockclassifier.AnalyzePath)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down mock classifier")
	if err := shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down mock classifier: %w", err)
	}
	return nil
}
