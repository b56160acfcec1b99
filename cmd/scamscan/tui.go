package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nao1215/scamscan/internal/database"
	"github.com/nao1215/scamscan/internal/log"
	"github.com/nao1215/scamscan/internal/session"
	"github.com/nao1215/scamscan/internal/tui"
)

// NewTUICmd creates the tui subcommand.
func NewTUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Check messages in an interactive terminal UI",
		Long: `Open the interactive checker.

Type or paste a message and press Ctrl+S (or Alt+Enter) to check it.
When the classifier asks follow-up questions, answer them in the panel
below the result and press r to refine.

--initial-state loads a JSON document with a previous result, which is
shown as if it had just been checked:

  {"hasResult": true, "result": { ...classifier response... }}`,
		Args: cobra.NoArgs,
		RunE: runTUICmd,
	}

	addClassifierFlags(cmd)
	cmd.Flags().StringP("initial-state", "s", "", "JSON file with a result to show on start")
	cmd.Flags().String("log-file", "", "Write logs to this file (the screen is owned by the UI)")

	return cmd
}

// runTUICmd executes the tui command.
func runTUICmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	statePath, err := cmd.Flags().GetString("initial-state")
	if err != nil {
		return err
	}
	logPath, err := cmd.Flags().GetString("log-file")
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(filepath.Clean(logPath), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close() //nolint:errcheck // append-only log
		logOut = f
	}
	logger := log.NewSecureLogger(logOut, cfg.Verbose)

	var initial *session.InitialState
	if statePath != "" {
		if initial, err = session.LoadInitialStateFile(statePath); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newClassifier(ctx, cfg, logger)
	if err != nil {
		return err
	}

	history, err := database.OpenHistory(ctx)
	if err != nil {
		return err
	}
	defer history.Close() //nolint:errcheck // in-memory database

	sess := session.New(client,
		session.WithAnimator(newAnimator(cfg)),
		session.WithHistory(history),
		session.WithLogger(logger),
	)
	sess.Seed(ctx, initial)

	if err := tui.Run(ctx, sess,
		tea.WithAltScreen(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	if sess.Stats().Scans == 0 {
		return nil
	}
	return writeSummary(ctx, sess, cmd.OutOrStdout())
}
