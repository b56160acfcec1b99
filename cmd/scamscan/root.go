package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for scamscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scamscan",
		Short: "Scam risk assessment for text messages",
		Long: `scamscan checks text messages (SMS, chat, e-mail snippets) for scam intent.

Each message is sent to a classification API which returns a scam
probability, the terms that drove the decision, and advice. When the
classifier is not sure, it asks yes/no follow-up questions; answering them
refines the result.

Use "scamscan mock" to run a local stand-in for the classification API.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewTUICmd())
	cmd.AddCommand(NewMockCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
