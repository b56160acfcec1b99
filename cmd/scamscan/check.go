package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/scamscan/internal/config"
	"github.com/nao1215/scamscan/internal/database"
	"github.com/nao1215/scamscan/internal/log"
	"github.com/nao1215/scamscan/internal/model"
	"github.com/nao1215/scamscan/internal/pipeline"
	"github.com/nao1215/scamscan/internal/report"
	"github.com/nao1215/scamscan/internal/session"
)

// NewCheckCmd creates the check subcommand.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [message]",
		Short: "Check one or more messages for scam intent",
		Long: `Send a message to the classification API and print the verdict.

The message is taken from the arguments (joined by spaces) or, with
--file, from a file holding one message per line. Use "--file -" to read
from stdin. Blank lines and lines starting with '#' are skipped.

When the classifier is not sure, it returns follow-up questions. Answer
them up front with --answer, or interactively with --ask, and the result
is refined.

Examples:
  scamscan check "You won a prize! Click here to claim"
  scamscan check --file inbox.txt --json
  scamscan check --answer q1=yes --answer q2=no "Please verify your account"
  scamscan check --ask "Your parcel is waiting"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	addClassifierFlags(cmd)
	cmd.Flags().StringP("file", "f", "", "Read messages from a file, one per line (\"-\" for stdin)")
	cmd.Flags().StringArrayP("answer", "a", nil, "Answer a follow-up question (id=yes|no, repeatable)")
	cmd.Flags().Bool("ask", false, "Ask follow-up questions interactively")
	cmd.Flags().BoolP("json", "j", false, "Output report in JSON format")
	cmd.Flags().BoolP("markdown", "m", false, "Output report in Markdown format")
	cmd.Flags().Bool("html", false, "Output report as a standalone HTML page")
	cmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")

	return cmd
}

// checkOptions holds the check-only flags.
type checkOptions struct {
	file    string
	answers map[string]model.Answer
	ask     bool
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, opts, err := buildCheckConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	logger := log.NewSecureLogger(stderr, cfg.Verbose)

	messages, err := readCheckMessages(cmd.InOrStdin(), opts.file, args)
	if err != nil {
		return err
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

	out, closeOut, err := openOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}
	defer closeOut() //nolint:errcheck // best effort on the error path

	var sink func(string)
	if !cfg.NoProgress {
		sink = progressSink(stderr)
	}

	followupOpts := []pipeline.FollowupStepOption{pipeline.WithAnswers(opts.answers)}
	if opts.ask {
		followupOpts = append(followupOpts, pipeline.WithAsker(newPromptAsker(cmd.InOrStdin(), stderr)))
	}

	p, err := pipeline.DefaultPipeline(sess, newReportWriter(cfg, out, len(messages) > 1), sink,
		[]pipeline.Option{pipeline.WithLogger(logger), pipeline.WithContinueOnError(true)},
		followupOpts...,
	)
	if err != nil {
		return err
	}

	failed := 0
	jobs, err := pipeline.NewBatch(p, pipeline.WithBatchLogger(logger)).Process(ctx, messages, func(job *pipeline.Job) {
		if job.Failed() {
			failed++
			fmt.Fprintf(stderr, "message %d: %v\n", job.Index+1, job.Err)
		}
	})
	if err != nil {
		return fmt.Errorf("check interrupted after %d of %d messages: %w", len(jobs), len(messages), err)
	}

	if len(messages) > 1 {
		if err := writeSummary(ctx, sess, summaryOutput(cfg, stdout, stderr)); err != nil {
			return err
		}
	}

	if err := closeOut(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if cfg.ReportFile != "" {
		logger.Info("report saved", "path", cfg.ReportFile)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d messages could not be checked", failed, len(messages))
	}
	return nil
}

// buildCheckConfig builds the shared configuration plus the check-only
// options.
func buildCheckConfig(cmd *cobra.Command) (*config.Config, *checkOptions, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, nil, err
	}
	if cfg.HTMLReport, err = cmd.Flags().GetBool("html"); err != nil {
		return nil, nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, nil, err
	}

	opts := &checkOptions{}
	if opts.file, err = cmd.Flags().GetString("file"); err != nil {
		return nil, nil, err
	}
	if opts.ask, err = cmd.Flags().GetBool("ask"); err != nil {
		return nil, nil, err
	}
	rawAnswers, err := cmd.Flags().GetStringArray("answer")
	if err != nil {
		return nil, nil, err
	}
	if opts.answers, err = parseAnswers(rawAnswers); err != nil {
		return nil, nil, err
	}

	if opts.ask && opts.file == "-" {
		return nil, nil, errors.New("--ask cannot be used while reading messages from stdin")
	}

	return cfg, opts, nil
}

// parseAnswers parses "id=yes|no" pairs.
func parseAnswers(raw []string) (map[string]model.Answer, error) {
	answers := make(map[string]model.Answer, len(raw))
	for _, kv := range raw {
		id, value, ok := strings.Cut(kv, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid answer %q: expected id=yes|no", kv)
		}
		a, err := model.ParseAnswer(value)
		if err != nil {
			return nil, fmt.Errorf("invalid answer %q: %w", kv, err)
		}
		answers[id] = a
	}
	return answers, nil
}

// readCheckMessages returns the messages to check, from the file flag or
// from the arguments.
func readCheckMessages(stdin io.Reader, file string, args []string) ([]string, error) {
	if file != "" && len(args) > 0 {
		return nil, errors.New("specify either a message or --file, not both")
	}

	if file == "" {
		message := strings.TrimSpace(strings.Join(args, " "))
		if message == "" {
			return nil, errors.New("no message to check: pass it as an argument or use --file")
		}
		return []string{message}, nil
	}

	var r io.Reader = stdin
	if file != "-" {
		f, err := os.Open(file) //nolint:gosec // User-provided input path is intentional
		if err != nil {
			return nil, fmt.Errorf("failed to open message file: %w", err)
		}
		defer f.Close() //nolint:errcheck // read-only file
		r = f
	}

	messages, err := pipeline.ReadMessages(r)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages found in %s", file)
	}
	return messages, nil
}

// newReportWriter selects the report writer for cfg. batch switches JSON
// to one compact object per line.
func newReportWriter(cfg *config.Config, out io.Writer, batch bool) report.Writer {
	switch {
	case cfg.JSONReport:
		if batch {
			return report.NewJSONWriter(out)
		}
		return report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	case cfg.HTMLReport:
		return report.NewHTMLWriter(out)
	default:
		return report.NewSimpleWriter(out,
			report.WithPlain(!isTerminal(out)),
			report.WithVerbose(cfg.Verbose),
		)
	}
}

// summaryOutput keeps machine-readable reports on stdout free of the
// summary table.
func summaryOutput(cfg *config.Config, stdout, stderr io.Writer) io.Writer {
	if cfg.JSONReport || cfg.MarkdownReport || cfg.HTMLReport || cfg.ReportFile != "" {
		return stderr
	}
	return stdout
}

// writeSummary prints the session counters and history.
func writeSummary(ctx context.Context, sess *session.Session, w io.Writer) error {
	entries, err := sess.History(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	st := sess.Stats()
	_, err = report.NewSummaryWriter(w, !isTerminal(w)).Write(report.Summary{
		Scans:   st.Scans,
		Threats: st.Threats,
		Entries: entries,
	})
	return err
}

// promptAsker asks follow-up questions on a terminal.
type promptAsker struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptAsker(in io.Reader, out io.Writer) *promptAsker {
	return &promptAsker{in: bufio.NewReader(in), out: out}
}

// Ask prompts until the user answers yes, no, or skips with an empty
// line. End of input skips the question.
func (a *promptAsker) Ask(ctx context.Context, q model.FollowupQuestion) (model.Answer, bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}

		fmt.Fprintf(a.out, "%s [y/n, Enter to skip] ", q.Text)
		line, err := a.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", false, err
		}

		eof := errors.Is(err, io.EOF)
		if strings.TrimSpace(line) == "" {
			if eof {
				fmt.Fprintln(a.out)
			}
			return "", false, nil
		}
		if answer, perr := model.ParseAnswer(line); perr == nil {
			return answer, true, nil
		}
		if eof {
			return "", false, nil
		}
		fmt.Fprintln(a.out, "Please answer y or n.")
	}
}
