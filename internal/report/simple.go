package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nao1215/scamscan/internal/model"
	"github.com/nao1215/scamscan/internal/scan"
)

// Verdict colors shared by the terminal surfaces.
var (
	ColorThreat    = lipgloss.Color("#ff3b5c")
	ColorUncertain = lipgloss.Color("#ffb020")
	ColorSafe      = lipgloss.Color("#00ff9c")
)

// VerdictColor returns the color of a verdict.
func VerdictColor(v model.Verdict) lipgloss.Color {
	switch v {
	case model.VerdictThreat:
		return ColorThreat
	case model.VerdictUncertain:
		return ColorUncertain
	default:
		return ColorSafe
	}
}

// HighlightStyle is the terminal style of flagged terms.
var HighlightStyle = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(ColorThreat)

// SimpleWriter outputs human-readable text reports.
// The verdict line and the flagged terms are styled with lipgloss unless
// the writer is plain.
type SimpleWriter struct {
	baseWriter

	// plain disables all styling.
	plain bool

	// verbose adds the highlight reasons and the advice texts.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithPlain disables styling, e.g. when the output is not a terminal.
func WithPlain(plain bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.plain = plain
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *scan.Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeVerdict(&sb, report)
	w.writePreview(&sb, report)
	w.writeTerms(&sb, report)
	w.writeAdvice(&sb, report)
	w.writeQuestions(&sb, report)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// rule writes a section separator with a title.
func rule(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeHeader writes the report header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *scan.Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        SCAMSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	if !report.CompletedAt.IsZero() {
		fmt.Fprintf(sb, "Scan Date:    %s\n", report.CompletedAt.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(sb, "Status:       %s\n", orDash(report.Result.Status))
	fmt.Fprintf(sb, "Probability:  %d%%\n", report.Result.Probability)
	fmt.Fprintf(sb, "Risk Level:   %s\n", orDash(report.Result.RiskLevel))
	fmt.Fprintf(sb, "Severity:     %s\n", report.Severity())
	fmt.Fprintf(sb, "Scam Type:    %s\n", orDash(report.Result.ScamType))
	if report.Refined {
		sb.WriteString("Refined:      yes (follow-up answers applied)\n")
	}
	sb.WriteString("\n")
}

// writeVerdict writes the verdict box.
func (w *SimpleWriter) writeVerdict(sb *strings.Builder, report *scan.Report) {
	title := fmt.Sprintf("[%s] %s", report.Verdict.Label(), report.Verdict.Title())
	if !w.plain {
		title = lipgloss.NewStyle().Bold(true).Foreground(VerdictColor(report.Verdict)).Render(title)
	}
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(report.Verdict.Description())
	sb.WriteString("\n\n")
}

// writePreview writes the message with flagged terms marked.
func (w *SimpleWriter) writePreview(sb *strings.Builder, report *scan.Report) {
	rule(sb, "MESSAGE")

	var preview string
	switch {
	case report.Preview.Text() == "":
		preview = "—"
	case w.plain:
		preview = report.Preview.Marked("[", "]")
	default:
		preview = report.Preview.Terminal(HighlightStyle)
	}

	for line := range strings.SplitSeq(preview, "\n") {
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// writeTerms writes the flagged terms.
func (w *SimpleWriter) writeTerms(sb *strings.Builder, report *scan.Report) {
	rule(sb, "FLAGGED TERMS")

	terms := report.Terms()
	if len(terms) == 0 {
		sb.WriteString("  " + NoKeywordsText + "\n\n")
		return
	}

	for _, h := range terms {
		fmt.Fprintf(sb, "  * %-20s impact %.3f\n", h.Term, h.Impact)
		if w.verbose {
			fmt.Fprintf(sb, "    Reason: %s\n", h.ReasonOrDefault())
		}
	}
	sb.WriteString("\n")
}

// writeAdvice writes the classifier's explanation texts.
func (w *SimpleWriter) writeAdvice(sb *strings.Builder, report *scan.Report) {
	r := report.Result
	if !w.verbose && r.WhatToDo == "" {
		return
	}

	rule(sb, "WHAT TO DO")
	fmt.Fprintf(sb, "  Scam goal:     %s\n", orDash(r.ScamGoal))
	fmt.Fprintf(sb, "  What to do:    %s\n", orDash(r.WhatToDo))
	fmt.Fprintf(sb, "  How to avoid:  %s\n", orDash(r.HowToAvoid))
	sb.WriteString("\n")

	if w.verbose {
		for _, tip := range safetyTips(report.Verdict) {
			fmt.Fprintf(sb, "  [+] %s\n", tip)
		}
		sb.WriteString("\n")
	}
}

// writeQuestions writes the open follow-up questions.
func (w *SimpleWriter) writeQuestions(sb *strings.Builder, report *scan.Report) {
	if !report.NeedsFollowup() {
		return
	}

	rule(sb, "FOLLOW-UP QUESTIONS")
	for _, q := range report.Result.FollowupQuestions {
		fmt.Fprintf(sb, "  %s: %s\n", q.ID, q.Text)
	}
	sb.WriteString("\n  Answer with --answer id=yes|no or --ask to refine the result.\n\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by scamscan\n")
	sb.WriteString("https://github.com/nao1215/scamscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
