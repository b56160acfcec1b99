package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/scamscan/internal/model"
	"github.com/nao1215/scamscan/internal/scan"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *scan.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeAlert(md, report)
	w.writeTerms(md, report)
	w.writePreview(md, report)
	w.writeAdvice(md, report)
	w.writeQuestions(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *scan.Report) {
	md.H1("scamscan Report")
	md.PlainText("")

	rows := [][]string{
		{"Verdict", report.Verdict.Emoji() + " " + report.Verdict.Label()},
		{"Status", escapeCell(orDash(report.Result.Status))},
		{"Probability", strconv.Itoa(report.Result.Probability) + "%"},
		{"Risk Level", escapeCell(orDash(report.Result.RiskLevel))},
		{"Severity", report.Severity()},
		{"Scam Type", escapeCell(orDash(report.Result.ScamType))},
	}
	if !report.CompletedAt.IsZero() {
		rows = append(rows, []string{"Scan Date", report.CompletedAt.Format("2006-01-02 15:04:05 MST")})
	}
	if report.Refined {
		rows = append(rows, []string{"Refined", "yes"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAlert writes an alert matching the verdict.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *scan.Report) {
	switch report.Verdict {
	case model.VerdictThreat:
		md.Cautionf("%s. %s", report.Verdict.Title(), report.Verdict.Description())
	case model.VerdictUncertain:
		md.Warningf("%s. %s", report.Verdict.Title(), report.Verdict.Description())
	default:
		md.Tip(report.Verdict.Title() + ". " + report.Verdict.Description())
	}
	md.PlainText("")
}

// writeTerms writes the flagged-term table and the impact chart.
func (w *MarkdownWriter) writeTerms(md *markdown.Markdown, report *scan.Report) {
	md.H2("Flagged Terms")
	md.PlainText("")

	terms := report.Terms()
	if len(terms) == 0 {
		md.PlainText(NoKeywordsText + ".")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(terms))
	for i, h := range terms {
		rows[i] = []string{
			codeCell(h.Term),
			fmt.Sprintf("%.3f", h.Impact),
			escapeCell(truncateString(h.ReasonOrDefault(), 80)),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Term", "Impact", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, terms)
}

// writePieChart writes a mermaid pie chart of the impact per term.
// Impacts are charted in thousandths, terms without impact are left out.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, terms []model.Highlight) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Impact by Term"),
		piechart.WithShowData(true),
	)

	charted := 0
	for _, h := range terms {
		if h.Impact <= 0 {
			continue
		}
		chart.LabelAndIntValue(chartLabel(h.Term), uint64(math.Round(h.Impact*1000)))
		charted++
	}
	if charted == 0 {
		return
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writePreview writes the message with flagged terms between guillemets.
func (w *MarkdownWriter) writePreview(md *markdown.Markdown, report *scan.Report) {
	md.H2("Message")
	md.PlainText("")

	preview := strings.ReplaceAll(report.Preview.Marked("«", "»"), "```", "'''")
	if preview == "" {
		preview = "—"
	}
	md.CodeBlocks(markdown.SyntaxHighlight("text"), preview)
	md.PlainText("")
}

// writeAdvice writes the explanation texts and general recommendations.
func (w *MarkdownWriter) writeAdvice(md *markdown.Markdown, report *scan.Report) {
	md.H2("What To Do")
	md.PlainText("")

	r := report.Result
	md.Table(markdown.TableSet{
		Header: []string{"Topic", "Advice"},
		Rows: [][]string{
			{"Scam goal", escapeCell(orDash(r.ScamGoal))},
			{"What to do", escapeCell(orDash(r.WhatToDo))},
			{"How to avoid", escapeCell(orDash(r.HowToAvoid))},
		},
	})
	md.PlainText("")

	md.Details("Safety recommendations", "- "+strings.Join(safetyTips(report.Verdict), "\n- "))
	md.PlainText("")
}

// writeQuestions lists the open follow-up questions.
func (w *MarkdownWriter) writeQuestions(md *markdown.Markdown, report *scan.Report) {
	if !report.NeedsFollowup() {
		return
	}

	md.H2("Follow-up Questions")
	md.PlainText("")

	items := make([]string, 0, len(report.Result.FollowupQuestions))
	for _, q := range report.Result.FollowupQuestions {
		items = append(items, "**"+q.ID+"**: "+q.Text)
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [scamscan](https://github.com/nao1215/scamscan)*")
}

// escapeCell keeps a value from breaking a table row.
func escapeCell(s string) string {
	return cellReplacer.Replace(s)
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// codeCell renders a value as a code span inside a table cell.
// A value holding backticks gets a double-backtick fence.
func codeCell(s string) string {
	s = escapeCell(s)
	if strings.Contains(s, "`") {
		return "`` " + s + " ``"
	}
	return "`" + s + "`"
}

// chartLabel keeps a term from closing the quoted mermaid label.
func chartLabel(s string) string {
	return labelReplacer.Replace(s)
}

var labelReplacer = strings.NewReplacer(`"`, "'", "\r\n", " ", "\n", " ", "\r", " ")
