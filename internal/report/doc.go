// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown with an impact pie chart, for sharing
//   - HTMLWriter: A standalone page with the highlighted message
//   - SummaryWriter: Session counters and history
//
// Every writer renders a *scan.Report. Verdict labels, colors and texts all
// come from model.Verdict so that every surface agrees.
package report
