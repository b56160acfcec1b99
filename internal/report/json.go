package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/scamscan/internal/model"
	"github.com/nao1215/scamscan/internal/scan"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport is the JSON document of one report. It wraps the classifier
// payload with the values derived from it.
type JSONReport struct {
	// Verdict is "Safe", "Threat" or "Uncertain".
	Verdict string `json:"verdict"`

	// Severity is the probability band.
	Severity string `json:"severity"`

	// StatusLine is the one-line outcome.
	StatusLine string `json:"status_line"`

	// Refined is true for a follow-up refinement.
	Refined bool `json:"refined"`

	// Preview is the message as escaped HTML with highlighted terms.
	Preview string `json:"preview_html"`

	// CompletedAt is when the scan finished.
	CompletedAt time.Time `json:"completed_at"`

	// Result is the classifier payload.
	Result model.ScanResult `json:"result"`
}

// NewJSONReport builds the JSON document of a report.
func NewJSONReport(report *scan.Report) *JSONReport {
	return &JSONReport{
		Verdict:     report.Verdict.String(),
		Severity:    report.Severity(),
		StatusLine:  report.StatusLine(),
		Refined:     report.Refined,
		Preview:     report.Preview.HTML(),
		CompletedAt: report.CompletedAt,
		Result:      report.Result,
	}
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *scan.Report) (int, error) {
	return w.writeJSON(NewJSONReport(report))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
