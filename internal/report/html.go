package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/nao1215/scamscan/internal/model"
	"github.com/nao1215/scamscan/internal/scan"
)

// htmlPage is the standalone report page. The preview is already escaped
// by the highlighter and is the only value inserted as trusted markup.
var htmlPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>scamscan report: {{.Verdict.Label}}</title>
<style>
body { font-family: ui-monospace, monospace; background: #0b0f14; color: #d7e1ea; max-width: 52rem; margin: 2rem auto; }
.verdict { border: 2px solid {{.Color}}; color: {{.Color}}; padding: 1rem; }
.preview { white-space: pre-wrap; background: #121922; padding: 1rem; }
.highlight { color: #ff3b5c; font-weight: bold; text-decoration: underline; }
table { border-collapse: collapse; } td, th { border: 1px solid #2a3441; padding: .25rem .5rem; text-align: left; }
</style>
</head>
<body>
<h1>scamscan report</h1>
<div class="verdict">
<h2>{{.Verdict.Emoji}} {{.Verdict.Title}}</h2>
<p>{{.Verdict.Description}}</p>
<p><strong>{{.StatusLine}}</strong></p>
</div>
<table>
<tr><th>Status</th><td>{{or .Result.Status "—"}}</td></tr>
<tr><th>Probability</th><td>{{.Result.Probability}}%</td></tr>
<tr><th>Risk level</th><td>{{or .Result.RiskLevel "—"}}</td></tr>
<tr><th>Severity</th><td>{{.Severity}}</td></tr>
<tr><th>Scam type</th><td>{{or .Result.ScamType "—"}}</td></tr>
{{- if .Refined}}
<tr><th>Refined</th><td>yes</td></tr>
{{- end}}
</table>
<h2>Message</h2>
<div class="preview">{{if .Preview}}{{.Preview}}{{else}}—{{end}}</div>
<h2>Flagged terms</h2>
{{- if .Terms}}
<table>
<tr><th>Term</th><th>Impact</th><th>Reason</th></tr>
{{- range .Terms}}
<tr><td>{{.Term}}</td><td>{{printf "%.3f" .Impact}}</td><td>{{.ReasonOrDefault}}</td></tr>
{{- end}}
</table>
{{- else}}
<p>{{.NoKeywords}}</p>
{{- end}}
<h2>What to do</h2>
<p><strong>Scam goal:</strong> {{or .Result.ScamGoal "—"}}</p>
<p><strong>What to do:</strong> {{or .Result.WhatToDo "—"}}</p>
<p><strong>How to avoid:</strong> {{or .Result.HowToAvoid "—"}}</p>
<ul>
{{- range .Tips}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- if .Questions}}
<h2>Follow-up questions</h2>
<ol>
{{- range .Questions}}
<li><strong>{{.ID}}</strong>: {{.Text}}</li>
{{- end}}
</ol>
{{- end}}
<hr>
<p><em>Report generated by scamscan</em></p>
</body>
</html>
`))

// htmlData is the template input.
type htmlData struct {
	Verdict    model.Verdict
	Color      template.CSS
	StatusLine string
	Severity   string
	Refined    bool
	Result     model.ScanResult
	Preview    template.HTML
	Terms      []model.Highlight
	NoKeywords string
	Tips       []string
	Questions  []model.FollowupQuestion
}

// HTMLWriter outputs a standalone HTML page.
type HTMLWriter struct {
	baseWriter
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	return &HTMLWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report as an HTML page.
func (w *HTMLWriter) Write(report *scan.Report) (int, error) {
	data := htmlData{
		Verdict:    report.Verdict,
		Color:      template.CSS(VerdictColor(report.Verdict)), //nolint:gosec // constant color
		StatusLine: report.StatusLine(),
		Severity:   report.Severity(),
		Refined:    report.Refined,
		Result:     report.Result,
		Preview:    template.HTML(report.Preview.HTML()), //nolint:gosec // segments are escaped by the highlighter
		Terms:      report.Terms(),
		NoKeywords: NoKeywordsText,
		Tips:       safetyTips(report.Verdict),
	}
	if report.NeedsFollowup() {
		data.Questions = report.Result.FollowupQuestions
	}

	var buf bytes.Buffer
	if err := htmlPage.Execute(&buf, data); err != nil {
		return 0, fmt.Errorf("failed to render HTML report: %w", err)
	}
	return w.output.Write(buf.Bytes())
}
