package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/scamscan/internal/database"
	"github.com/nao1215/scamscan/internal/model"
	"github.com/nao1215/scamscan/internal/scan"
	"golang.org/x/net/html"
)

var testTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// createThreatReport creates the report of a prize scam.
func createThreatReport() *scan.Report {
	return scan.NewReport("You have won a $1000 prize! Click here", model.ScanResult{
		Status:      model.StatusLikelyScam,
		Probability: 87,
		RiskLevel:   "High",
		ScamType:    "Lottery / Prize Scam",
		Highlights: []model.Highlight{
			{Term: "prize", Impact: 0.41, Reason: "lottery scam term"},
			{Term: "click here", Impact: 0.33, Reason: "urgency term"},
		},
		ScamGoal:   "Steal money.",
		WhatToDo:   "Do not click.",
		HowToAvoid: "Slow down.",
	}, false, testTime)
}

// createSafeReport creates the report of a harmless message.
func createSafeReport() *scan.Report {
	return scan.NewReport("Hi, are we still meeting at 5?", model.ScanResult{
		Status:      model.StatusLikelySafe,
		Probability: 4,
		RiskLevel:   "Low",
		Highlights:  []model.Highlight{},
	}, false, testTime)
}

// createUncertainReport creates a report with open follow-up questions.
func createUncertainReport() *scan.Report {
	return scan.NewReport("Please confirm the transfer today", model.ScanResult{
		Status:      model.StatusNeedsMoreContext,
		Probability: 52,
		RiskLevel:   model.RiskUncertain,
		IsUncertain: true,
		FollowupQuestions: []model.FollowupQuestion{
			{ID: "q1", Text: "Did sender ask for payment?"},
		},
	}, false, testTime)
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and verdict", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithPlain(true)).Write(createThreatReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"SCAMSCAN REPORT",
			"Probability:  87%",
			"Severity:     Very High",
			"Scam Type:    Lottery / Prize Scam",
			"[THREAT] HIGH RISK — LIKELY SCAM",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("marks flagged terms in plain mode", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithPlain(true)).Write(createThreatReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "You have won a $1000 [prize]! [Click here]") {
			t.Errorf("expected marked preview, got:\n%s", output)
		}
		if !strings.Contains(output, "impact 0.410") {
			t.Error("expected impact with 3 decimals")
		}
		if strings.Contains(output, "\x1b[") {
			t.Error("plain output must not contain escape sequences")
		}
	})

	t.Run("verbose adds reasons and tips", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithPlain(true), WithVerbose(true)).Write(createThreatReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Reason: lottery scam term") {
			t.Error("expected reasons")
		}
		if !strings.Contains(output, "Report the message to your bank") {
			t.Error("expected threat safety tip")
		}
	})

	t.Run("safe report has no keywords", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithPlain(true)).Write(createSafeReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, NoKeywordsText) {
			t.Errorf("expected %q", NoKeywordsText)
		}
		if !strings.Contains(output, "[SAFE]") {
			t.Error("expected SAFE verdict")
		}
	})

	t.Run("uncertain report lists questions", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithPlain(true)).Write(createUncertainReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "FOLLOW-UP QUESTIONS") || !strings.Contains(output, "q1: Did sender ask for payment?") {
			t.Errorf("expected follow-up questions, got:\n%s", output)
		}
	})

	t.Run("returns bytes written", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(createThreatReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes, got %d", buf.Len(), n)
		}
	})
}

// TestJSONWriter tests the JSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact output is valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createThreatReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got JSONReport
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Verdict != "Threat" || got.Severity != model.SeverityVeryHigh || got.Result.Probability != 87 {
			t.Errorf("unexpected report: %+v", got)
		}
		if !strings.Contains(got.Preview, `<span class="highlight">prize</span>`) {
			t.Errorf("unexpected preview %q", got.Preview)
		}
		if len(got.Result.Highlights) != 2 || got.Result.Highlights[1].Term != "click here" {
			t.Errorf("highlights not preserved: %+v", got.Result.Highlights)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected compact single-line output")
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createSafeReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"verdict\": \"Safe\"") {
			t.Errorf("expected indented output, got:\n%s", buf.String())
		}
	})

	t.Run("custom indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent(">", "\t")).Write(createSafeReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), ">\t\"verdict\"") {
			t.Errorf("expected custom indent, got:\n%s", buf.String())
		}
	})
}

// failWriter fails every write.
type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&a, WithPlain(true)), NewJSONWriter(&b))
		n, err := mw.Write(createThreatReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != a.Len()+b.Len() {
			t.Errorf("expected %d bytes, got %d", a.Len()+b.Len(), n)
		}
	})

	t.Run("stops at first error", func(t *testing.T) {
		t.Parallel()

		var b bytes.Buffer
		mw := NewMultiWriter(NewJSONWriter(failWriter{}), NewJSONWriter(&b))
		if _, err := mw.Write(createThreatReport()); err == nil {
			t.Fatal("expected error")
		}
		if b.Len() != 0 {
			t.Error("second writer must not run after an error")
		}
	})
}

// TestMarkdownWriter tests the Markdown writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("threat report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createThreatReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# scamscan Report",
			"THREAT",
			"[!CAUTION]",
			"## Flagged Terms",
			"`click here`",
			"0.410",
			"```mermaid",
			"Impact by Term",
			"«prize»",
			"«Click here»",
			"## What To Do",
			"Safety recommendations",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("safe report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createSafeReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, NoKeywordsText) {
			t.Errorf("expected %q", NoKeywordsText)
		}
		if !strings.Contains(output, "[!TIP]") {
			t.Error("expected tip alert")
		}
		if strings.Contains(output, "```mermaid") {
			t.Error("no chart expected without terms")
		}
	})

	t.Run("uncertain report lists questions", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createUncertainReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!WARNING]") || !strings.Contains(output, "**q1**: Did sender ask for payment?") {
			t.Errorf("expected warning and question, got:\n%s", output)
		}
	})

	t.Run("pipes do not break tables", func(t *testing.T) {
		t.Parallel()

		r := scan.NewReport("a|b", model.ScanResult{
			Status:     model.StatusSuspicious,
			Highlights: []model.Highlight{{Term: "a|b", Impact: 0.1}},
		}, false, testTime)

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `a\|b`) {
			t.Error("expected escaped pipe")
		}
	})

	t.Run("quotes backticks and newlines stay inside their cell and label", func(t *testing.T) {
		t.Parallel()

		term := "a|b \"x\" `y`\nz"
		r := scan.NewReport("send "+term, model.ScanResult{
			Status:     model.StatusSuspicious,
			Highlights: []model.Highlight{{Term: term, Impact: 0.1, Reason: "odd"}},
		}, false, testTime)

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if want := "| `` a\\|b \"x\" `y` z `` | 0.100 | odd |"; !strings.Contains(output, want) {
			t.Errorf("expected table row %q in:\n%s", want, output)
		}
		if want := "    \"a|b 'x' `y` z\" : 100"; !strings.Contains(output, want) {
			t.Errorf("expected chart entry %q in:\n%s", want, output)
		}
	})
}

// TestHTMLWriter tests the HTML page.
func TestHTMLWriter(t *testing.T) {
	t.Parallel()

	t.Run("highlights terms", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewHTMLWriter(&buf).Write(createThreatReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, `<span class="highlight">Click here</span>`) {
			t.Error("expected highlighted preview")
		}
		if !strings.Contains(output, "🚨 Likely Scam — Risk 87%") {
			t.Error("expected status line")
		}
	})

	t.Run("message markup is not interpreted", func(t *testing.T) {
		t.Parallel()

		r := scan.NewReport(`<script>alert("prize")</script><img src=x onerror=alert(1)>`, model.ScanResult{
			Status:     model.StatusScam,
			Highlights: []model.Highlight{{Term: "prize", Impact: 0.4}, {Term: "<img", Impact: 0.2}},
		}, false, testTime)

		var buf bytes.Buffer
		if _, err := NewHTMLWriter(&buf).Write(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		z := html.NewTokenizer(strings.NewReader(buf.String()))
		for {
			tt := z.Next()
			if tt == html.ErrorToken {
				break
			}
			if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
				continue
			}
			name, _ := z.TagName()
			switch string(name) {
			case "script", "img":
				t.Errorf("message produced a <%s> element", name)
			}
		}
	})

	t.Run("safe report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewHTMLWriter(&buf).Write(createSafeReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), NoKeywordsText) {
			t.Errorf("expected %q", NoKeywordsText)
		}
	})
}

// TestSummaryWriter tests the session summary.
func TestSummaryWriter(t *testing.T) {
	t.Parallel()

	entries := []database.Entry{
		database.NewEntry("b", createSafeReport().Result, false, testTime),
		database.NewEntry("a", createThreatReport().Result, true, testTime),
	}

	var buf bytes.Buffer
	if _, err := NewSummaryWriter(&buf, true).Write(Summary{Scans: 2, Threats: 1, Entries: entries}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"SESSION SUMMARY", "Scans:    2", "Threats:  1", "THREAT", "SAFE", entries[0].ShortDigest()} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

// TestTruncateString tests rune-aware truncation.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "short", input: "abc", maxLen: 10, want: "abc"},
		{name: "exact", input: "abcde", maxLen: 5, want: "abcde"},
		{name: "long", input: "abcdefghij", maxLen: 6, want: "abc..."},
		{name: "tiny limit", input: "abcdef", maxLen: 2, want: "ab"},
		{name: "multibyte", input: "ÉÉÉÉÉÉ", maxLen: 5, want: "ÉÉ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
