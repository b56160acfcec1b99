package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/scamscan/internal/followup"
	"github.com/nao1215/scamscan/internal/model"
	"github.com/nao1215/scamscan/internal/report"
	"github.com/nao1215/scamscan/internal/scan"
)

const (
	gaugeWidth = 30

	// maxTerms is the number of flagged terms listed under the preview.
	maxTerms = 8
)

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	m.viewHeader(&sb)
	m.viewInput(&sb)

	switch {
	case m.busy:
		m.viewProgress(&sb)
	case m.report != nil:
		m.viewReport(&sb, m.report)
	}

	if m.err != nil {
		sb.WriteString(m.styles.errorText.Render(errorText(m.err)))
		sb.WriteString("\n")
	}
	if m.notice != "" {
		sb.WriteString(m.styles.notice.Render(m.notice))
		sb.WriteString("\n")
	}

	if !m.busy {
		m.viewFollowup(&sb)
	}
	m.viewHelp(&sb)

	return sb.String()
}

// viewHeader writes the title and the stats bar.
func (m Model) viewHeader(sb *strings.Builder) {
	st := m.session.Stats()
	sb.WriteString(m.styles.title.Render("scamscan"))
	sb.WriteString("  ")
	sb.WriteString(m.styles.stats.Render(fmt.Sprintf("Scans %d · Threats %d", st.Scans, st.Threats)))
	sb.WriteString("\n\n")
}

// viewInput writes the text area.
func (m Model) viewInput(sb *strings.Builder) {
	box := m.styles.box
	if m.focus == focusInput {
		box = m.styles.focusedBox
	}
	sb.WriteString(box.Render(m.input.View()))
	sb.WriteString("\n")
}

// viewProgress writes the spinner and the progress lines received so far.
func (m Model) viewProgress(sb *strings.Builder) {
	title := "Analyzing message..."
	if m.refining {
		title = "Refining with your answers..."
	}
	sb.WriteString(m.spinner.View())
	sb.WriteString(" ")
	sb.WriteString(title)
	sb.WriteString("\n")
	for _, line := range m.progress {
		sb.WriteString(m.styles.dim.Render("  › " + line))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// viewReport writes the verdict box, the preview and the advice.
func (m Model) viewReport(sb *strings.Builder, r *scan.Report) {
	color := report.VerdictColor(r.Verdict)
	box := fmt.Sprintf("%s %s\n%s\n\n%s %3d%%  %s",
		r.Verdict.Emoji(), r.Verdict.Title(),
		r.Verdict.Description(),
		gauge(r.Result.Probability, gaugeWidth), r.Result.Probability, r.Verdict.Label(),
	)
	sb.WriteString(m.styles.verdictBox(color).Render(box))
	sb.WriteString("\n")
	sb.WriteString(r.StatusLine())
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "%s %s   %s %s   %s %s\n",
		m.styles.label.Render("Severity:"), r.Severity(),
		m.styles.label.Render("Risk level:"), orDash(r.Result.RiskLevel),
		m.styles.label.Render("Scam type:"), orDash(r.Result.ScamType),
	)
	if r.Refined {
		sb.WriteString(m.styles.dim.Render("Refined with your follow-up answers."))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(m.styles.label.Render("Message"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.box.Width(max(20, m.width-4)).Render(r.Preview.Terminal(report.HighlightStyle)))
	sb.WriteString("\n")

	terms := r.Terms()
	if len(terms) == 0 {
		sb.WriteString(m.styles.dim.Render(report.NoKeywordsText))
		sb.WriteString("\n\n")
	} else {
		sb.WriteString(m.styles.label.Render("Flagged terms"))
		sb.WriteString("\n")
		for i, h := range terms {
			if i == maxTerms {
				fmt.Fprintf(sb, "  … %d more\n", len(terms)-maxTerms)
				break
			}
			fmt.Fprintf(sb, "  %-20s %.3f  %s\n", h.Term, h.Impact, m.styles.dim.Render(h.ReasonOrDefault()))
		}
		sb.WriteString("\n")
	}

	if r.Result.WhatToDo != "" {
		fmt.Fprintf(sb, "%s %s\n", m.styles.label.Render("What to do:"), r.Result.WhatToDo)
	}
	if r.Result.HowToAvoid != "" {
		fmt.Fprintf(sb, "%s %s\n", m.styles.label.Render("How to avoid:"), r.Result.HowToAvoid)
	}
	sb.WriteString("\n")
}

// viewFollowup writes the follow-up panel when it is open.
func (m Model) viewFollowup(sb *strings.Builder) {
	var (
		questions []model.FollowupQuestion
		answers   map[string]model.Answer
	)
	switch st := m.session.FollowupState().(type) {
	case followup.AwaitingAnswers:
		questions, answers = st.Questions, st.Answers
	case followup.Submitting:
		questions, answers = st.Questions, st.Answers
	default:
		return
	}

	var panel strings.Builder
	panel.WriteString(m.styles.label.Render("Follow-up questions"))
	panel.WriteString(m.styles.dim.Render("  answer to refine the result"))
	panel.WriteString("\n")
	for i, q := range questions {
		marker := "  "
		text := q.Text
		if i == m.cursor && m.focus == focusFollowup {
			marker = "› "
			text = m.styles.selected.Render(text)
		}
		answer := "[ - ]"
		if a, ok := answers[q.ID]; ok {
			answer = m.styles.answer.Render(fmt.Sprintf("[%-3s]", a))
		}
		fmt.Fprintf(&panel, "%s%s %s\n", marker, answer, text)
	}

	box := m.styles.box
	if m.focus == focusFollowup {
		box = m.styles.focusedBox
	}
	sb.WriteString(box.Render(strings.TrimSuffix(panel.String(), "\n")))
	sb.WriteString("\n")
}

// viewHelp writes the key bindings of the focused area.
func (m Model) viewHelp(sb *strings.Builder) {
	help := "ctrl+s scan · ctrl+c quit"
	if m.followupOpen() {
		help = "ctrl+s scan · tab follow-up · ctrl+c quit"
	}
	if m.focus == focusFollowup {
		help = "↑/↓ select · y/n answer · backspace clear · r refine · tab back · ctrl+c quit"
	}
	sb.WriteString(m.styles.dim.Render(help))
	sb.WriteString("\n")
}

// gauge renders probability as a bar of width cells.
func gauge(probability, width int) string {
	probability = max(0, min(100, probability))
	filled := probability * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// errorText describes err for the status area.
func errorText(err error) string {
	var refineErr *followup.RefinementError
	switch {
	case errors.As(err, &refineErr):
		return "Refinement failed, your answers were kept: " + refineErr.Err.Error()
	case errors.Is(err, scan.ErrBusy):
		return "A scan is already running."
	default:
		return "Scan failed: " + err.Error()
	}
}

// orDash returns s, or "—" when s is blank.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
