package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nao1215/scamscan/internal/database"
)

// Summary is the end-of-session overview.
type Summary struct {
	Scans   int64
	Threats int64

	// Entries are the history rows, newest first.
	Entries []database.Entry
}

// SummaryWriter prints the session counters and the history table.
type SummaryWriter struct {
	baseWriter

	plain bool
}

// NewSummaryWriter creates a SummaryWriter. With plain set, the verdict
// column is not colored.
func NewSummaryWriter(output io.Writer, plain bool) *SummaryWriter {
	return &SummaryWriter{
		baseWriter: newBaseWriter(output),
		plain:      plain,
	}
}

// Write outputs the summary.
func (w *SummaryWriter) Write(s Summary) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("SESSION SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "  Scans:    %d\n", s.Scans)
	fmt.Fprintf(&sb, "  Threats:  %d\n\n", s.Threats)

	if len(s.Entries) > 0 {
		rows := make([][]string, 0, len(s.Entries))
		for _, e := range s.Entries {
			refined := ""
			if e.Refined {
				refined = "yes"
			}
			rows = append(rows, []string{
				e.ShortDigest(),
				e.Verdict.Label(),
				orDash(e.Status),
				strconv.Itoa(e.Probability) + "%",
				orDash(e.ScamType),
				refined,
			})
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Digest", "Verdict", "Status", "Risk", "Scam Type", "Refined").
			Rows(rows...)
		if !w.plain {
			t = t.StyleFunc(func(row, col int) lipgloss.Style {
				st := lipgloss.NewStyle().Padding(0, 1)
				if row >= 0 && row < len(s.Entries) && col == 1 {
					return st.Foreground(VerdictColor(s.Entries[row].Verdict))
				}
				return st
			})
		}
		sb.WriteString(t.String())
		sb.WriteString("\n")
	}

	return io.WriteString(w.output, sb.String())
}
