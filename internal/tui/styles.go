package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nao1215/scamscan/internal/report"
)

// styles holds the lipgloss styles of the front end.
type styles struct {
	title      lipgloss.Style
	stats      lipgloss.Style
	dim        lipgloss.Style
	errorText  lipgloss.Style
	notice     lipgloss.Style
	label      lipgloss.Style
	box        lipgloss.Style
	focusedBox lipgloss.Style
	selected   lipgloss.Style
	answer     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true).Foreground(report.ColorSafe),
		stats:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		errorText:  lipgloss.NewStyle().Bold(true).Foreground(report.ColorThreat),
		notice:     lipgloss.NewStyle().Foreground(report.ColorUncertain),
		label:      lipgloss.NewStyle().Bold(true),
		box:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1),
		focusedBox: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(report.ColorSafe).Padding(0, 1),
		selected:   lipgloss.NewStyle().Bold(true).Foreground(report.ColorUncertain),
		answer:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
	}
}

// verdictBox returns the bordered style of a verdict box.
func (s styles) verdictBox(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Foreground(color).
		Padding(0, 2)
}
