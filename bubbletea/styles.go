package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/workflow"
)

// Styles maps a Theme to lipgloss styles for terminal rendering.
type Styles struct {
	UserMsg   lipgloss.Style
	Quote     lipgloss.Style
	Marker    lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Strong    lipgloss.Style
	Code      lipgloss.Style
	CodeLabel lipgloss.Style
	UserBg    lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t workflow.Theme) Styles {
	return Styles{
		UserMsg:   lipgloss.NewStyle().Foreground(ansiColor(t.UserMsg)).Bold(true),
		Quote:     lipgloss.NewStyle().Foreground(ansiColor(t.Quote)),
		Marker:    lipgloss.NewStyle().Foreground(ansiColor(t.Marker)),
		Error:     lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Muted:     lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:    lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		Strong:    lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		Code:      lipgloss.NewStyle().PaddingLeft(2),
		CodeLabel: lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Background(ansiColor(t.CodeBg)).Padding(0, 1),
		UserBg: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(ansiColor(t.UserMsg)).
			PaddingLeft(1),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
