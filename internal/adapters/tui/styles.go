package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/PabloGalante/syntax-chat/internal/theme"
)

type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	user     lipgloss.Style
	bot      lipgloss.Style
	errBox   lipgloss.Style
	hint     lipgloss.Style
	help     lipgloss.Style
	activity lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.TermText)).
			Padding(0, 1),

		subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.TermMuted)).
			Padding(0, 1),

		user: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.TermUser)).
			Bold(true),

		bot: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.TermBot)),

		errBox: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.TermError)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.TermError)).
			Padding(0, 1),

		hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.TermMuted)).
			Italic(true),

		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.TermMuted)),

		activity: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.TermMuted)).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color(p.TermMuted)).
			PaddingLeft(1),
	}
}
