package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/silentstreak/internal/render"
)

// Tabs and status reuse the render palette so the TUI matches CLI output.
var (
	activeTabStyle = render.SilentStyle.
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("42")).
			Padding(0, 2)

	inactiveTabStyle = render.UnmarkedStyle.
				Border(lipgloss.HiddenBorder(), false, false, true, false).
				Padding(0, 2)

	dangerStyle = render.MissedStyle.Bold(true)

	statusStyle = render.NoteStyle.PaddingLeft(2)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)
