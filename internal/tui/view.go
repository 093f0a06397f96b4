package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/silentstreak/internal/render"
	"github.com/julianstephens/silentstreak/internal/streak"
)

const chartWidth = 30

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = m.viewToday()
	case StateHistory:
		content = docStyle.Render(m.history.View())
	case StateStats:
		content = m.viewStats()
	case StateNoteForm:
		content = docStyle.Render(m.form.View())
	case StateConfirmReset:
		content = m.viewConfirmReset()
	}

	var status string
	if m.status != "" {
		status = statusStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active >= SessionState(len(tabTitles)) {
		active = m.previousState
	}

	var tabs []string
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	var b strings.Builder

	if m.summary.MarkedToday {
		today := m.summary.LastSevenDays[len(m.summary.LastSevenDays)-1]
		b.WriteString(render.HistoryLine(today, m.location))
		if !streak.HasNote(m.store.Days(), m.store.Now()) {
			b.WriteString("\n")
			b.WriteString(render.UnmarkedStyle.Render("Press n to add a note."))
		}
	} else {
		b.WriteString("Today is not marked yet. Press m for a silent day or x for a missed one.")
	}
	b.WriteString("\n\n")
	b.WriteString(render.StreakLine(m.summary))
	b.WriteString("\n\n")
	b.WriteString(render.HeaderStyle.Render("Last seven days"))
	b.WriteString("\n")
	b.WriteString(render.WeekStrip(m.summary.LastSevenDays, m.location))

	return docStyle.Render(b.String())
}

func (m Model) viewStats() string {
	sections := []string{
		render.HeaderStyle.Render("Totals"),
		render.StreakLine(m.summary),
		"",
		render.HeaderStyle.Render("Achievements"),
		render.Achievements(m.summary.Achievements),
		"",
		render.HeaderStyle.Render(fmt.Sprintf("Silent days per week (from %s)", m.weekStart)),
		render.BarChart(render.WeeklyBars(m.summary.Weekly), chartWidth),
		"",
		render.HeaderStyle.Render("Hour of marking"),
		render.BarChart(render.HourBars(m.summary.HourStats), chartWidth),
	}
	return docStyle.Render(strings.Join(sections, "\n"))
}

func (m Model) viewConfirmReset() string {
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Erase all %d recorded days?", len(m.store.Days()))),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
