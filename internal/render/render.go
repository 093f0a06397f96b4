// Package render formats day records and derived stats for the terminal.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/silentstreak/internal/constants"
	"github.com/julianstephens/silentstreak/internal/models"
	"github.com/julianstephens/silentstreak/internal/streak"
)

const (
	silentGlyph   = "●"
	missedGlyph   = "○"
	unmarkedGlyph = "·"
	barGlyph      = "█"
)

var (
	SilentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	MissedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	UnmarkedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	NoteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Italic(true)
	HeaderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	BarStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
)

// Glyph returns the marker for a record in a day strip.
func Glyph(d models.DayRecord) string {
	switch {
	case d.IsSynthetic():
		return UnmarkedStyle.Render(unmarkedGlyph)
	case d.WasSilent:
		return SilentStyle.Render(silentGlyph)
	default:
		return MissedStyle.Render(missedGlyph)
	}
}

// WeekStrip renders the seven-day strip as two lines: weekday initials over markers.
func WeekStrip(lastSeven []models.DayRecord, loc *time.Location) string {
	labels := make([]string, 0, len(lastSeven))
	marks := make([]string, 0, len(lastSeven))
	for _, d := range lastSeven {
		labels = append(labels, d.Date.In(loc).Weekday().String()[:2])
		marks = append(marks, lipgloss.NewStyle().Width(2).Render(Glyph(d)))
	}
	return strings.Join(labels, " ") + "\n" + strings.Join(marks, " ")
}

// HistoryLine renders one record as "2024-03-14 Thu  ● silent  note".
func HistoryLine(d models.DayRecord, loc *time.Location) string {
	local := d.Date.In(loc)
	status := "missed"
	if d.WasSilent {
		status = "silent"
	}
	line := fmt.Sprintf("%s %s  %s %-6s", local.Format(constants.DateFormat), local.Weekday().String()[:3], Glyph(d), status)
	if text, ok := d.Note.Get(); ok && text != "" {
		line += "  " + NoteStyle.Render(text)
	}
	return line
}

// Bar is one labelled row of a horizontal bar chart.
type Bar struct {
	Label string
	Value int
}

// BarChart renders bars scaled so the largest fills width cells.
func BarChart(bars []Bar, width int) string {
	if len(bars) == 0 {
		return UnmarkedStyle.Render("no data yet")
	}
	if width < 1 {
		width = 1
	}

	maxValue, labelWidth := 0, 0
	for _, b := range bars {
		maxValue = max(maxValue, b.Value)
		labelWidth = max(labelWidth, lipgloss.Width(b.Label))
	}

	var sb strings.Builder
	for i, b := range bars {
		n := 0
		if maxValue > 0 {
			n = b.Value * width / maxValue
		}
		if b.Value > 0 && n == 0 {
			n = 1
		}
		fmt.Fprintf(&sb, "%-*s %s %d", labelWidth, b.Label, BarStyle.Render(strings.Repeat(barGlyph, n)), b.Value)
		if i < len(bars)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// WeeklyBars labels each week by its start date.
func WeeklyBars(weekly []streak.WeekCount) []Bar {
	bars := make([]Bar, 0, len(weekly))
	for _, w := range weekly {
		bars = append(bars, Bar{Label: w.WeekStart.Format("Jan 02"), Value: w.Count})
	}
	return bars
}

// HourBars orders hour-of-day counts from midnight.
func HourBars(hours map[int]int) []Bar {
	keys := make([]int, 0, len(hours))
	for h := range hours {
		keys = append(keys, h)
	}
	sort.Ints(keys)

	bars := make([]Bar, 0, len(keys))
	for _, h := range keys {
		bars = append(bars, Bar{Label: fmt.Sprintf("%02d:00", h), Value: hours[h]})
	}
	return bars
}

// Achievements renders earned badges one per line.
func Achievements(earned []models.Achievement) string {
	if len(earned) == 0 {
		return UnmarkedStyle.Render("none yet")
	}
	lines := make([]string, 0, len(earned))
	for _, a := range earned {
		lines = append(lines, a.Title())
	}
	return strings.Join(lines, "\n")
}

// StreakLine renders the streak counters shared by the CLI and TUI.
func StreakLine(s streak.Summary) string {
	return fmt.Sprintf("Current streak: %s   Best: %d   Total silent: %d",
		SilentStyle.Render(fmt.Sprintf("%d", s.CurrentStreak)), s.BestStreak, s.TotalSilent)
}
