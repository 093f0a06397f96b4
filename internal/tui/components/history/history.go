package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/silentstreak/internal/constants"
	"github.com/julianstephens/silentstreak/internal/models"
	"github.com/julianstephens/silentstreak/internal/streak"
)

type Item struct {
	Record   models.DayRecord
	Location *time.Location
}

func (i Item) Title() string {
	local := i.Record.Date.In(i.Location)
	mark := "○ "
	if i.Record.WasSilent {
		mark = "✓ "
	}
	return mark + local.Format(constants.DateFormat) + " " + local.Weekday().String()
}

func (i Item) Description() string {
	status := "missed"
	if i.Record.WasSilent {
		status = "silent"
	}
	if text, ok := i.Record.Note.Get(); ok && text != "" {
		return fmt.Sprintf("%s · %s", status, text)
	}
	return fmt.Sprintf("%s · marked %s", status, i.Record.MarkedAt.In(i.Location).Format(constants.TimeFormat))
}

func (i Item) FilterValue() string {
	return i.Record.Day(i.Location) + " " + i.Record.Note.String()
}

type Model struct {
	list       list.Model
	location   *time.Location
	silentOnly bool
	records    []models.DayRecord
}

func New(records []models.DayRecord, loc *time.Location, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "History"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	m := Model{list: l, location: loc}
	m.SetRecords(records)
	return m
}

// SetRecords replaces the underlying collection and rebuilds the list.
func (m *Model) SetRecords(records []models.DayRecord) {
	m.records = records
	m.rebuild()
}

// ToggleSilentOnly switches between all days and silent days only.
func (m *Model) ToggleSilentOnly() {
	m.silentOnly = !m.silentOnly
	m.rebuild()
}

func (m Model) SilentOnly() bool {
	return m.silentOnly
}

func (m *Model) rebuild() {
	ordered := streak.History(m.records, m.silentOnly)
	items := make([]list.Item, 0, len(ordered))
	for _, r := range ordered {
		items = append(items, Item{Record: r, Location: m.location})
	}
	m.list.SetItems(items)
	if m.silentOnly {
		m.list.Title = "History (silent only)"
	} else {
		m.list.Title = "History"
	}
}

// Filtering reports whether the list is capturing keys for its filter input.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}
