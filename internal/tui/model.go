package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/silentstreak/internal/streak"
	"github.com/julianstephens/silentstreak/internal/tracker"
	"github.com/julianstephens/silentstreak/internal/tui/components/history"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateHistory
	StateStats
	StateNoteForm
	StateConfirmReset
)

var tabTitles = []string{"Today", "History", "Stats"}

type NoteFormModel struct {
	Text string
}

type Model struct {
	store     *tracker.Store
	location  *time.Location
	weekStart time.Weekday

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	history       history.Model
	summary       streak.Summary
	form          *huh.Form
	noteForm      *NoteFormModel
	status        string
	quitting      bool
	width         int
	height        int
}

func NewModel(store *tracker.Store, loc *time.Location, weekStart time.Weekday) Model {
	m := Model{
		store:     store,
		location:  loc,
		weekStart: weekStart,
		state:     StateToday,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		history:   history.New(nil, loc, 0, 0),
	}
	m.refresh()
	return m
}

// refresh recomputes everything derived from the store.
func (m *Model) refresh() {
	m.summary = m.store.Summary(m.weekStart)
	m.history.SetRecords(m.store.Days())
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateConfirmReset:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	case StateHistory:
		return []key.Binding{m.keys.Tab, m.keys.Filter, m.keys.Quit, m.keys.Help}
	default:
		return []key.Binding{m.keys.Tab, m.keys.Mark, m.keys.Note, m.keys.Quit, m.keys.Help}
	}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help},
		{m.keys.Mark, m.keys.Missed, m.keys.Note, m.keys.Filter, m.keys.Reset},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}
