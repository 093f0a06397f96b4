package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/silentstreak/internal/logger"
	"github.com/julianstephens/silentstreak/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.history.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil
	}

	switch m.state {
	case StateNoteForm:
		return m.updateNoteForm(msg)
	case StateConfirmReset:
		return m.updateConfirmReset(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.state == StateHistory {
			var cmd tea.Cmd
			m.history, cmd = m.history.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// While the history filter is open every key belongs to the list.
	if m.state == StateHistory && m.history.Filtering() {
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Tab):
		m.state = (m.state + 1) % SessionState(len(tabTitles))
		return m, nil
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.state = (m.state + SessionState(len(tabTitles)) - 1) % SessionState(len(tabTitles))
		return m, nil
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Mark):
		m.record(true, models.NoNote())
		return m, nil
	case key.Matches(keyMsg, m.keys.Missed):
		m.record(false, models.NoNote())
		return m, nil
	case key.Matches(keyMsg, m.keys.Note):
		return m, m.openNoteForm()
	case key.Matches(keyMsg, m.keys.Reset):
		m.previousState = m.state
		m.state = StateConfirmReset
		return m, nil
	case m.state == StateHistory && key.Matches(keyMsg, m.keys.Filter):
		m.history.ToggleSilentOnly()
		return m, nil
	}

	if m.state == StateHistory {
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) record(silent bool, note models.Note) {
	added, err := m.store.RecordToday(silent, note)
	switch {
	case err != nil:
		logger.Error("Failed to record today", "error", err)
		m.status = fmt.Sprintf("Error: %v", err)
	case !added:
		m.status = "Today is already marked"
	case silent:
		m.status = "Marked today as silent"
	default:
		m.status = "Recorded today as missed"
	}
	m.refresh()
}

func (m *Model) openNoteForm() tea.Cmd {
	m.noteForm = &NoteFormModel{}
	if today := m.summary.LastSevenDays[len(m.summary.LastSevenDays)-1]; !today.IsSynthetic() {
		m.noteForm.Text = today.Note.String()
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Note for today").
				Description("Leave it blank to store an empty note.").
				CharLimit(500).
				Value(&m.noteForm.Text),
		),
	)
	m.previousState = m.state
	m.state = StateNoteForm
	return m.form.Init()
}

// applyNote stores the note on today's record, marking today silent first
// when it has no record yet.
func (m *Model) applyNote(text string) {
	today := m.store.Now()
	var (
		changed bool
		err     error
	)
	marked := m.store.HasMarkedToday()
	if marked {
		changed, err = m.store.UpdateNote(today, text)
	} else {
		changed, err = m.store.MarkToday(models.NoteOf(text))
	}

	switch {
	case err != nil:
		logger.Error("Failed to save note", "error", err)
		m.status = fmt.Sprintf("Error: %v", err)
	case !changed:
		m.status = "Today changed elsewhere, note not saved"
	case marked:
		m.status = "Note saved"
	default:
		m.status = "Marked today as silent with a note"
	}
	m.refresh()
}

func (m Model) updateNoteForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.applyNote(m.noteForm.Text)
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m Model) updateConfirmReset(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if err := m.store.ClearAll(); err != nil {
			logger.Error("Failed to reset", "error", err)
			m.status = fmt.Sprintf("Error: %v", err)
		} else {
			m.status = "All days erased"
		}
		m.refresh()
		m.state = m.previousState
	case key.Matches(keyMsg, m.keys.Cancel):
		m.state = m.previousState
	}
	return m, nil
}
