package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/silentstreak/internal/models"
	"github.com/julianstephens/silentstreak/internal/render"
	"github.com/julianstephens/silentstreak/internal/storage"
	"github.com/julianstephens/silentstreak/internal/tracker"
	"github.com/julianstephens/silentstreak/internal/utils"
)

var testNow = time.Date(2024, 3, 14, 21, 30, 0, 0, time.UTC)

func setupTestModel(t *testing.T) (Model, *tracker.Store) {
	t.Helper()
	provider := storage.NewMemoryStore()
	if err := provider.Init(); err != nil {
		t.Fatal(err)
	}
	store := tracker.New(provider, tracker.WithClock(utils.FixedClock(testNow)))
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	return NewModel(store, time.UTC, time.Sunday), store
}

func press(t *testing.T, m Model, keys string) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	model, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return model
}

func pressType(t *testing.T, m Model, kt tea.KeyType) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: kt})
	return updated.(Model)
}

func TestMarkKey(t *testing.T) {
	m, store := setupTestModel(t)

	m = press(t, m, "m")
	if !store.HasMarkedToday() {
		t.Fatal("expected today to be marked")
	}
	if !m.summary.MarkedToday || m.summary.CurrentStreak != 1 {
		t.Errorf("summary not refreshed: %+v", m.summary)
	}
	if m.status != "Marked today as silent" {
		t.Errorf("status = %q", m.status)
	}

	m = press(t, m, "x")
	if len(store.Days()) != 1 {
		t.Errorf("len(days) = %d, want 1", len(store.Days()))
	}
	if m.status != "Today is already marked" {
		t.Errorf("status = %q", m.status)
	}
}

func TestMissedKey(t *testing.T) {
	m, store := setupTestModel(t)

	m = press(t, m, "x")
	days := store.Days()
	if len(days) != 1 || days[0].WasSilent {
		t.Fatalf("days = %+v, want one missed day", days)
	}
	if m.summary.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0", m.summary.CurrentStreak)
	}
}

func TestTabCycling(t *testing.T) {
	m, _ := setupTestModel(t)

	tests := []struct {
		key  tea.KeyType
		want SessionState
	}{
		{tea.KeyTab, StateHistory},
		{tea.KeyTab, StateStats},
		{tea.KeyTab, StateToday},
		{tea.KeyShiftTab, StateStats},
	}
	for _, tt := range tests {
		m = pressType(t, m, tt.key)
		if m.state != tt.want {
			t.Errorf("state = %d, want %d", m.state, tt.want)
		}
	}
}

func TestResetConfirmation(t *testing.T) {
	m, store := setupTestModel(t)
	m = press(t, m, "m")

	m = press(t, m, "R")
	if m.state != StateConfirmReset {
		t.Fatalf("state = %d, want StateConfirmReset", m.state)
	}
	m = press(t, m, "n")
	if m.state != StateToday {
		t.Errorf("state = %d, want StateToday after cancel", m.state)
	}
	if len(store.Days()) != 1 {
		t.Fatal("cancel should keep records")
	}

	m = press(t, m, "R")
	m = press(t, m, "y")
	if len(store.Days()) != 0 {
		t.Errorf("len(days) = %d, want 0 after reset", len(store.Days()))
	}
	if m.summary.MarkedToday {
		t.Error("summary still reports today as marked")
	}
}

func TestHistoryFilter(t *testing.T) {
	m, store := setupTestModel(t)
	records := []models.DayRecord{
		{Date: testNow.AddDate(0, 0, -2), WasSilent: true, MarkedAt: testNow.AddDate(0, 0, -2)},
		{Date: testNow.AddDate(0, 0, -1), WasSilent: false, MarkedAt: testNow.AddDate(0, 0, -1)},
	}
	if err := store.Replace(records); err != nil {
		t.Fatal(err)
	}
	m.refresh()

	m = pressType(t, m, tea.KeyTab)
	if m.history.Len() != 2 {
		t.Fatalf("history len = %d, want 2", m.history.Len())
	}
	m = press(t, m, "f")
	if !m.history.SilentOnly() || m.history.Len() != 1 {
		t.Errorf("silent filter: SilentOnly=%v Len=%d", m.history.SilentOnly(), m.history.Len())
	}
}

func TestApplyNote(t *testing.T) {
	m, store := setupTestModel(t)

	m.applyNote("quiet morning")
	days := store.Days()
	if len(days) != 1 || !days[0].WasSilent {
		t.Fatalf("days = %+v, want one silent day", days)
	}
	if got, _ := days[0].Note.Get(); got != "quiet morning" {
		t.Errorf("note = %q", got)
	}

	m.applyNote("")
	days = store.Days()
	if !days[0].Note.IsPresent() || !days[0].Note.IsEmpty() {
		t.Errorf("note = %+v, want present and empty", days[0].Note)
	}
	if m.status != "Note saved" {
		t.Errorf("status = %q", m.status)
	}
}

func TestNoteFormPrefillsTodaysNote(t *testing.T) {
	m, store := setupTestModel(t)

	m.openNoteForm()
	if m.noteForm.Text != "" || m.state != StateNoteForm {
		t.Fatalf("unmarked day: text=%q state=%d", m.noteForm.Text, m.state)
	}

	m.state = StateToday
	if _, err := store.MarkToday(models.NoteOf("no podcasts")); err != nil {
		t.Fatal(err)
	}
	m.refresh()
	m.openNoteForm()
	if m.noteForm.Text != "no podcasts" {
		t.Errorf("note form text = %q, want %q", m.noteForm.Text, "no podcasts")
	}
}

type nopLocker struct{}

func (nopLocker) Lock() error   { return nil }
func (nopLocker) Unlock() error { return nil }

func TestApplyNoteAfterOutsideReset(t *testing.T) {
	provider := storage.NewMemoryStore()
	if err := provider.Init(); err != nil {
		t.Fatal(err)
	}
	open := func() *tracker.Store {
		store := tracker.New(provider,
			tracker.WithClock(utils.FixedClock(testNow)),
			tracker.WithLocker(nopLocker{}),
		)
		if err := store.Load(); err != nil {
			t.Fatal(err)
		}
		return store
	}

	store := open()
	if _, err := store.MarkToday(models.NoNote()); err != nil {
		t.Fatal(err)
	}
	m := NewModel(store, time.UTC, time.Sunday)

	if err := open().ClearAll(); err != nil {
		t.Fatal(err)
	}

	m.applyNote("written too late")
	if m.status == "Note saved" {
		t.Error("status reports a saved note although the record was gone")
	}
	if len(store.Days()) != 0 {
		t.Errorf("len(days) = %d, want 0", len(store.Days()))
	}
	if m.summary.MarkedToday {
		t.Error("summary not refreshed after the failed update")
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupTestModel(t)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !updated.(Model).quitting {
		t.Error("model not marked as quitting")
	}
	if updated.(Model).View() != "" {
		t.Error("View should be empty after quitting")
	}
}

func TestViewTabs(t *testing.T) {
	m, _ := setupTestModel(t)
	m = press(t, m, "m")

	for _, state := range []SessionState{StateToday, StateHistory, StateStats} {
		m.state = state
		view := m.View()
		for _, title := range tabTitles {
			if !strings.Contains(view, title) {
				t.Errorf("state %d: view missing tab %q", state, title)
			}
		}
	}
}

func TestStylesFollowDayPalette(t *testing.T) {
	if activeTabStyle.GetForeground() != render.SilentStyle.GetForeground() {
		t.Error("active tab should use the silent day color")
	}
	if inactiveTabStyle.GetForeground() != render.UnmarkedStyle.GetForeground() {
		t.Error("inactive tab should use the unmarked day color")
	}
	if dangerStyle.GetForeground() != render.MissedStyle.GetForeground() {
		t.Error("reset prompt should use the missed day color")
	}
}
