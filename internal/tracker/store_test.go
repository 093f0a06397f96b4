package tracker

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/silentstreak/internal/constants"
	"github.com/julianstephens/silentstreak/internal/logger"
	"github.com/julianstephens/silentstreak/internal/models"
	"github.com/julianstephens/silentstreak/internal/storage"
	"github.com/julianstephens/silentstreak/internal/utils"
)

var testNow = time.Date(2024, 3, 14, 21, 30, 0, 0, time.UTC)

type failingProvider struct {
	*storage.MemoryStore
	failWrites bool
	failReads  bool
}

func (p *failingProvider) WriteSlot(name string, data []byte) error {
	if p.failWrites {
		return errors.New("disk full")
	}
	return p.MemoryStore.WriteSlot(name, data)
}

func (p *failingProvider) ReadSlot(name string) ([]byte, error) {
	if p.failReads {
		return nil, errors.New("permission denied")
	}
	return p.MemoryStore.ReadSlot(name)
}

type countingLocker struct {
	locks, unlocks int
	err            error
}

func (l *countingLocker) Lock() error {
	if l.err != nil {
		return l.err
	}
	l.locks++
	return nil
}

func (l *countingLocker) Unlock() error {
	l.unlocks++
	return nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func setupTestStore(t *testing.T, opts ...Option) (*Store, *storage.MemoryStore) {
	provider := storage.NewMemoryStore()
	if err := provider.Init(); err != nil {
		t.Fatalf("failed to init provider: %v", err)
	}
	opts = append([]Option{WithClock(utils.FixedClock(testNow)), WithIDGenerator(sequentialIDs())}, opts...)
	store := New(provider, opts...)
	if err := store.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return store, provider
}

func TestMarkTodayOncePerDay(t *testing.T) {
	store, provider := setupTestStore(t)

	if store.HasMarkedToday() {
		t.Fatal("HasMarkedToday() = true on empty store")
	}

	added, err := store.MarkToday(models.NoteOf("quiet morning"))
	if err != nil || !added {
		t.Fatalf("MarkToday() = %v, %v", added, err)
	}
	added, err = store.MarkToday(models.NoNote())
	if err != nil {
		t.Fatalf("second MarkToday() failed: %v", err)
	}
	if added {
		t.Error("second MarkToday() added a record")
	}

	days := store.Days()
	if len(days) != 1 {
		t.Fatalf("len(Days()) = %d, want 1", len(days))
	}
	got := days[0]
	if got.ID != "id-1" || !got.WasSilent || got.Note.String() != "quiet morning" {
		t.Errorf("record = %+v", got)
	}
	if !got.MarkedAt.Equal(testNow) {
		t.Errorf("MarkedAt = %v, want %v", got.MarkedAt, testNow)
	}
	if got.Day(time.UTC) != "2024-03-14" {
		t.Errorf("Day() = %s", got.Day(time.UTC))
	}
	if !store.HasMarkedToday() {
		t.Error("HasMarkedToday() = false after marking")
	}

	data, err := provider.ReadSlot(constants.SilenceDaysSlot)
	if err != nil {
		t.Fatalf("slot not persisted: %v", err)
	}
	persisted, err := storage.DecodeDays(data)
	if err != nil || len(persisted) != 1 {
		t.Errorf("persisted = %v, %v", persisted, err)
	}
}

func TestRecordTodayMissed(t *testing.T) {
	store, _ := setupTestStore(t)

	added, err := store.RecordToday(false, models.NoNote())
	if err != nil || !added {
		t.Fatalf("RecordToday() = %v, %v", added, err)
	}
	if store.Days()[0].WasSilent {
		t.Error("missed day recorded as silent")
	}
	if added, _ := store.MarkToday(models.NoNote()); added {
		t.Error("MarkToday() added a second record for today")
	}
}

func TestUpdateNote(t *testing.T) {
	store, _ := setupTestStore(t)
	if _, err := store.MarkToday(models.NoNote()); err != nil {
		t.Fatal(err)
	}

	updated, err := store.UpdateNote(testNow.Add(-time.Hour), "added later")
	if err != nil || !updated {
		t.Fatalf("UpdateNote() = %v, %v", updated, err)
	}
	if got := store.Days()[0].Note.String(); got != "added later" {
		t.Errorf("note = %q", got)
	}

	updated, err = store.UpdateNote(testNow.AddDate(0, 0, -3), "nothing here")
	if err != nil {
		t.Fatalf("UpdateNote() on missing day failed: %v", err)
	}
	if updated {
		t.Error("UpdateNote() on missing day reported an update")
	}
	if len(store.Days()) != 1 {
		t.Error("UpdateNote() on missing day changed the collection")
	}
}

func TestClearAll(t *testing.T) {
	store, provider := setupTestStore(t)
	if _, err := store.MarkToday(models.NoNote()); err != nil {
		t.Fatal(err)
	}

	if err := store.ClearAll(); err != nil {
		t.Fatalf("ClearAll() failed: %v", err)
	}
	if len(store.Days()) != 0 {
		t.Error("Days() not empty after ClearAll()")
	}
	data, err := provider.ReadSlot(constants.SilenceDaysSlot)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"version":1,"days":[]}` {
		t.Errorf("persisted = %s", data)
	}
}

func TestLoadCorruptBlobRecoversEmpty(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf, log.DebugLevel)
	defer logger.SetOutput(&bytes.Buffer{}, log.WarnLevel)

	store, provider := setupTestStore(t)
	if err := provider.WriteSlot(constants.SilenceDaysSlot, []byte(`{"version":"one"}`)); err != nil {
		t.Fatal(err)
	}

	if err := store.Load(); err != nil {
		t.Fatalf("Load() on corrupt blob failed: %v", err)
	}
	if len(store.Days()) != 0 {
		t.Error("corrupt blob did not load as empty")
	}
	if !strings.Contains(buf.String(), "Discarding unreadable day records") {
		t.Errorf("corrupt blob not logged, got %q", buf.String())
	}
}

func TestLoadReadFailure(t *testing.T) {
	provider := &failingProvider{MemoryStore: storage.NewMemoryStore(), failReads: true}
	_ = provider.Init()

	store := New(provider)
	if err := store.Load(); err == nil {
		t.Error("Load() succeeded despite read failure")
	}
}

func TestPersistFailureRollsBack(t *testing.T) {
	provider := &failingProvider{MemoryStore: storage.NewMemoryStore()}
	_ = provider.Init()
	store := New(provider, WithClock(utils.FixedClock(testNow)))
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}

	provider.failWrites = true
	added, err := store.MarkToday(models.NoNote())
	if err == nil || added {
		t.Fatalf("MarkToday() = %v, %v, want failure", added, err)
	}
	if len(store.Days()) != 0 {
		t.Error("failed write left a record in memory")
	}

	provider.failWrites = false
	if added, err := store.MarkToday(models.NoNote()); err != nil || !added {
		t.Errorf("MarkToday() after recovery = %v, %v", added, err)
	}
}

func TestReplace(t *testing.T) {
	store, _ := setupTestStore(t)

	imported := []models.DayRecord{
		{ID: "a", Date: testNow.AddDate(0, 0, -1), WasSilent: true, MarkedAt: testNow.AddDate(0, 0, -1)},
		{Date: testNow, WasSilent: true, Note: models.NoteOf(""), MarkedAt: testNow},
	}
	if err := store.Replace(imported); err != nil {
		t.Fatalf("Replace() failed: %v", err)
	}
	days := store.Days()
	if len(days) != 2 || days[0].ID != "a" || days[1].ID != "id-1" {
		t.Errorf("Days() = %+v", days)
	}
	if !days[1].Note.IsPresent() {
		t.Error("present empty note lost on import")
	}

	dup := []models.DayRecord{
		{ID: "x", Date: testNow, WasSilent: true},
		{ID: "y", Date: testNow.Add(-time.Hour), WasSilent: false},
	}
	if err := store.Replace(dup); !errors.Is(err, ErrDuplicateDay) {
		t.Errorf("Replace() error = %v, want ErrDuplicateDay", err)
	}
	if len(store.Days()) != 2 {
		t.Error("rejected import changed the collection")
	}
}

func TestExportRoundTrip(t *testing.T) {
	store, _ := setupTestStore(t)
	if _, err := store.MarkToday(models.NoteOf("n")); err != nil {
		t.Fatal(err)
	}

	data, err := store.Export()
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	other, _ := setupTestStore(t)
	days, err := storage.DecodeDays(data)
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Replace(days); err != nil {
		t.Fatal(err)
	}
	got := other.Days()
	if len(got) != 1 || got[0].ID != "id-1" || got[0].Note.String() != "n" {
		t.Errorf("imported = %+v", got)
	}
}

func TestLockerWrapsMutations(t *testing.T) {
	locker := &countingLocker{}
	store, _ := setupTestStore(t, WithLocker(locker))

	if _, err := store.MarkToday(models.NoNote()); err != nil {
		t.Fatal(err)
	}
	if err := store.ClearAll(); err != nil {
		t.Fatal(err)
	}
	if locker.locks != 2 || locker.unlocks != 2 {
		t.Errorf("locks/unlocks = %d/%d, want 2/2", locker.locks, locker.unlocks)
	}

	locker.err = errors.New("locked elsewhere")
	if _, err := store.MarkToday(models.NoNote()); err == nil {
		t.Error("MarkToday() succeeded while lock unavailable")
	}
}

func TestLockedMutationSeesOtherWriters(t *testing.T) {
	store, provider := setupTestStore(t, WithLocker(&countingLocker{}))

	data, err := storage.EncodeDays([]models.DayRecord{
		{ID: "other", Date: testNow, WasSilent: true, MarkedAt: testNow},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := provider.WriteSlot(constants.SilenceDaysSlot, data); err != nil {
		t.Fatal(err)
	}

	added, err := store.MarkToday(models.NoNote())
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Error("MarkToday() ignored a record written by another process")
	}
}

func TestLockedMutationSeesOtherJSONHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "days.json")
	if err := storage.NewJSONStore(path).Init(); err != nil {
		t.Fatal(err)
	}
	open := func() *Store {
		provider := storage.NewJSONStore(path)
		if err := provider.Load(); err != nil {
			t.Fatal(err)
		}
		store := New(provider,
			WithClock(utils.FixedClock(testNow)),
			WithIDGenerator(sequentialIDs()),
			WithLocker(&countingLocker{}),
		)
		if err := store.Load(); err != nil {
			t.Fatal(err)
		}
		return store
	}

	tui, cli := open(), open()
	if added, err := cli.MarkToday(models.NoteOf("quiet train")); err != nil || !added {
		t.Fatalf("MarkToday() = %v, %v", added, err)
	}

	added, err := tui.RecordToday(false, models.NoNote())
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Error("RecordToday() added a second record for a day marked by the other handle")
	}

	days := tui.Days()
	if len(days) != 1 || !days[0].WasSilent {
		t.Fatalf("days = %+v, want the other handle's silent record", days)
	}
	if text, _ := days[0].Note.Get(); text != "quiet train" {
		t.Errorf("note = %q, want %q", text, "quiet train")
	}

	reopened := open()
	if len(reopened.Days()) != 1 {
		t.Errorf("file holds %d records, want 1", len(reopened.Days()))
	}
}

func TestSummary(t *testing.T) {
	store, _ := setupTestStore(t)
	days := []models.DayRecord{
		{ID: "1", Date: testNow.AddDate(0, 0, -2), WasSilent: true, MarkedAt: testNow.AddDate(0, 0, -2)},
		{ID: "2", Date: testNow.AddDate(0, 0, -1), WasSilent: true, MarkedAt: testNow.AddDate(0, 0, -1)},
		{ID: "3", Date: testNow, WasSilent: true, MarkedAt: testNow},
	}
	if err := store.Replace(days); err != nil {
		t.Fatal(err)
	}

	summary := store.Summary(time.Sunday)
	if !summary.MarkedToday || summary.CurrentStreak != 3 || summary.BestStreak != 3 || summary.TotalSilent != 3 {
		t.Errorf("Summary() = %+v", summary)
	}
	if len(summary.Achievements) != 1 || summary.Achievements[0] != models.AchievementStreak3 {
		t.Errorf("Achievements = %v", summary.Achievements)
	}
}
