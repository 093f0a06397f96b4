// Package tracker owns the day-record collection and its persistence.
package tracker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/silentstreak/internal/constants"
	"github.com/julianstephens/silentstreak/internal/logger"
	"github.com/julianstephens/silentstreak/internal/models"
	"github.com/julianstephens/silentstreak/internal/storage"
	"github.com/julianstephens/silentstreak/internal/streak"
	"github.com/julianstephens/silentstreak/internal/utils"
)

// ErrDuplicateDay is returned when an import holds two records for one calendar day.
var ErrDuplicateDay = errors.New("duplicate record for calendar day")

// Locker guards a read-modify-write cycle across processes.
type Locker interface {
	Lock() error
	Unlock() error
}

type Store struct {
	provider storage.Provider
	clock    utils.Clock
	locker   Locker
	newID    func() string

	mu   sync.Mutex
	days []models.DayRecord
}

type Option func(*Store)

func WithClock(c utils.Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithLocker(l Locker) Option {
	return func(s *Store) { s.locker = l }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func New(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		clock:    utils.SystemClock{},
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one. A missing
// or undecodable blob yields an empty collection.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reload()
}

func (s *Store) reload() error {
	data, err := s.provider.ReadSlot(constants.SilenceDaysSlot)
	if err != nil {
		if errors.Is(err, storage.ErrSlotNotFound) {
			s.days = nil
			return nil
		}
		return fmt.Errorf("failed to read day records: %w", err)
	}

	days, err := storage.DecodeDays(data)
	if err != nil {
		logger.Warn("Discarding unreadable day records", "slot", constants.SilenceDaysSlot, "error", err)
		s.days = nil
		return nil
	}
	s.days = days
	return nil
}

func (s *Store) persist(days []models.DayRecord) error {
	data, err := storage.EncodeDays(days)
	if err != nil {
		return err
	}
	if err := s.provider.WriteSlot(constants.SilenceDaysSlot, data); err != nil {
		logger.Error("Failed to persist day records", "error", err)
		return fmt.Errorf("failed to save day records: %w", err)
	}
	return nil
}

// mutate runs fn against a fresh copy of the collection under both locks and
// persists the result. The collection is left untouched when fn declines or
// the write fails.
func (s *Store) mutate(fn func(days []models.DayRecord) ([]models.DayRecord, bool, error)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locker != nil {
		if err := s.locker.Lock(); err != nil {
			return false, err
		}
		defer func() {
			if err := s.locker.Unlock(); err != nil {
				logger.Warn("Failed to release lock", "error", err)
			}
		}()
		if err := s.reload(); err != nil {
			return false, err
		}
	}

	next, changed, err := fn(s.snapshot())
	if err != nil || !changed {
		return false, err
	}
	if err := s.persist(next); err != nil {
		return false, err
	}
	s.days = next
	return true, nil
}

func (s *Store) snapshot() []models.DayRecord {
	out := make([]models.DayRecord, len(s.days))
	copy(out, s.days)
	return out
}

func (s *Store) now() time.Time {
	return s.clock.Now()
}

// Days returns a copy of the collection in insertion order.
func (s *Store) Days() []models.DayRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) HasMarkedToday() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return streak.HasRecordForToday(s.days, s.now())
}

// MarkToday records today as silent. It reports false when today already
// has a record.
func (s *Store) MarkToday(note models.Note) (bool, error) {
	return s.RecordToday(true, note)
}

func (s *Store) RecordToday(wasSilent bool, note models.Note) (bool, error) {
	now := s.now()
	return s.mutate(func(days []models.DayRecord) ([]models.DayRecord, bool, error) {
		if streak.HasRecordForToday(days, now) {
			return nil, false, nil
		}
		record := models.DayRecord{
			ID:        s.newID(),
			Date:      utils.StartOfDay(now, now.Location()),
			WasSilent: wasSilent,
			Note:      note,
			MarkedAt:  now,
		}
		logger.Debug("Recording day", "date", record.Day(now.Location()), "silent", wasSilent)
		return append(days, record), true, nil
	})
}

// UpdateNote sets the note on the first record for date's calendar day. It
// reports false when no such record exists.
func (s *Store) UpdateNote(date time.Time, note string) (bool, error) {
	loc := s.now().Location()
	return s.mutate(func(days []models.DayRecord) ([]models.DayRecord, bool, error) {
		for i := range days {
			if utils.SameDay(days[i].Date, date, loc) {
				days[i].Note = models.NoteOf(note)
				return days, true, nil
			}
		}
		return nil, false, nil
	})
}

// ClearAll erases every record.
func (s *Store) ClearAll() error {
	_, err := s.mutate(func([]models.DayRecord) ([]models.DayRecord, bool, error) {
		return []models.DayRecord{}, true, nil
	})
	return err
}

// Replace swaps in an imported collection. Records without an ID get one.
func (s *Store) Replace(days []models.DayRecord) error {
	loc := s.now().Location()
	seen := make(map[string]struct{}, len(days))
	next := make([]models.DayRecord, len(days))
	for i, d := range days {
		key := d.Day(loc)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateDay, key)
		}
		seen[key] = struct{}{}
		if d.ID == "" {
			d.ID = s.newID()
		}
		next[i] = d
	}

	_, err := s.mutate(func([]models.DayRecord) ([]models.DayRecord, bool, error) {
		return next, true, nil
	})
	return err
}

// Export encodes the current collection as a versioned blob.
func (s *Store) Export() ([]byte, error) {
	return storage.EncodeDays(s.Days())
}

func (s *Store) Summary(firstWeekday time.Weekday) streak.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return streak.Summarize(s.days, s.now(), firstWeekday)
}

// Now exposes the store's clock so callers compute "today" consistently.
func (s *Store) Now() time.Time {
	return s.now()
}
