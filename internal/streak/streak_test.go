package streak

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/silentstreak/internal/models"
)

var testNow = time.Date(2024, time.March, 14, 21, 30, 0, 0, time.UTC)

// day builds a record n days before testNow, marked at the given hour.
func day(daysAgo int, silent bool) models.DayRecord {
	date := testNow.AddDate(0, 0, -daysAgo)
	return models.DayRecord{
		ID:        fmt.Sprintf("day-%d", daysAgo),
		Date:      date,
		WasSilent: silent,
		MarkedAt:  date,
	}
}

func markedAtHour(d models.DayRecord, hour int) models.DayRecord {
	d.MarkedAt = time.Date(d.Date.Year(), d.Date.Month(), d.Date.Day(), hour, 15, 0, 0, time.UTC)
	return d
}

func TestEmptyCollection(t *testing.T) {
	var days []models.DayRecord

	if got := CurrentStreak(days, testNow); got != 0 {
		t.Errorf("CurrentStreak() = %d, want 0", got)
	}
	if got := BestStreak(days); got != 0 {
		t.Errorf("BestStreak() = %d, want 0", got)
	}
	if got := TotalSilentDays(days); got != 0 {
		t.Errorf("TotalSilentDays() = %d, want 0", got)
	}
	if got := Achievements(days); len(got) != 0 {
		t.Errorf("Achievements() = %v, want none", got)
	}
	if HasRecordForToday(days, testNow) {
		t.Error("HasRecordForToday() = true for empty collection")
	}
	if got := HourStats(days, time.UTC); len(got) != 0 {
		t.Errorf("HourStats() = %v, want empty", got)
	}
	if got := WeeklyAggregate(days, time.UTC, time.Sunday); len(got) != 0 {
		t.Errorf("WeeklyAggregate() = %v, want empty", got)
	}
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name string
		days []models.DayRecord
		want int
	}{
		{
			name: "three consecutive silent days ending today",
			days: []models.DayRecord{day(0, true), day(1, true), day(2, true)},
			want: 3,
		},
		{
			name: "non-silent yesterday breaks the run",
			days: []models.DayRecord{day(0, true), day(1, false), day(2, true)},
			want: 1,
		},
		{
			name: "stale streak starting five days ago",
			days: []models.DayRecord{day(5, true)},
			want: 0,
		},
		{
			name: "streak may start yesterday",
			days: []models.DayRecord{day(1, true), day(2, true)},
			want: 2,
		},
		{
			name: "most recent record not silent",
			days: []models.DayRecord{day(0, false), day(1, true)},
			want: 0,
		},
		{
			name: "date gaps do not break record adjacency",
			days: []models.DayRecord{day(10, true), day(0, true)},
			want: 2,
		},
		{
			name: "insertion order does not matter",
			days: []models.DayRecord{day(2, true), day(0, true), day(1, true)},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.days, testNow); got != tt.want {
				t.Errorf("CurrentStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCurrentStreakIsZeroWhenStale(t *testing.T) {
	for daysAgo := 2; daysAgo < 40; daysAgo++ {
		days := []models.DayRecord{day(daysAgo, true), day(daysAgo+1, true)}
		if got := CurrentStreak(days, testNow); got != 0 {
			t.Errorf("CurrentStreak() with latest silent record %d days ago = %d, want 0", daysAgo, got)
		}
	}
}

func TestCurrentStreakUsesCallerTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// 23:30 UTC on the 13th is already the 14th in Tokyo.
	record := models.DayRecord{ID: "a", Date: time.Date(2024, time.March, 13, 23, 30, 0, 0, time.UTC), WasSilent: true}
	now := time.Date(2024, time.March, 14, 12, 0, 0, 0, tokyo)

	if !HasRecordForToday([]models.DayRecord{record}, now) {
		t.Error("HasRecordForToday() = false, want true in Tokyo")
	}
	if got := CurrentStreak([]models.DayRecord{record}, now); got != 1 {
		t.Errorf("CurrentStreak() = %d, want 1", got)
	}
}

func TestBestStreak(t *testing.T) {
	tests := []struct {
		name string
		days []models.DayRecord
		want int
	}{
		{
			name: "all silent",
			days: []models.DayRecord{day(0, true), day(1, true), day(2, true)},
			want: 3,
		},
		{
			name: "longest run in the past",
			days: []models.DayRecord{
				day(0, true), day(1, false),
				day(2, true), day(3, true), day(4, true), day(5, true),
				day(6, false), day(7, true),
			},
			want: 4,
		},
		{
			name: "no silent records",
			days: []models.DayRecord{day(0, false), day(1, false)},
			want: 0,
		},
		{
			name: "stale run still counts",
			days: []models.DayRecord{day(20, true), day(21, true)},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BestStreak(tt.days); got != tt.want {
				t.Errorf("BestStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBestStreakCoversCurrentForAllSilent(t *testing.T) {
	var days []models.DayRecord
	for i := 0; i < 12; i++ {
		days = append(days, day(i, true))
	}
	if got := BestStreak(days); got != len(days) {
		t.Errorf("BestStreak() = %d, want %d", got, len(days))
	}
	if got := CurrentStreak(days, testNow); got != len(days) {
		t.Errorf("CurrentStreak() = %d, want %d", got, len(days))
	}
}

func TestLastSevenDays(t *testing.T) {
	silentNote := day(2, true)
	silentNote.Note = models.NoteOf("quiet morning")
	days := []models.DayRecord{day(0, true), silentNote, day(9, true)}

	got := LastSevenDays(days, testNow)
	if len(got) != 7 {
		t.Fatalf("LastSevenDays() returned %d entries, want 7", len(got))
	}

	for i := 1; i < len(got); i++ {
		prev := got[i-1].Date.In(time.UTC)
		next := prev.AddDate(0, 0, 1).Format("2006-01-02")
		if got[i].Day(time.UTC) != next {
			t.Errorf("entry %d is %s, want %s", i, got[i].Day(time.UTC), next)
		}
	}
	if got[6].Day(time.UTC) != testNow.Format("2006-01-02") {
		t.Errorf("last entry is %s, want today", got[6].Day(time.UTC))
	}

	if got[6].ID != "day-0" || !got[6].WasSilent {
		t.Errorf("today entry = %+v, want stored record", got[6])
	}
	if got[4].ID != "day-2" || got[4].Note.String() != "quiet morning" {
		t.Errorf("two days ago = %+v, want stored record with note", got[4])
	}
	for _, i := range []int{0, 1, 2, 3, 5} {
		if !got[i].IsSynthetic() || got[i].WasSilent || got[i].Note.IsPresent() {
			t.Errorf("entry %d = %+v, want synthetic non-silent placeholder", i, got[i])
		}
	}
}

func TestHistory(t *testing.T) {
	days := []models.DayRecord{day(3, true), day(0, false), day(1, true), day(2, false)}

	all := History(days, false)
	wantAll := []string{"day-0", "day-1", "day-2", "day-3"}
	if ids := recordIDs(all); !reflect.DeepEqual(ids, wantAll) {
		t.Errorf("History(false) = %v, want %v", ids, wantAll)
	}

	silent := History(days, true)
	wantSilent := []string{"day-1", "day-3"}
	if ids := recordIDs(silent); !reflect.DeepEqual(ids, wantSilent) {
		t.Errorf("History(true) = %v, want %v", ids, wantSilent)
	}

	if TotalSilentDays(days) != len(silent) {
		t.Errorf("TotalSilentDays() = %d, want len(History(true)) = %d", TotalSilentDays(days), len(silent))
	}

	// input must be untouched
	if days[0].ID != "day-3" {
		t.Error("History() reordered its input")
	}
}

func TestHasNote(t *testing.T) {
	withNote := day(0, true)
	withNote.Note = models.NoteOf("felt calm")
	emptyNote := day(1, true)
	emptyNote.Note = models.NoteOf("")
	spaceNote := day(2, true)
	spaceNote.Note = models.NoteOf(" ")
	noNote := day(3, true)

	days := []models.DayRecord{withNote, emptyNote, spaceNote, noNote}

	tests := []struct {
		name    string
		daysAgo int
		want    bool
	}{
		{"non-empty note", 0, true},
		{"empty note", 1, false},
		{"whitespace is not trimmed", 2, true},
		{"absent note", 3, false},
		{"no record", 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date := testNow.AddDate(0, 0, -tt.daysAgo)
			if got := HasNote(days, date); got != tt.want {
				t.Errorf("HasNote() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAchievements(t *testing.T) {
	var thirty []models.DayRecord
	for i := 0; i < 30; i++ {
		thirty = append(thirty, day(i, true))
	}

	tests := []struct {
		name string
		days []models.DayRecord
		want []models.Achievement
	}{
		{
			name: "thirty silent days",
			days: thirty,
			want: []models.Achievement{models.AchievementStreak3, models.AchievementStreak7, models.AchievementSilent30},
		},
		{
			name: "three day streak",
			days: []models.DayRecord{day(0, true), day(1, true), day(2, true)},
			want: []models.Achievement{models.AchievementStreak3},
		},
		{
			name: "two day streak",
			days: []models.DayRecord{day(0, true), day(1, true), day(2, false)},
			want: []models.Achievement{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Achievements(tt.days)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Achievements() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHourStats(t *testing.T) {
	days := []models.DayRecord{
		markedAtHour(day(0, true), 8),
		markedAtHour(day(1, true), 8),
		markedAtHour(day(2, true), 14),
		markedAtHour(day(3, false), 20),
	}

	got := HourStats(days, time.UTC)
	want := map[int]int{8: 2, 14: 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("HourStats() = %v, want %v", got, want)
	}
}

func TestWeeklyAggregate(t *testing.T) {
	// testNow is Thursday 2024-03-14.
	days := []models.DayRecord{
		day(0, true),  // Thu 14th
		day(3, true),  // Mon 11th
		day(4, true),  // Sun 10th
		day(5, true),  // Sat 9th
		day(6, false), // Fri 8th
		day(12, true), // Sat 2nd
	}

	t.Run("weeks start on sunday", func(t *testing.T) {
		got := WeeklyAggregate(days, time.UTC, time.Sunday)
		want := []WeekCount{
			{WeekStart: time.Date(2024, time.February, 25, 0, 0, 0, 0, time.UTC), Count: 1},
			{WeekStart: time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), Count: 1},
			{WeekStart: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), Count: 3},
		}
		assertWeeks(t, got, want)
	})

	t.Run("weeks start on monday", func(t *testing.T) {
		got := WeeklyAggregate(days, time.UTC, time.Monday)
		want := []WeekCount{
			{WeekStart: time.Date(2024, time.February, 26, 0, 0, 0, 0, time.UTC), Count: 1},
			{WeekStart: time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), Count: 2},
			{WeekStart: time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC), Count: 2},
		}
		assertWeeks(t, got, want)
	})
}

func TestPurity(t *testing.T) {
	days := []models.DayRecord{day(2, true), day(0, true), day(1, false)}

	first := Summarize(days, testNow, time.Monday)
	second := Summarize(days, testNow, time.Monday)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Summarize() is not deterministic:\n%+v\n%+v", first, second)
	}
	if days[0].ID != "day-2" || days[1].ID != "day-0" || days[2].ID != "day-1" {
		t.Error("Summarize() mutated its input")
	}
}

func TestSummarize(t *testing.T) {
	days := []models.DayRecord{day(0, true), day(1, true), day(2, true)}
	got := Summarize(days, testNow, time.Sunday)

	if !got.MarkedToday {
		t.Error("MarkedToday = false, want true")
	}
	if got.CurrentStreak != 3 || got.BestStreak != 3 || got.TotalSilent != 3 {
		t.Errorf("streaks = %d/%d/%d, want 3/3/3", got.CurrentStreak, got.BestStreak, got.TotalSilent)
	}
	if len(got.LastSevenDays) != 7 {
		t.Errorf("len(LastSevenDays) = %d, want 7", len(got.LastSevenDays))
	}
	if len(got.Achievements) != 1 {
		t.Errorf("Achievements = %v, want one", got.Achievements)
	}
}

func recordIDs(days []models.DayRecord) []string {
	ids := make([]string, 0, len(days))
	for _, d := range days {
		ids = append(ids, d.ID)
	}
	return ids
}

func assertWeeks(t *testing.T, got, want []WeekCount) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d weeks %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if !got[i].WeekStart.Equal(want[i].WeekStart) || got[i].Count != want[i].Count {
			t.Errorf("week %d = %s:%d, want %s:%d", i,
				got[i].WeekStart.Format("2006-01-02"), got[i].Count,
				want[i].WeekStart.Format("2006-01-02"), want[i].Count)
		}
	}
}
