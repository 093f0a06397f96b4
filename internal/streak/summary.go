package streak

import (
	"time"

	"github.com/julianstephens/silentstreak/internal/models"
)

// Summary bundles every derived value a status or stats view needs.
type Summary struct {
	MarkedToday   bool
	CurrentStreak int
	BestStreak    int
	TotalSilent   int
	LastSevenDays []models.DayRecord
	Achievements  []models.Achievement
	HourStats     map[int]int
	Weekly        []WeekCount
}

// Summarize computes a Summary as of now, grouping weeks by firstWeekday.
func Summarize(days []models.DayRecord, now time.Time, firstWeekday time.Weekday) Summary {
	loc := now.Location()
	return Summary{
		MarkedToday:   HasRecordForToday(days, now),
		CurrentStreak: CurrentStreak(days, now),
		BestStreak:    BestStreak(days),
		TotalSilent:   TotalSilentDays(days),
		LastSevenDays: LastSevenDays(days, now),
		Achievements:  Achievements(days),
		HourStats:     HourStats(days, loc),
		Weekly:        WeeklyAggregate(days, loc, firstWeekday),
	}
}
