// Package streak derives streaks, history views and statistics from a
// snapshot of day records. Every function is pure: the records are never
// modified and "now" is always passed in by the caller.
package streak

import (
	"sort"
	"time"

	"github.com/julianstephens/silentstreak/internal/constants"
	"github.com/julianstephens/silentstreak/internal/models"
	"github.com/julianstephens/silentstreak/internal/utils"
)

// WeekCount is the number of silent days in the week starting at WeekStart.
type WeekCount struct {
	WeekStart time.Time
	Count     int
}

// sortedByDate returns a sorted copy; ties keep insertion order.
func sortedByDate(days []models.DayRecord, descending bool) []models.DayRecord {
	sorted := make([]models.DayRecord, len(days))
	copy(sorted, days)
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// HasRecordForToday reports whether any record falls on now's calendar day.
func HasRecordForToday(days []models.DayRecord, now time.Time) bool {
	loc := now.Location()
	for _, day := range days {
		if utils.SameDay(day.Date, now, loc) {
			return true
		}
	}
	return false
}

// CurrentStreak counts the run of silent records starting from the most
// recent one. The run only counts if it starts today or yesterday, and it
// ends at the first non-silent record. Gaps between dates do not break it.
func CurrentStreak(days []models.DayRecord, now time.Time) int {
	loc := now.Location()
	yesterday := utils.AddDays(utils.StartOfDay(now, loc), -1)

	streak := 0
	for _, day := range sortedByDate(days, true) {
		if !day.WasSilent {
			break
		}
		if streak == 0 && !utils.SameDay(day.Date, now, loc) && !utils.SameDay(day.Date, yesterday, loc) {
			break
		}
		streak++
	}
	return streak
}

// BestStreak returns the longest run of silent records in date order.
func BestStreak(days []models.DayRecord) int {
	current, best := 0, 0
	for _, day := range sortedByDate(days, false) {
		if day.WasSilent {
			current++
			best = max(best, current)
		} else {
			current = 0
		}
	}
	return best
}

// TotalSilentDays counts records marked silent.
func TotalSilentDays(days []models.DayRecord) int {
	total := 0
	for _, day := range days {
		if day.WasSilent {
			total++
		}
	}
	return total
}

// LastSevenDays returns one record per day for the week ending today, oldest
// first. Days without a record get a synthetic, non-silent placeholder.
func LastSevenDays(days []models.DayRecord, now time.Time) []models.DayRecord {
	loc := now.Location()
	today := utils.StartOfDay(now, loc)

	result := make([]models.DayRecord, 0, constants.LastSevenDays)
	for offset := constants.LastSevenDays - 1; offset >= 0; offset-- {
		date := utils.AddDays(today, -offset)
		if existing, ok := findDay(days, date, loc); ok {
			result = append(result, existing)
			continue
		}
		result = append(result, models.DayRecord{Date: date, WasSilent: false})
	}
	return result
}

// History returns records most recent first, optionally only silent ones.
func History(days []models.DayRecord, onlySilent bool) []models.DayRecord {
	filtered := make([]models.DayRecord, 0, len(days))
	for _, day := range days {
		if onlySilent && !day.WasSilent {
			continue
		}
		filtered = append(filtered, day)
	}
	return sortedByDate(filtered, true)
}

// HasNote reports whether the record for date's calendar day carries a
// non-empty note.
func HasNote(days []models.DayRecord, date time.Time) bool {
	day, ok := findDay(days, date, date.Location())
	return ok && !day.Note.IsEmpty()
}

// Achievements evaluates the fixed thresholds, in order.
func Achievements(days []models.DayRecord) []models.Achievement {
	best := BestStreak(days)
	total := TotalSilentDays(days)

	result := []models.Achievement{}
	if best >= constants.StreakThresholdShort {
		result = append(result, models.AchievementStreak3)
	}
	if best >= constants.StreakThresholdLong {
		result = append(result, models.AchievementStreak7)
	}
	if total >= constants.SilentDaysMilestone {
		result = append(result, models.AchievementSilent30)
	}
	return result
}

// HourStats counts silent records by the local hour they were marked at.
// Hours without any record are absent from the map.
func HourStats(days []models.DayRecord, loc *time.Location) map[int]int {
	stats := make(map[int]int)
	for _, day := range days {
		if day.WasSilent {
			stats[day.MarkedAt.In(loc).Hour()]++
		}
	}
	return stats
}

// WeeklyAggregate counts silent records per week, ascending by week start.
func WeeklyAggregate(days []models.DayRecord, loc *time.Location, firstWeekday time.Weekday) []WeekCount {
	counts := make(map[int64]*WeekCount)
	for _, day := range days {
		if !day.WasSilent {
			continue
		}
		start := utils.StartOfWeek(day.Date, loc, firstWeekday)
		key := start.Unix()
		if wc, ok := counts[key]; ok {
			wc.Count++
			continue
		}
		counts[key] = &WeekCount{WeekStart: start, Count: 1}
	}

	result := make([]WeekCount, 0, len(counts))
	for _, wc := range counts {
		result = append(result, *wc)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].WeekStart.Before(result[j].WeekStart)
	})
	return result
}

func findDay(days []models.DayRecord, date time.Time, loc *time.Location) (models.DayRecord, bool) {
	for _, day := range days {
		if utils.SameDay(day.Date, date, loc) {
			return day, true
		}
	}
	return models.DayRecord{}, false
}
