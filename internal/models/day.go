package models

import "time"

// DayRecord is one explicitly marked calendar day.
type DayRecord struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"` // only the calendar day is significant
	WasSilent bool      `json:"was_silent"`
	Note      Note      `json:"note,omitzero"`
	MarkedAt  time.Time `json:"marked_at"` // creation instant, used for hour-of-day stats
}

// IsSynthetic reports whether the record was filled in for an unmarked day
// rather than loaded from storage.
func (d DayRecord) IsSynthetic() bool {
	return d.ID == ""
}

// Day returns the record's calendar day formatted in loc.
func (d DayRecord) Day(loc *time.Location) string {
	return d.Date.In(loc).Format("2006-01-02")
}
