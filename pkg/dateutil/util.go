package dateutil

import (
	"time"
)

const dayLayout = "2006-01-02"

// DayKey returns the calendar day of t in loc, formatted as YYYY-MM-DD.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	return t.In(loc).Format(dayLayout)
}

// IsYesterday reports whether last is exactly one calendar day before today.
// Both arguments are day keys produced by DayKey.
func IsYesterday(last, today string) bool {
	lastDay, err := time.Parse(dayLayout, last)
	if err != nil {
		return false
	}

	todayDay, err := time.Parse(dayLayout, today)
	if err != nil {
		return false
	}

	return lastDay.AddDate(0, 0, 1).Equal(todayDay)
}

// InHourBand reports whether the local hour of t lies in [from, to). A band
// where from > to wraps around midnight, e.g. [22, 4).
func InHourBand(t time.Time, loc *time.Location, from, to int) bool {
	if loc == nil {
		loc = time.Local
	}

	hour := t.In(loc).Hour()
	if from <= to {
		return hour >= from && hour < to
	}

	return hour >= from || hour < to
}
