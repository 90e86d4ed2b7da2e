// Package dateutil derives canonical day keys and month grid geometry in the
// application's fixed reference time zone (Asia/Seoul). The day key is the
// sole join key between a calendar cell and its todo list, so it must not
// depend on the machine's locale or zone.
package dateutil

import (
	"fmt"
	"sync"
	"time"
)

// DayKeyLayout is the canonical YYYY-MM-DD key format.
const DayKeyLayout = "2006-01-02"

var (
	loc     *time.Location
	locOnce sync.Once
)

// Location returns the fixed reference zone. Falls back to a fixed UTC+9
// offset when the host has no tzdata for Asia/Seoul.
func Location() *time.Location {
	locOnce.Do(func() {
		l, err := time.LoadLocation("Asia/Seoul")
		if err != nil {
			l = time.FixedZone("KST", 9*60*60)
		}
		loc = l
	})
	return loc
}

// Now returns the current time in the reference zone.
func Now() time.Time {
	return time.Now().In(Location())
}

// DayKey formats t as a day key in the reference zone. Two instants on the
// same KST calendar day always produce the same key, whatever zone t carries.
func DayKey(t time.Time) string {
	return t.In(Location()).Format(DayKeyLayout)
}

// ParseDayKey parses a canonical day key back to midnight in the reference
// zone.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DayKeyLayout, key, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return t, nil
}

// MonthDetails returns the weekday of the month's first day (Sunday=0) and
// the number of days in the month, for laying out the grid.
func MonthDetails(year int, month time.Month) (firstWeekday, daysInMonth int) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, Location())
	firstWeekday = int(first.Weekday())
	daysInMonth = first.AddDate(0, 1, -1).Day()
	return firstWeekday, daysInMonth
}

// MonthKeys returns the day keys of every day in the given month, in order.
func MonthKeys(year int, month time.Month) []string {
	_, days := MonthDetails(year, month)
	keys := make([]string, 0, days)
	for d := 1; d <= days; d++ {
		keys = append(keys, DayKey(time.Date(year, month, d, 0, 0, 0, 0, Location())))
	}
	return keys
}
