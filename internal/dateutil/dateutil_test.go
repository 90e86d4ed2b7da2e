package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKey_StableAcrossZones(t *testing.T) {
	// 2024-03-10 10:00 KST expressed from three different zones. All three
	// are the same KST calendar day and must share one key.
	kst := time.Date(2024, 3, 10, 10, 0, 0, 0, Location())
	utc := kst.UTC()
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-10", DayKey(kst))
	assert.Equal(t, DayKey(kst), DayKey(utc))
	assert.Equal(t, DayKey(kst), DayKey(kst.In(ny)))
}

func TestDayKey_ZoneBoundary(t *testing.T) {
	// 23:30 UTC on March 9 is already March 10 in KST.
	utc := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-10", DayKey(utc))
}

func TestParseDayKey(t *testing.T) {
	got, err := ParseDayKey("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 10, got.Day())
	assert.Equal(t, Location(), got.Location())

	_, err = ParseDayKey("03/10/2024")
	assert.Error(t, err)
}

func TestParseDayKey_RoundTrip(t *testing.T) {
	got, err := ParseDayKey("2025-12-31")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-31", DayKey(got))
}

func TestMonthDetails(t *testing.T) {
	// March 2024 starts on a Friday and has 31 days.
	first, days := MonthDetails(2024, time.March)
	assert.Equal(t, 5, first)
	assert.Equal(t, 31, days)

	// February 2024 is a leap month.
	_, days = MonthDetails(2024, time.February)
	assert.Equal(t, 29, days)

	_, days = MonthDetails(2023, time.February)
	assert.Equal(t, 28, days)
}

func TestMonthKeys(t *testing.T) {
	keys := MonthKeys(2024, time.February)
	require.Len(t, keys, 29)
	assert.Equal(t, "2024-02-01", keys[0])
	assert.Equal(t, "2024-02-29", keys[28])
}
