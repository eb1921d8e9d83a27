package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/shiftsync/internal/calendar"
)

func TestDateKeyUsesLocalFields(t *testing.T) {
	// 23:30 in New York is already the next day in UTC.
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	late := time.Date(2024, 6, 5, 23, 30, 0, 0, ny)
	assert.Equal(t, "2024-06-05", calendar.DateKey(late))
}

func TestParseDateKey(t *testing.T) {
	d, err := calendar.ParseDateKey("2024-06-05")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.June, d.Month())
	assert.Equal(t, 5, d.Day())
	assert.Equal(t, 0, d.Hour())
	assert.Equal(t, time.Local, d.Location())
}

func TestParseDateKeyRollsOver(t *testing.T) {
	d, err := calendar.ParseDateKey("2024-06-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", calendar.DateKey(d))
}

func TestParseDateKeyInvalid(t *testing.T) {
	for _, in := range []string{"", "2024-06", "2024/06/05", "abcd-ef-gh", "2024-06-05-01"} {
		_, err := calendar.ParseDateKey(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestDateKeyRoundTrip(t *testing.T) {
	start := time.Date(1900, 1, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2100, 12, 31, 0, 0, 0, 0, time.Local)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		back, err := calendar.ParseDateKey(calendar.DateKey(d))
		require.NoError(t, err)
		if back.Year() != d.Year() || back.Month() != d.Month() || back.Day() != d.Day() {
			t.Fatalf("round trip of %s gave %s", d, back)
		}
	}
}

func TestMonthRange(t *testing.T) {
	first, last := calendar.MonthRange(time.Date(2024, 2, 17, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), last)
}

func TestSameMonth(t *testing.T) {
	a := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, calendar.SameMonth(a, time.Date(2024, 6, 30, 23, 0, 0, 0, time.UTC)))
	assert.False(t, calendar.SameMonth(a, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, calendar.SameMonth(a, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))
}

func TestStartOfDay(t *testing.T) {
	got := calendar.StartOfDay(time.Date(2024, 6, 5, 18, 42, 7, 99, time.UTC))
	assert.Equal(t, time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), got)
}
