package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookingWindow(t *testing.T) {
	t.Run("accepts 24-hour times with and without leading zero", func(t *testing.T) {
		start, end, err := ParseBookingWindow("2026-09-01", "9:05", "18:30")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 9, 1, 9, 5, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC), end)
	})

	t.Run("rejects malformed times", func(t *testing.T) {
		for _, tc := range []struct{ start, end string }{
			{"24:00", "10:00"},
			{"09:60", "10:00"},
			{"0900", "10:00"},
			{"9am", "10:00"},
			{"09:00", ""},
			{"09:00", "25:15"},
		} {
			_, _, err := ParseBookingWindow("2026-09-01", tc.start, tc.end)
			assert.ErrorIs(t, err, ErrInvalidFormat, "start=%q end=%q", tc.start, tc.end)
		}
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		for _, date := range []string{"2026-13-01", "2026/09/01", "01-09-2026", ""} {
			_, _, err := ParseBookingWindow(date, "09:00", "10:00")
			assert.ErrorIs(t, err, ErrInvalidDate, "date=%q", date)
		}
	})

	t.Run("rejects end before or equal to start", func(t *testing.T) {
		_, _, err := ParseBookingWindow("2026-09-01", "10:00", "09:00")
		assert.ErrorIs(t, err, ErrInvalidInterval)

		_, _, err = ParseBookingWindow("2026-09-01", "10:00", "10:00")
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("well-formed times with bad interval report the interval error", func(t *testing.T) {
		_, _, err := ParseBookingWindow("2026-09-01", "23:30", "07:15")
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})
}

func TestDurationHours(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("rounds to one decimal", func(t *testing.T) {
		assert.Equal(t, 1.5, DurationHours(day.Add(9*time.Hour), day.Add(10*time.Hour+30*time.Minute)))
		assert.Equal(t, 0.8, DurationHours(day, day.Add(50*time.Minute)))
		assert.Equal(t, 2.0, DurationHours(day, day.Add(2*time.Hour)))
	})

	t.Run("sub-minute windows round down to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, DurationHours(day, day.Add(10*time.Second)))
	})
}

func TestBookingAmount(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("whole hours at 80 per hour", func(t *testing.T) {
		assert.Equal(t, int64(240), BookingAmount(day.Add(9*time.Hour), day.Add(12*time.Hour), 80))
	})

	t.Run("fractional hours use the rounded duration", func(t *testing.T) {
		// 1.5h at 50/h
		assert.Equal(t, int64(75), BookingAmount(day, day.Add(90*time.Minute), 50))
		// 50min rounds to 0.8h; 0.8*80 = 64
		assert.Equal(t, int64(64), BookingAmount(day, day.Add(50*time.Minute), 80))
	})

	t.Run("recomputing from the same window is stable", func(t *testing.T) {
		a := BookingAmount(day.Add(8*time.Hour), day.Add(9*time.Hour+20*time.Minute), 65)
		b := BookingAmount(day.Add(8*time.Hour), day.Add(9*time.Hour+20*time.Minute), 65)
		assert.Equal(t, a, b)
	})
}
