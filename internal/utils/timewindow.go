package utils // utils provides helpers shared by handlers and repositories

import (
	"errors"
	"math"
	"regexp"
	"time"
)

// Sentinel errors produced while validating a requested booking
// window.  Handlers translate these into 400 responses with a
// machine-readable kind.
var (
	// ErrInvalidFormat is returned when a time string is not a
	// 24-hour HH:MM pair.
	ErrInvalidFormat = errors.New("invalid time format, expected HH:MM (24-hour)")
	// ErrInvalidDate is returned when the booking date does not
	// parse as YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")
	// ErrInvalidInterval is returned when end is not strictly
	// after start.
	ErrInvalidInterval = errors.New("end time must be after start time")
)

// hhmmRe accepts 24-hour clock times with an optional leading zero
// on the hour, e.g. "9:05" and "09:05" but not "24:00" or "9:60".
var hhmmRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// ParseBookingWindow combines a calendar date with HH:MM start and
// end strings into a pair of UTC timestamps.  Validation order:
// both time strings must be well-formed, the date must parse, and
// the resulting interval must satisfy end > start.  The returned
// interval is half-open [start, end).
func ParseBookingWindow(date, start, end string) (time.Time, time.Time, error) {
	sm := hhmmRe.FindStringSubmatch(start)
	em := hhmmRe.FindStringSubmatch(end)
	if sm == nil || em == nil {
		return time.Time{}, time.Time{}, ErrInvalidFormat
	}
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	st, err := time.ParseInLocation("15:04", pad(sm[1])+":"+sm[2], time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidFormat
	}
	et, err := time.ParseInLocation("15:04", pad(em[1])+":"+em[2], time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidFormat
	}
	from := day.Add(time.Duration(st.Hour())*time.Hour + time.Duration(st.Minute())*time.Minute)
	to := day.Add(time.Duration(et.Hour())*time.Hour + time.Duration(et.Minute())*time.Minute)
	if !to.After(from) {
		return time.Time{}, time.Time{}, ErrInvalidInterval
	}
	return from, to, nil
}

func pad(h string) string {
	if len(h) == 1 {
		return "0" + h
	}
	return h
}

// DurationHours returns the booking duration in hours rounded to
// one decimal place, matching how durations are displayed.
func DurationHours(start, end time.Time) float64 {
	h := end.Sub(start).Hours()
	return math.Round(h*10) / 10
}

// BookingAmount computes the charge in rupees for a window at the
// given hourly rate.  The rounded duration feeds the price so that
// recomputing from stored timestamps always yields the same amount.
func BookingAmount(start, end time.Time, pricePerHour int64) int64 {
	return int64(math.Round(DurationHours(start, end) * float64(pricePerHour)))
}
