package datetime

import (
	"fmt"
	"math"
	"time"
)

const (
	MsInHour = 3600000
	MsInDay  = 86400000

	// ISO8601 is the layout used for all normalized timestamps (millisecond precision, UTC)
	ISO8601 = "2006-01-02T15:04:05.000Z07:00"
)

// Parse accepts RFC3339 timestamps with any fractional precision and returns them in UTC
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

func Format(t time.Time) string {
	return t.UTC().Format(ISO8601)
}

func FromMs(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// Midnight returns the UTC midnight at or before t
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextMidnight returns the first UTC midnight strictly after t
func NextMidnight(t time.Time) time.Time {
	return Midnight(t).AddDate(0, 0, 1)
}

func IsMidnight(t time.Time) bool {
	return t.Equal(Midnight(t))
}

func MsFromMidnight(t time.Time) int64 {
	return t.Sub(Midnight(t)).Milliseconds()
}

// ComposeMsAndDate returns the instant ms milliseconds after the UTC midnight of d
func ComposeMsAndDate(ms int64, d time.Time) time.Time {
	return Midnight(d).Add(time.Duration(ms) * time.Millisecond)
}

// IsSegmentAcrossMidnight is true when a UTC midnight falls strictly inside [start, end)
func IsSegmentAcrossMidnight(start, end time.Time) bool {
	return NextMidnight(start).Before(end)
}

// RoundToNearestMinutes rounds t to the closest multiple of resolution minutes, dropping seconds
func RoundToNearestMinutes(t time.Time, resolution int) time.Time {
	if resolution <= 0 {
		return t.UTC()
	}
	hour := t.UTC().Truncate(time.Hour)
	minutes := t.UTC().Minute()
	floor := minutes - minutes%resolution
	if minutes-floor < (resolution+1)/2 {
		return hour.Add(time.Duration(floor) * time.Minute)
	}
	return hour.Add(time.Duration(floor+resolution) * time.Minute)
}

// NumDays returns the number of (possibly partial) days covered by [start, end)
func NumDays(start, end time.Time) int {
	return int(math.Ceil(float64(end.Sub(start).Milliseconds()) / MsInDay))
}

// InRange reports whether t falls inside the closed range [start, end]
func InRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func Min(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func Max(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
