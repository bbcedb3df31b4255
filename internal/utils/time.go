package utils

import (
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDateUTC parses YYYY-MM-DD as midnight UTC. Grid date filters are
// day-granular and timezone-free, so UTC keeps comparisons stable.
func ParseDateUTC(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.UTC)
}

// ParseDateTimeUTC parses "YYYY-MM-DD HH:MM:SS" in UTC.
func ParseDateTimeUTC(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDateTime, strings.TrimSpace(s), time.UTC)
}

// EndOfDayUTC returns the last representable millisecond of t's UTC day.
func EndOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999*int(time.Millisecond), time.UTC)
}
