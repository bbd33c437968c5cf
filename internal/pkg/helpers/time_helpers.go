package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ErrInvalidClock is returned for times of day not in HH:MM form
var ErrInvalidClock = errors.New("time of day must be HH:MM")

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseClock converts "HH:MM" to minutes after midnight
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil || len(s) != len(ClockLayout) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes after midnight to "HH:MM"
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinutesBetween returns end-start in minutes. The range must be increasing.
func MinutesBetween(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if e <= s {
		return 0, fmt.Errorf("%w: %s-%s", ErrInvalidClock, start, end)
	}
	return e - s, nil
}

// ClockRangesOverlap reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
// HH:MM strings order lexically, so no parsing is needed.
func ClockRangesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// ParseDate parses a YYYY-MM-DD date in local time
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// TruncateDay drops the time of day
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EachDay calls fn for every day in [from, to]
func EachDay(from, to time.Time, fn func(day time.Time)) {
	for day := TruncateDay(from); !day.After(TruncateDay(to)); day = day.AddDate(0, 0, 1) {
		fn(day)
	}
}
