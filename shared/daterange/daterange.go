// Package daterange holds the calendar-date helpers used by availability,
// reporting and the dashboard. A calendar date is a civil date stored as
// midnight UTC; time of day never takes part in these computations.
package daterange

import (
	"errors"
	"fmt"
	"guesthouse/shared/timezone"
	"iter"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	TimeLayout  = "15:04"
	daysPerWeek = 7
)

var ErrInvalidDate = errors.New("invalid calendar date")

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Degenerate or reversed ranges overlap nothing.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if !aStart.Before(aEnd) || !bStart.Before(bEnd) {
		return false
	}

	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp and returns the calendar date.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidDate
	}

	if parsed, err := time.Parse(DateLayout, value); err == nil {
		return parsed, nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}

	return Truncate(parsed), nil
}

// Truncate drops the time of day, keeping the civil date as seen in t's location.
func Truncate(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar date in the application timezone.
func Today() time.Time {
	return Truncate(timezone.Now())
}

// Format renders a calendar date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}

// EachDay yields every calendar date from start to end, both inclusive.
func EachDay(start, end time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for day := Truncate(start); !day.After(Truncate(end)); day = day.AddDate(0, 0, 1) {
			if !yield(day) {
				return
			}
		}
	}
}

// WeekOfMonth is the month-relative week index: days 1-7 are week 1, 8-14 week 2 and so on.
func WeekOfMonth(t time.Time) int {
	return (t.Day() + daysPerWeek - 1) / daysPerWeek
}

// CombineDateTime joins a calendar date with an HH:MM time of day in the application timezone.
// An empty time of day means midnight.
func CombineDateTime(date time.Time, clock string) (time.Time, error) {
	hour, minute := 0, 0

	if clock = strings.TrimSpace(clock); clock != "" {
		parsed, err := time.Parse(TimeLayout, clock)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time of day %q: %w", clock, err)
		}

		hour, minute = parsed.Hour(), parsed.Minute()
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, timezone.Location()), nil
}
