// Package timezone holds the application location used for stay dates,
// check-in times and report windows. It is UTC until Set is called.
package timezone

import (
	"fmt"
	"sync/atomic"
	"time"
)

var location atomic.Pointer[time.Location]

// Set switches the application location to the IANA zone name, e.g.
// "Asia/Kolkata". An empty name means UTC.
func Set(name string) error {
	if name == "" {
		location.Store(time.UTC)

		return nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("loading timezone %q: %w", name, err)
	}

	location.Store(loc)

	return nil
}

func Location() *time.Location {
	if loc := location.Load(); loc != nil {
		return loc
	}

	return time.UTC
}

func Now() time.Time {
	return time.Now().In(Location())
}

// In converts t to the application location.
func In(t time.Time) time.Time {
	return t.In(Location())
}

// Parse reads value as wall-clock time in the application location.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, Location()) //nolint:wrapcheck
}

func Format(t time.Time, layout string) string {
	return In(t).Format(layout)
}
