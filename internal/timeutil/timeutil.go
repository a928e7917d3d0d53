// Package timeutil holds the clock and calendar helpers used by the trajectory loaders.
package timeutil

import (
	"fmt"
	"time"
)

const (
	// ClockLayout formats a time of day as HH:MM:SS
	ClockLayout = "15:04:05"
	// DateLayout formats a calendar date
	DateLayout = "2006-01-02"

	compactClockLayout = "150405"
)

// Weekday returns the day of week with Monday=0 and Sunday=6
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Date returns the calendar date of t in DateLayout
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// IntToClock converts a compact HHMMSS value such as "180000" into "18:00:00"
func IntToClock(value string) (string, error) {
	t, err := time.Parse(compactClockLayout, value)
	if err != nil {
		return "", fmt.Errorf("failed to parse clock value %q: %w", value, err)
	}
	return t.Format(ClockLayout), nil
}

// DatetimeIndex returns the clock times from start to end inclusive, spaced by step.
// start and end accept "HH:MM" or "HH:MM:SS".
func DatetimeIndex(start, end string, step time.Duration) ([]string, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %s", step)
	}

	from, err := parseClock(start)
	if err != nil {
		return nil, err
	}
	to, err := parseClock(end)
	if err != nil {
		return nil, err
	}

	var index []string
	for t := from; !t.After(to); t = t.Add(step) {
		index = append(index, t.Format(ClockLayout))
	}
	return index, nil
}

func parseClock(value string) (time.Time, error) {
	for _, layout := range []string{ClockLayout, "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse clock value %q", value)
}
