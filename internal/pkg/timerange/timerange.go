// Package timerange handles same-day wall-clock windows expressed as "HH:MM".
package timerange

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")

const MinutesPerDay = 24 * 60

// ParseClock converts "HH:MM" (24h, zero padded) into minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	h, ok1 := twoDigits(s[0], s[1])
	m, ok2 := twoDigits(s[3], s[4])
	if !ok1 || !ok2 || h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return h*60 + m, nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// FormatClock is the inverse of ParseClock.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps reports whether [startA, endA) and [startB, endB) share an instant.
// Windows that only touch at an endpoint do not overlap.
func Overlaps(startA, endA, startB, endB int) bool {
	return startA < endB && startB < endA
}

// Window is a parsed same-day interval.
type Window struct {
	Start int
	End   int
}

// ParseWindow parses both ends. It does not check ordering.
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: s, End: e}, nil
}

// Valid reports whether End is strictly after Start.
func (w Window) Valid() bool { return w.End > w.Start }

func (w Window) Overlaps(o Window) bool { return Overlaps(w.Start, w.End, o.Start, o.End) }

// DayBounds returns 00:00:00.000 and 23:59:59.999 of t's calendar day in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
	return start, end
}

// StartOfDay strips the time of day from t.
func StartOfDay(t time.Time) time.Time {
	s, _ := DayBounds(t)
	return s
}
