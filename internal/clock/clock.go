package clock

import (
	"errors"
	"fmt"
	"time"
)

// DayKeyFormat is the calendar date layout used for day keys.
const DayKeyFormat = "2006-01-02"

// ClockTimeFormat is the layout for wall-clock times of day.
const ClockTimeFormat = "15:04"

// ErrInvalidTimezone is returned when an identifier is not a resolvable IANA
// zone. Day keys are never computed against a guessed offset; callers fail
// closed instead.
var ErrInvalidTimezone = errors.New("invalid timezone")

// Clock supplies the current instant. Injected so reveal and rollover timing
// can be tested without sleeping.
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always reports the same instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

func loadZone(tz string) (*time.Location, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	return loc, nil
}

// DayKey returns the calendar date (YYYY-MM-DD) that at falls on when viewed
// in tz. Uses real IANA rules, including DST transitions.
func DayKey(tz string, at time.Time) (string, error) {
	loc, err := loadZone(tz)
	if err != nil {
		return "", err
	}
	return at.In(loc).Format(DayKeyFormat), nil
}

// DayStartUTC returns the UTC instant of 00:00:00 local time for the local
// day containing at.
func DayStartUTC(tz string, at time.Time) (time.Time, error) {
	loc, err := loadZone(tz)
	if err != nil {
		return time.Time{}, err
	}
	local := at.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), nil
}

// DayRange returns the [start, end) UTC bounds of the local day containing at.
func DayRange(tz string, at time.Time) (time.Time, time.Time, error) {
	start, err := DayStartUTC(tz, at)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(24 * time.Hour), nil
}

// ResolveTimeToday resolves a clock time (HH:MM) against the local day
// containing at and returns the corresponding UTC instant.
func ResolveTimeToday(tz, clockTime string, at time.Time) (time.Time, error) {
	loc, err := loadZone(tz)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(ClockTimeFormat, clockTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", clockTime, err)
	}
	local := at.In(loc)
	resolved := time.Date(local.Year(), local.Month(), local.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	return resolved.UTC(), nil
}

// HasPassed reports whether target, viewed in tz, is at or before now.
func HasPassed(tz string, target, now time.Time) (bool, error) {
	loc, err := loadZone(tz)
	if err != nil {
		return false, err
	}
	// Converting both sides preserves instant ordering; the zone is still
	// validated so a bad participant record fails closed.
	return !target.In(loc).After(now.In(loc)), nil
}

// NextOccurrence returns the next UTC instant at which the local clock in tz
// reads clockTime, starting from at. If that time has already passed today it
// advances by one local day.
func NextOccurrence(tz, clockTime string, at time.Time) (time.Time, error) {
	loc, err := loadZone(tz)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(ClockTimeFormat, clockTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", clockTime, err)
	}
	local := at.In(loc)
	resolved := time.Date(local.Year(), local.Month(), local.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	if !resolved.After(local) {
		resolved = time.Date(local.Year(), local.Month(), local.Day()+1, t.Hour(), t.Minute(), 0, 0, loc)
	}
	return resolved.UTC(), nil
}

// PreviousDay returns the day key one calendar day before key.
func PreviousDay(key string) (string, error) {
	d, err := time.Parse(DayKeyFormat, key)
	if err != nil {
		return "", fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return d.AddDate(0, 0, -1).Format(DayKeyFormat), nil
}

// NextDay returns the day key one calendar day after key.
func NextDay(key string) (string, error) {
	d, err := time.Parse(DayKeyFormat, key)
	if err != nil {
		return "", fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return d.AddDate(0, 0, 1).Format(DayKeyFormat), nil
}
