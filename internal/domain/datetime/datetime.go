// Package datetime converts between the console's wall-clock form inputs
// ({date, time, AM/PM} in a named zone) and absolute instants.
package datetime

import (
	"errors"
	"fmt"
	"strings"
	"time"

	// Embedded zone database so IANA names resolve in minimal images.
	_ "time/tzdata"
)

const (
	// DateLayout is the calendar date format used by the console forms.
	DateLayout = "2006-01-02"
	// ClockLayout is the 12-hour clock format the console renders. Input may
	// omit the leading zero ("9:30").
	ClockLayout      = "03:04"
	clockInputLayout = "3:04"
)

// Period is the half of the day a 12-hour clock value falls in.
type Period string

const (
	AM Period = "AM"
	PM Period = "PM"
)

// ParsePeriod normalizes and validates an AM/PM marker.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToUpper(strings.TrimSpace(s)))
	if p != AM && p != PM {
		return "", fmt.Errorf("invalid period %q: expected AM or PM", s)
	}
	return p, nil
}

// WallClock is a calendar date and 12-hour time without a zone.
type WallClock struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Period Period `json:"period"`
}

var errEmptyZone = errors.New("time zone is required")

// LoadZone resolves an IANA zone name. "UTC" and "Local" are accepted.
func LoadZone(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return nil, errEmptyZone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", tz, err)
	}
	return loc, nil
}

// ValidZone reports whether tz names a loadable zone.
func ValidZone(tz string) bool {
	_, err := LoadZone(tz)
	return err == nil
}

// ToInstant interprets wc as wall-clock time in tz and returns the absolute instant.
// Wall-clock values that fall in a DST gap are normalized forward by the zone offset
// the same way time.Date does.
func ToInstant(wc WallClock, tz string) (time.Time, error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return time.Time{}, err
	}

	day, err := time.Parse(DateLayout, strings.TrimSpace(wc.Date))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", wc.Date, err)
	}

	clock, err := parseClock(wc.Time)
	if err != nil {
		return time.Time{}, err
	}

	period, err := ParsePeriod(string(wc.Period))
	if err != nil {
		return time.Time{}, err
	}

	hour := clock.Hour() % 12
	if period == PM {
		hour += 12
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, clock.Minute(), 0, 0, loc), nil
}

// parseClock accepts "h:mm" or "hh:mm" with an hour from 1 to 12.
func parseClock(s string) (time.Time, error) {
	clock, err := time.Parse(clockInputLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if clock.Hour() == 0 {
		return time.Time{}, fmt.Errorf("invalid time %q: hour must be between 1 and 12", s)
	}
	return clock, nil
}

// FromInstant projects t into tz and returns its wall-clock form.
func FromInstant(t time.Time, tz string) (WallClock, error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return WallClock{}, err
	}

	local := t.In(loc)
	period := AM
	if local.Hour() >= 12 {
		period = PM
	}

	return WallClock{
		Date:   local.Format(DateLayout),
		Time:   local.Format(ClockLayout),
		Period: period,
	}, nil
}
