package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// InTimezone converts t to the named timezone.
func InTimezone(t time.Time, timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return t.In(loc), nil
}

// AddDays shifts a YYYY-MM-DD date by n calendar days.
func AddDays(day string, n int) (string, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// LastNDays returns the n calendar days ending on (and including) end,
// ordered oldest to newest.
func LastNDays(end string, n int) ([]string, error) {
	t, err := time.Parse(constants.DateFormat, end)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []string{}, nil
	}
	days := make([]string, n)
	for i := 0; i < n; i++ {
		days[n-1-i] = t.AddDate(0, 0, -i).Format(constants.DateFormat)
	}
	return days, nil
}

// DaysBetween returns every day from start to end inclusive, oldest first.
// It returns an empty slice when start is after end.
func DaysBetween(start, end string) ([]string, error) {
	s, err := time.Parse(constants.DateFormat, start)
	if err != nil {
		return nil, err
	}
	e, err := time.Parse(constants.DateFormat, end)
	if err != nil {
		return nil, err
	}
	var days []string
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(constants.DateFormat))
	}
	return days, nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
