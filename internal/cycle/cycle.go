// Package cycle derives budget period end dates and billing dates.
//
// Month arithmetic follows time.Time.AddDate: a day that does not exist in the
// target month overflows into the following month instead of being clamped,
// so Jan 31 plus one month is Mar 2 (Mar 3 outside leap years).
package cycle

import (
	"strings"
	"time"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

var (
	ErrCustomEndRequired = apperrors.Validation("End date is required for custom cycle type.")
	ErrInvalidCycleType  = apperrors.Validation("Invalid cycle type.")
	ErrInvalidDate       = apperrors.Validation("Invalid date format.")
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDate parses a calendar date or an RFC 3339 timestamp and returns it in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ResolveEndDate computes the last day of a budget period.
func ResolveEndDate(start time.Time, cycleType models.CycleType, customEnd *time.Time) (time.Time, error) {
	switch cycleType {
	case models.CycleMonthly:
		return AdvanceMonth(start).AddDate(0, 0, -1), nil
	case models.CycleWeekly:
		return start.AddDate(0, 0, 6), nil
	case models.CycleCustom:
		if customEnd == nil || customEnd.IsZero() {
			return time.Time{}, ErrCustomEndRequired
		}
		return *customEnd, nil
	default:
		return time.Time{}, ErrInvalidCycleType
	}
}

// AdvanceMonth moves t forward by one calendar month.
func AdvanceMonth(t time.Time) time.Time {
	return t.AddDate(0, 1, 0)
}

// EndOfDay returns the last instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// StartOfDay returns midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
