// Package calendar holds the date arithmetic the meal planner schedules against.
// Every value returned here is a calendar day at midnight UTC.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// DateLayout is the ISO layout used for every date crossing a package boundary.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a date string is not a valid YYYY-MM-DD date.
var ErrInvalidDate = errors.New("invalid date")

// ErrInvalidWeekday is returned when a first-day-of-week setting cannot be parsed.
var ErrInvalidWeekday = errors.New("invalid weekday")

// ParseDate parses an ISO YYYY-MM-DD string into a calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders a day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return Day(t).Format(DateLayout)
}

// Day drops the time of day, keeping the calendar date as seen in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StartOfWeek returns the first day of the week containing t.
func StartOfWeek(t time.Time, weekStartsOn time.Weekday) time.Time {
	cfg := &now.Config{WeekStartDay: weekStartsOn, TimeLocation: time.UTC}
	return cfg.With(Day(t)).BeginningOfWeek()
}

// AddDays moves t by n calendar days (n may be negative).
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// WeekDays lists the seven days starting at start.
func WeekDays(start time.Time) []time.Time {
	return Range(start, AddDays(start, 6))
}

// Range enumerates every day from `from` to `to`, both inclusive.
// It returns nil when to is before from.
func Range(from, to time.Time) []time.Time {
	from, to = Day(from), Day(to)
	if to.Before(from) {
		return nil
	}
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// MonthGrid returns the days of a month view: whole weeks from the week holding
// the 1st through the week holding the last day, so the result always has a
// multiple of seven entries.
func MonthGrid(year int, month time.Month, weekStartsOn time.Weekday) []time.Time {
	cfg := &now.Config{WeekStartDay: weekStartsOn, TimeLocation: time.UTC}
	n := cfg.With(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))

	first := StartOfWeek(n.BeginningOfMonth(), weekStartsOn)
	last := AddDays(StartOfWeek(n.EndOfMonth(), weekStartsOn), 6)
	return Range(first, last)
}

// InRange reports whether t falls within [from, to], comparing days only.
func InRange(t, from, to time.Time) bool {
	d := Day(t)
	return !d.Before(Day(from)) && !d.After(Day(to))
}

// ParseWeekday accepts a number 0..6 (Sunday = 0) or an English day name
// ("monday", "Mon").
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("%w %q: must be between 0 and 6", ErrInvalidWeekday, s)
		}
		return time.Weekday(n), nil
	}

	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrInvalidWeekday, s)
}
