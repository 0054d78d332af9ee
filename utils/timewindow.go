package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Period selects a statistics window relative to "now".
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ErrUnknownPeriod is returned for selectors other than week, month and year.
var ErrUnknownPeriod = errors.New("unknown period")

// Window is a half-open [Start, End) range unless EndInclusive is set.
type Window struct {
	Start        time.Time
	End          time.Time
	EndInclusive bool
}

// ParsePeriod accepts week, month or year in any letter case.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	}
	return "", fmt.Errorf("%w %q, use week, month or year", ErrUnknownPeriod, s)
}

// Label is the dashboard caption for the period.
func (p Period) Label() string {
	switch p {
	case PeriodWeek:
		return "last 7 days"
	case PeriodMonth:
		return "this month"
	case PeriodYear:
		return "this year"
	}
	return string(p)
}

// StartOfDay returns local midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfNextDay returns midnight of the calendar day after t.
func StartOfNextDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func StartOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// Today is the calendar day containing now.
func Today(now time.Time) Window {
	return Window{Start: StartOfDay(now), End: StartOfNextDay(now)}
}

// PeriodWindow returns the window for p ending at now (inclusive).
// The week is a rolling 7*24h span; month and year are calendar aligned.
func PeriodWindow(p Period, now time.Time) (Window, error) {
	w := Window{End: now, EndInclusive: true}
	switch p {
	case PeriodWeek:
		w.Start = now.Add(-7 * 24 * time.Hour)
	case PeriodMonth:
		w.Start = StartOfMonth(now)
	case PeriodYear:
		w.Start = StartOfYear(now)
	default:
		return Window{}, fmt.Errorf("%w %q", ErrUnknownPeriod, p)
	}
	return w, nil
}
