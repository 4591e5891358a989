package domain

import "time"

const dateLayout = "2006-01-02"

// DayWindow is an inclusive range of whole calendar days in one timezone.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

// NewDayWindow spans start 00:00:00.000 through end 23:59:59.999 in loc.
// Only the calendar dates of start and end are used.
func NewDayWindow(start, end time.Time, loc *time.Location) (DayWindow, error) {
	if loc == nil {
		loc = time.Local
	}
	s := startOfDay(start, loc)
	e := startOfDay(end, loc).AddDate(0, 0, 1).Add(-time.Millisecond)
	if e.Before(s) {
		return DayWindow{}, Invalid("start date must not be after end date")
	}
	return DayWindow{Start: s, End: e}, nil
}

// ParseDayWindow parses YYYY-MM-DD bounds. An empty bound defaults to today in loc.
func ParseDayWindow(start, end string, loc *time.Location, now time.Time) (DayWindow, error) {
	if loc == nil {
		loc = time.Local
	}
	s, err := parseDate(start, loc, now)
	if err != nil {
		return DayWindow{}, Invalid("start must be a date in YYYY-MM-DD format")
	}
	e, err := parseDate(end, loc, now)
	if err != nil {
		return DayWindow{}, Invalid("end must be a date in YYYY-MM-DD format")
	}
	return NewDayWindow(s, e, loc)
}

// Contains reports whether t falls inside the window, bounds included.
func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func parseDate(s string, loc *time.Location, now time.Time) (time.Time, error) {
	if s == "" {
		return now.In(loc), nil
	}
	return time.ParseInLocation(dateLayout, s, loc)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
