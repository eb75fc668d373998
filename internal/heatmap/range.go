// Package heatmap turns per-day records into a year grid with discrete
// color-intensity buckets.
package heatmap

import "time"

// Mode selects the date range strategy for the grid.
type Mode string

const (
	ModeCurrentYear   Mode = "currentYear"   // Jan 1 .. Dec 31 of a target year
	ModeRollingWindow Mode = "rollingWindow" // today-365 .. today
)

// Year bounds accepted from clients.
const (
	MinYear = 1970
	MaxYear = 9999
)

// Range is an inclusive span of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// YearRange covers the full target year.
func YearRange(year int) Range {
	return Range{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// RollingRange covers the 365 days up to and including today.
func RollingRange(today time.Time) Range {
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return Range{Start: end.AddDate(0, 0, -365), End: end}
}

// RangeFor resolves a mode into a concrete range. year is only
// consulted in current-year mode; zero means today's year.
func RangeFor(mode Mode, year int, today time.Time) Range {
	if mode == ModeRollingWindow {
		return RollingRange(today)
	}
	if year == 0 {
		year = today.Year()
	}
	return YearRange(year)
}

// EachDay calls fn for every day of the range, in order.
func (r Range) EachDay(fn func(date time.Time)) {
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}
