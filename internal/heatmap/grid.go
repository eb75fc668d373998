package heatmap

import (
	"time"

	"github.com/A11myt/obsidian-task-heatmap/internal/models"
)

// Layout selects how grid cells are grouped.
type Layout string

const (
	LayoutWeekdayRows Layout = "weekdayRows" // 7 rows, days flow left to right
	LayoutWeekColumns Layout = "weekColumns" // successive weeks, GitHub-style columns
)

// Cell is one grid position: either a real day or an alignment
// placeholder before the range start. Placeholders are never colored.
type Cell struct {
	Day         *models.DayRecord `json:"day,omitempty"`
	Placeholder bool              `json:"placeholder,omitempty"`
}

// dayAt looks up the record for a date, synthesizing an empty day when
// the scan produced nothing. An empty day still occupies a cell; it is
// distinct from an out-of-range placeholder.
func dayAt(date time.Time, days map[string]*models.DayRecord) *models.DayRecord {
	if d, ok := days[models.DateKeyFor(date)]; ok {
		return d
	}
	return models.EmptyDay(date)
}

// BuildRows lays the range out as 7 weekday rows (Mon=0 .. Sun=6).
// Rows 0..weekday(start)-1 receive one leading placeholder so columns
// align to calendar weeks.
func BuildRows(rng Range, days map[string]*models.DayRecord) [7][]Cell {
	var rows [7][]Cell
	for i := 0; i < models.WeekdayIndex(rng.Start); i++ {
		rows[i] = append(rows[i], Cell{Placeholder: true})
	}
	rng.EachDay(func(date time.Time) {
		day := dayAt(date, days)
		rows[day.DayOfWeek] = append(rows[day.DayOfWeek], Cell{Day: day})
	})
	return rows
}

// BuildWeeks lays the range out as successive week columns, each
// starting on Monday. The first week is padded with placeholders up to
// the start date's weekday.
func BuildWeeks(rng Range, days map[string]*models.DayRecord) [][]Cell {
	var weeks [][]Cell
	week := make([]Cell, 0, 7)
	for i := 0; i < models.WeekdayIndex(rng.Start); i++ {
		week = append(week, Cell{Placeholder: true})
	}
	rng.EachDay(func(date time.Time) {
		if models.WeekdayIndex(date) == 0 && len(week) > 0 {
			weeks = append(weeks, week)
			week = make([]Cell, 0, 7)
		}
		week = append(week, Cell{Day: dayAt(date, days)})
	})
	if len(week) > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// Summary aggregates task totals across the whole range, for the
// footer beneath the grid.
type Summary struct {
	CompletedTasks int `json:"completedTasks"`
	TotalTasks     int `json:"totalTasks"`
	DaysWithNotes  int `json:"daysWithNotes"`
	ActiveDays     int `json:"activeDays"` // days with at least one completed task
}

// Summarize computes range-wide totals over the collected days.
func Summarize(rng Range, days map[string]*models.DayRecord) Summary {
	var s Summary
	rng.EachDay(func(date time.Time) {
		day, ok := days[models.DateKeyFor(date)]
		if !ok || !day.HasNote {
			return
		}
		s.DaysWithNotes++
		s.CompletedTasks += day.CompletedTasks
		s.TotalTasks += day.TotalTasks
		if day.CompletedTasks > 0 {
			s.ActiveDays++
		}
	})
	return s
}

// SpecialTagFor returns the first enabled rule whose tag appears in the
// day's tags, or nil. The match never changes the base color bucket;
// it only flags a secondary marker.
func SpecialTagFor(day *models.DayRecord, rules []models.SpecialTagRule) *models.SpecialTagRule {
	for i := range rules {
		if !rules[i].Enabled {
			continue
		}
		if rules[i].Matches(day) {
			return &rules[i]
		}
	}
	return nil
}
