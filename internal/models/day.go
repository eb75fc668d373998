// Package models defines the domain types for the task heatmap.
package models

import (
	"fmt"
	"strings"
	"time"
)

// EmptyTaskText is substituted when a checkbox line has no trailing text,
// so every task always carries non-empty display text.
const EmptyTaskText = "(Empty task)"

// ParsedTask is a single checkbox line extracted from a daily note.
type ParsedTask struct {
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	Line      int      `json:"line"` // 1-based line number in the source
	Tags      []string `json:"tags"`
}

// DayRecord aggregates task and tag statistics for one calendar date.
type DayRecord struct {
	Date           time.Time    `json:"date"`
	DateKey        string       `json:"dateKey"`   // canonical YYYY-MM-DD
	DayOfWeek      int          `json:"dayOfWeek"` // 0=Monday .. 6=Sunday
	HasNote        bool         `json:"hasNote"`
	CompletedTasks int          `json:"completedTasks"`
	TotalTasks     int          `json:"totalTasks"`
	Tasks          []ParsedTask `json:"tasks"`
	AllTags        []string     `json:"allTags"`
}

// EmptyDay returns a DayRecord for a date without a matching note.
func EmptyDay(date time.Time) *DayRecord {
	return &DayRecord{
		Date:      date,
		DateKey:   DateKeyFor(date),
		DayOfWeek: WeekdayIndex(date),
		Tasks:     []ParsedTask{},
		AllTags:   []string{},
	}
}

// SpecialTagRule maps a hashtag to a highlight color.
type SpecialTagRule struct {
	Name    string `json:"name" yaml:"name"`
	Color   string `json:"color" yaml:"color"` // #rrggbb
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// Matches reports whether the rule's tag appears in the day's tags,
// case-insensitively, in either the task tags or the document-wide set.
func (r SpecialTagRule) Matches(day *DayRecord) bool {
	if day == nil {
		return false
	}
	for _, t := range day.AllTags {
		if strings.EqualFold(t, r.Name) {
			return true
		}
	}
	for _, task := range day.Tasks {
		for _, t := range task.Tags {
			if strings.EqualFold(t, r.Name) {
				return true
			}
		}
	}
	return false
}

// DateKeyFor formats a date as its canonical YYYY-MM-DD key.
func DateKeyFor(date time.Time) string {
	return date.Format("2006-01-02")
}

// ParseDateKey parses a canonical YYYY-MM-DD key back into a date.
// The round-trip with DateKeyFor is exact.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", key)
	if err != nil {
		return time.Time{}, fmt.Errorf("models: invalid date key %q: %w", key, err)
	}
	return t, nil
}

// WeekdayIndex converts a date's weekday to the Monday-based index
// used throughout the grid (Mon=0 .. Sun=6).
func WeekdayIndex(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}
