package heatmap

import (
	"testing"
	"time"

	"github.com/A11myt/obsidian-task-heatmap/internal/models"
)

func dayWith(key string, completed, total int) *models.DayRecord {
	date, err := models.ParseDateKey(key)
	if err != nil {
		panic(err)
	}
	d := models.EmptyDay(date)
	d.HasNote = true
	d.CompletedTasks = completed
	d.TotalTasks = total
	return d
}

func TestBuildRows_LeapYearCellCount(t *testing.T) {
	rng := YearRange(2024) // leap year, Jan 1 is a Monday
	rows := BuildRows(rng, nil)

	cells := 0
	seen := make(map[string]struct{})
	for _, row := range rows {
		for _, c := range row {
			if c.Placeholder {
				continue
			}
			cells++
			if _, dup := seen[c.Day.DateKey]; dup {
				t.Errorf("dateKey %s appears twice", c.Day.DateKey)
			}
			seen[c.Day.DateKey] = struct{}{}
		}
	}
	if cells != 366 {
		t.Errorf("non-placeholder cells = %d, want 366", cells)
	}
}

func TestBuildRows_PlaceholderAlignment(t *testing.T) {
	// 2025-01-01 is a Wednesday (weekday index 2): rows 0 and 1 get a
	// leading placeholder, row 2 starts with Jan 1.
	rng := YearRange(2025)
	rows := BuildRows(rng, nil)

	nonPlaceholder := 0
	for i, row := range rows {
		if i < 2 {
			if len(row) == 0 || !row[0].Placeholder {
				t.Errorf("row %d should start with a placeholder", i)
			}
		} else if len(row) > 0 && row[0].Placeholder {
			t.Errorf("row %d should not start with a placeholder", i)
		}
		for _, c := range row {
			if !c.Placeholder {
				nonPlaceholder++
			}
		}
	}
	if nonPlaceholder != 365 {
		t.Errorf("non-placeholder cells = %d, want 365", nonPlaceholder)
	}
	if rows[2][0].Day.DateKey != "2025-01-01" {
		t.Errorf("row 2 starts at %s, want 2025-01-01", rows[2][0].Day.DateKey)
	}
}

func TestBuildRows_AbsentDayIsEmptyNotPlaceholder(t *testing.T) {
	rng := YearRange(2024)
	days := map[string]*models.DayRecord{
		"2024-03-05": dayWith("2024-03-05", 1, 2),
	}
	rows := BuildRows(rng, days)

	var found, empty *models.DayRecord
	for _, row := range rows {
		for _, c := range row {
			if c.Placeholder {
				continue
			}
			switch c.Day.DateKey {
			case "2024-03-05":
				found = c.Day
			case "2024-03-06":
				empty = c.Day
			}
		}
	}
	if found == nil || !found.HasNote || found.CompletedTasks != 1 {
		t.Errorf("collected day = %+v", found)
	}
	if empty == nil || empty.HasNote || empty.TotalTasks != 0 {
		t.Errorf("synthesized day = %+v", empty)
	}
}

func TestBuildWeeks_WeekShape(t *testing.T) {
	rng := YearRange(2025) // starts Wednesday
	weeks := BuildWeeks(rng, nil)

	if len(weeks[0]) != 7 {
		t.Errorf("first week len = %d, want 7 (2 placeholders + 5 days)", len(weeks[0]))
	}
	if !weeks[0][0].Placeholder || !weeks[0][1].Placeholder {
		t.Error("first week should begin with two placeholders")
	}
	if weeks[0][2].Day.DateKey != "2025-01-01" {
		t.Errorf("first real cell = %s", weeks[0][2].Day.DateKey)
	}
	for i, w := range weeks[1 : len(weeks)-1] {
		if len(w) != 7 {
			t.Errorf("week %d len = %d, want 7", i+1, len(w))
		}
	}
	total := 0
	for _, w := range weeks {
		for _, c := range w {
			if !c.Placeholder {
				total++
			}
		}
	}
	if total != 365 {
		t.Errorf("day cells = %d, want 365", total)
	}
}

func TestRollingRange(t *testing.T) {
	today := time.Date(2024, time.June, 15, 13, 45, 0, 0, time.UTC)
	rng := RollingRange(today)
	if models.DateKeyFor(rng.End) != "2024-06-15" {
		t.Errorf("end = %s", models.DateKeyFor(rng.End))
	}
	if models.DateKeyFor(rng.Start) != "2023-06-16" {
		t.Errorf("start = %s", models.DateKeyFor(rng.Start))
	}
}

func TestColorIndex(t *testing.T) {
	cases := []struct {
		name string
		day  *models.DayRecord
		want int
	}{
		{"nil day", nil, EmptyBucket},
		{"no note", models.EmptyDay(time.Now()), EmptyBucket},
		{"note without tasks", dayWith("2024-03-05", 0, 0), 1},
		{"nothing completed", dayWith("2024-03-05", 0, 3), 1},
		{"one completed", dayWith("2024-03-05", 1, 5), 2},
		{"two completed", dayWith("2024-03-05", 2, 2), 3},
		{"three completed", dayWith("2024-03-05", 3, 9), 3},
		{"four completed", dayWith("2024-03-05", 4, 10), 4},
		{"many completed", dayWith("2024-03-05", 17, 20), 4},
	}
	for _, tc := range cases {
		if got := ColorIndex(tc.day); got != tc.want {
			t.Errorf("%s: bucket = %d, want %d", tc.name, got, tc.want)
		}
		// Pure function: identical input, identical bucket.
		if again := ColorIndex(tc.day); again != ColorIndex(tc.day) {
			t.Errorf("%s: bucket not stable", tc.name)
		}
	}
}

func TestPaletteFor(t *testing.T) {
	p, err := PaletteFor("blue", nil, "#111111")
	if err != nil {
		t.Fatalf("PaletteFor: %v", err)
	}
	if p[0] != "#111111" {
		t.Errorf("empty slot = %q, want override", p[0])
	}
	if p.Color(4) != "#033d8b" {
		t.Errorf("bucket 4 color = %q", p.Color(4))
	}
	if p.Color(EmptyBucket) != "#111111" {
		t.Errorf("empty bucket color = %q", p.Color(EmptyBucket))
	}

	if _, err := PaletteFor("plaid", nil, ""); err == nil {
		t.Error("expected error for unknown scheme")
	}
	if _, err := PaletteFor("custom", []string{"#fff"}, ""); err == nil {
		t.Error("expected error for short custom palette")
	}
}

func TestSummarize(t *testing.T) {
	rng := YearRange(2024)
	days := map[string]*models.DayRecord{
		"2024-03-05": dayWith("2024-03-05", 1, 2),
		"2024-03-06": dayWith("2024-03-06", 0, 3),
		"2023-12-31": dayWith("2023-12-31", 5, 5), // outside range
	}
	s := Summarize(rng, days)
	if s.CompletedTasks != 1 || s.TotalTasks != 5 {
		t.Errorf("summary = %+v", s)
	}
	if s.DaysWithNotes != 2 || s.ActiveDays != 1 {
		t.Errorf("summary = %+v", s)
	}
}

func TestSpecialTagFor(t *testing.T) {
	day := dayWith("2024-03-05", 1, 1)
	day.AllTags = []string{"Urlaub"}

	rules := []models.SpecialTagRule{
		{Name: "travel", Color: "#00ff00", Enabled: true},
		{Name: "urlaub", Color: "#ff6b6b", Enabled: false},
		{Name: "URLAUB", Color: "#123456", Enabled: true},
	}
	got := SpecialTagFor(day, rules)
	if got == nil || got.Color != "#123456" {
		t.Errorf("rule = %+v, want first enabled case-insensitive match", got)
	}

	if SpecialTagFor(models.EmptyDay(time.Now()), rules) != nil {
		t.Error("empty day should match no rule")
	}
}
