// Package aggregate scans the vault for date-named daily notes and
// folds their parsed tasks into per-day records.
package aggregate

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/A11myt/obsidian-task-heatmap/internal/models"
	"github.com/A11myt/obsidian-task-heatmap/internal/storage"
	"github.com/A11myt/obsidian-task-heatmap/internal/taskparse"
)

// Daily note filenames are fixed to DD-Mon-YYYY with English month
// abbreviations. Anything else is not a daily note and is skipped.
var filenameRe = regexp.MustCompile(`^(\d{2})-([A-Za-z]{3})-(\d{4})$`)

var monthIndex = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// DecodeBasename parses a DD-Mon-YYYY basename into a date.
// The month abbreviation is case-sensitive against the English table.
func DecodeBasename(basename string) (time.Time, bool) {
	m := filenameRe.FindStringSubmatch(basename)
	if m == nil {
		return time.Time{}, false
	}
	month, ok := monthIndex[m[2]]
	if !ok {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

// readConcurrency bounds parallel document reads during a scan.
const readConcurrency = 8

// Collector builds the per-day record map from the document source.
type Collector struct {
	store  storage.Provider
	logger *slog.Logger
}

// New creates a Collector over the given document source.
func New(store storage.Provider, logger *slog.Logger) *Collector {
	return &Collector{store: store, logger: logger}
}

type candidate struct {
	meta models.NoteMetadata
	date time.Time
	res  *taskparse.Result
	ok   bool
}

// Collect performs one full scan: documents under notesFolder whose
// basenames decode to a date are parsed and folded into a map keyed by
// dateKey. Document reads run concurrently, but the merge is sequential
// in lexicographic path order, so colliding dates deterministically
// resolve last-write-wins by path. A failed read skips that single
// document and the scan continues.
func (c *Collector) Collect(ctx context.Context, notesFolder string) (map[string]*models.DayRecord, error) {
	metas, err := c.store.List("")
	if err != nil {
		return nil, err
	}

	var candidates []*candidate
	for _, m := range metas {
		if notesFolder != "" && !strings.HasPrefix(m.Path, notesFolder) {
			continue
		}
		date, ok := DecodeBasename(m.Basename)
		if !ok {
			continue
		}
		candidates = append(candidates, &candidate{meta: m, date: date})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].meta.Path < candidates[j].meta.Path
	})

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for _, cand := range candidates {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			data, readErr := c.store.Read(cand.meta.Path)
			if readErr != nil {
				c.logger.Warn("scan: read failed",
					slog.String("path", cand.meta.Path),
					slog.String("error", readErr.Error()))
				return nil
			}
			cand.res = taskparse.Parse(string(data))
			cand.ok = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	days := make(map[string]*models.DayRecord, len(candidates))
	for _, cand := range candidates {
		if !cand.ok {
			continue
		}
		day := &models.DayRecord{
			Date:           cand.date,
			DateKey:        models.DateKeyFor(cand.date),
			DayOfWeek:      models.WeekdayIndex(cand.date),
			HasNote:        true,
			CompletedTasks: cand.res.Completed(),
			TotalTasks:     len(cand.res.Tasks),
			Tasks:          cand.res.Tasks,
			AllTags:        cand.res.AllTags,
		}
		if _, dup := days[day.DateKey]; dup {
			c.logger.Debug("scan: duplicate date, keeping later path",
				slog.String("date", day.DateKey),
				slog.String("path", cand.meta.Path))
		}
		days[day.DateKey] = day
	}

	c.logger.Debug("scan: collected",
		slog.Int("documents", len(candidates)),
		slog.Int("days", len(days)))
	return days, nil
}
