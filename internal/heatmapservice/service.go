// Package heatmapservice coordinates scanning, caching, and grid
// building behind the data contract the renderer and API consume.
package heatmapservice

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/A11myt/obsidian-task-heatmap/internal/aggregate"
	"github.com/A11myt/obsidian-task-heatmap/internal/apperr"
	"github.com/A11myt/obsidian-task-heatmap/internal/datetoken"
	"github.com/A11myt/obsidian-task-heatmap/internal/heatmap"
	"github.com/A11myt/obsidian-task-heatmap/internal/history"
	"github.com/A11myt/obsidian-task-heatmap/internal/models"
	"github.com/A11myt/obsidian-task-heatmap/internal/storage"
)

// Settings are the read-only configuration values the service consumes.
type Settings struct {
	NotesFolder     string
	ColorScheme     string
	CustomColors    []string
	EmptyColor      string
	CellSize        int // presentation-only, passed through to the view
	DateLocale      string
	YearMode        heatmap.Mode
	Year            int // 0 = current year
	DailyNoteFormat string
	SpecialTags     []models.SpecialTagRule
}

// ScanEvent describes a completed fresh scan, for SSE consumers.
type ScanEvent struct {
	ScanID         string    `json:"scanId"`
	At             time.Time `json:"at"`
	DaysWithNotes  int       `json:"daysWithNotes"`
	CompletedTasks int       `json:"completedTasks"`
	TotalTasks     int       `json:"totalTasks"`
}

// Service owns one cache and one DayRecord map per instance; multiple
// instances are independent.
type Service struct {
	store     storage.Provider
	collector *aggregate.Collector
	cache     aggregate.Cache
	db        history.Store // optional; nil disables persistence
	tokens    *datetoken.Engine
	logger    *slog.Logger
	settings  Settings

	onScan func(ScanEvent)
	now    func() time.Time
}

// New creates a Service. db may be nil to disable scan history.
func New(store storage.Provider, cache aggregate.Cache, db history.Store, logger *slog.Logger, settings Settings) *Service {
	return &Service{
		store:     store,
		collector: aggregate.New(store, logger),
		cache:     cache,
		db:        db,
		tokens:    datetoken.NewDefaultEngine(),
		logger:    logger,
		settings:  settings,
		now:       time.Now,
	}
}

// OnScan registers a callback invoked after every fresh (non-cached) scan.
func (s *Service) OnScan(fn func(ScanEvent)) {
	s.onScan = fn
}

// days returns the current day map, consulting the cache unless force
// is set or the folder differs from the configured one.
func (s *Service) days(ctx context.Context, force bool, folder string) (map[string]*models.DayRecord, error) {
	useCache := !force && folder == s.settings.NotesFolder
	if useCache {
		if cached, ok := s.cache.Get(); ok {
			return cached, nil
		}
	}

	days, err := s.collector.Collect(ctx, folder)
	if err != nil {
		return nil, err
	}
	if useCache || force {
		s.cache.Set(days)
	}
	s.recordScan(folder, days)
	return days, nil
}

// recordScan persists the snapshot and notifies listeners.
func (s *Service) recordScan(folder string, days map[string]*models.DayRecord) {
	ev := ScanEvent{ScanID: ulid.Make().String(), At: s.now()}
	stats := make([]history.DayStat, 0, len(days))
	for _, d := range days {
		ev.DaysWithNotes++
		ev.CompletedTasks += d.CompletedTasks
		ev.TotalTasks += d.TotalTasks
		stats = append(stats, history.DayStat{
			DateKey:        d.DateKey,
			CompletedTasks: d.CompletedTasks,
			TotalTasks:     d.TotalTasks,
			TagCount:       len(d.AllTags),
		})
	}

	if s.db != nil {
		row := history.ScanRow{
			ID:             ev.ScanID,
			ScannedAt:      ev.At,
			NotesFolder:    folder,
			DaysWithNotes:  ev.DaysWithNotes,
			CompletedTasks: ev.CompletedTasks,
			TotalTasks:     ev.TotalTasks,
		}
		if err := s.db.RecordScan(row, stats); err != nil {
			s.logger.Warn("scan: history record failed", slog.String("error", err.Error()))
		}
	}
	if s.onScan != nil {
		s.onScan(ev)
	}
}

// Refresh rebuilds the day map. force bypasses the cache unconditionally.
func (s *Service) Refresh(ctx context.Context, force bool) (heatmap.Summary, error) {
	if force {
		s.cache.Invalidate()
	}
	days, err := s.days(ctx, force, s.settings.NotesFolder)
	if err != nil {
		return heatmap.Summary{}, err
	}
	rng := s.rangeFor(QueryOptions{})
	return heatmap.Summarize(rng, days), nil
}

// Day returns the full record for a dateKey within the configured
// range, synthesizing an empty day when no note matched. Malformed keys
// yield apperr.ErrNotFound, dates outside the range apperr.ErrOutOfRange.
func (s *Service) Day(ctx context.Context, dateKey string) (*models.DayRecord, error) {
	date, err := models.ParseDateKey(dateKey)
	if err != nil {
		return nil, errors.Join(apperr.ErrNotFound, err)
	}
	rng := s.rangeFor(QueryOptions{})
	if date.Before(rng.Start) || date.After(rng.End) {
		return nil, apperr.ErrOutOfRange
	}

	days, err := s.days(ctx, false, s.settings.NotesFolder)
	if err != nil {
		return nil, err
	}
	if day, ok := days[dateKey]; ok {
		return day, nil
	}
	return models.EmptyDay(date), nil
}

// NotePathFor substitutes the configured daily-note pattern for a date.
// An unresolvable configured locale falls back to the default locale.
func (s *Service) NotePathFor(date time.Time) (string, error) {
	path, err := s.tokens.ApplyPattern(s.settings.DailyNoteFormat, date, s.settings.DateLocale)
	if err == nil {
		return path, nil
	}
	var le *datetoken.LocaleError
	if !errors.As(err, &le) {
		return "", err
	}
	s.logger.Warn("notepath: locale fallback",
		slog.String("locale", s.settings.DateLocale),
		slog.String("fallback", datetoken.DefaultLocale))
	return s.tokens.ApplyPattern(s.settings.DailyNoteFormat, date, datetoken.DefaultLocale)
}

// RecentScans lists persisted scans, newest first.
func (s *Service) RecentScans(_ context.Context, limit int) ([]history.ScanRow, error) {
	if s.db == nil {
		return []history.ScanRow{}, nil
	}
	return s.db.RecentScans(limit)
}

// TotalsForYear returns persisted totals for one year.
func (s *Service) TotalsForYear(_ context.Context, year int) (history.YearTotals, error) {
	if s.db == nil {
		return history.YearTotals{Year: year}, nil
	}
	return s.db.TotalsForYear(year)
}
