package heatmapservice

import (
	"context"

	"github.com/A11myt/obsidian-task-heatmap/internal/heatmap"
	"github.com/A11myt/obsidian-task-heatmap/internal/models"
)

// QueryOptions are per-request overrides of the configured defaults
// (the HTTP equivalent of the host's code-block options).
type QueryOptions struct {
	Year   int
	Mode   heatmap.Mode
	Layout heatmap.Layout
	Folder string
}

// CellView is one rendered grid position. Placeholders carry no day.
type CellView struct {
	DateKey        string                 `json:"dateKey,omitempty"`
	Placeholder    bool                   `json:"placeholder,omitempty"`
	HasNote        bool                   `json:"hasNote,omitempty"`
	CompletedTasks int                    `json:"completedTasks,omitempty"`
	TotalTasks     int                    `json:"totalTasks,omitempty"`
	Bucket         int                    `json:"bucket"`
	Color          string                 `json:"color,omitempty"`
	SpecialTag     *models.SpecialTagRule `json:"specialTag,omitempty"`
}

// View is the full data contract the renderer consumes: the grid, the
// resolved palette, and range-wide totals for the footer.
type View struct {
	Mode     heatmap.Mode    `json:"mode"`
	Layout   heatmap.Layout  `json:"layout"`
	Start    string          `json:"start"`
	End      string          `json:"end"`
	Palette  heatmap.Palette `json:"palette"`
	CellSize int             `json:"cellSize"`
	Rows     [][]CellView    `json:"rows,omitempty"`
	Weeks    [][]CellView    `json:"weeks,omitempty"`
	Summary  heatmap.Summary `json:"summary"`
}

// rangeFor resolves query overrides against configured defaults.
func (s *Service) rangeFor(q QueryOptions) heatmap.Range {
	mode := q.Mode
	if mode == "" {
		mode = s.settings.YearMode
	}
	year := q.Year
	if year == 0 {
		year = s.settings.Year
	}
	return heatmap.RangeFor(mode, year, s.now())
}

// Heatmap builds the grid view for the requested range and layout.
func (s *Service) Heatmap(ctx context.Context, q QueryOptions) (*View, error) {
	folder := s.settings.NotesFolder
	if q.Folder != "" {
		folder = q.Folder
	}
	days, err := s.days(ctx, false, folder)
	if err != nil {
		return nil, err
	}

	palette, err := heatmap.PaletteFor(s.settings.ColorScheme, s.settings.CustomColors, s.settings.EmptyColor)
	if err != nil {
		return nil, err
	}

	mode := q.Mode
	if mode == "" {
		mode = s.settings.YearMode
	}
	layout := q.Layout
	if layout == "" {
		layout = heatmap.LayoutWeekdayRows
	}
	rng := s.rangeFor(q)

	view := &View{
		Mode:     mode,
		Layout:   layout,
		Start:    models.DateKeyFor(rng.Start),
		End:      models.DateKeyFor(rng.End),
		Palette:  palette,
		CellSize: s.settings.CellSize,
		Summary:  heatmap.Summarize(rng, days),
	}

	switch layout {
	case heatmap.LayoutWeekColumns:
		for _, week := range heatmap.BuildWeeks(rng, days) {
			view.Weeks = append(view.Weeks, s.cellViews(week, palette))
		}
	default:
		rows := heatmap.BuildRows(rng, days)
		view.Rows = make([][]CellView, len(rows))
		for i, row := range rows {
			view.Rows[i] = s.cellViews(row, palette)
		}
	}
	return view, nil
}

func (s *Service) cellViews(cells []heatmap.Cell, palette heatmap.Palette) []CellView {
	out := make([]CellView, len(cells))
	for i, c := range cells {
		if c.Placeholder {
			out[i] = CellView{Placeholder: true, Bucket: heatmap.EmptyBucket}
			continue
		}
		bucket := heatmap.ColorIndex(c.Day)
		out[i] = CellView{
			DateKey:        c.Day.DateKey,
			HasNote:        c.Day.HasNote,
			CompletedTasks: c.Day.CompletedTasks,
			TotalTasks:     c.Day.TotalTasks,
			Bucket:         bucket,
			Color:          palette.Color(bucket),
			SpecialTag:     heatmap.SpecialTagFor(c.Day, s.settings.SpecialTags),
		}
	}
	return out
}
