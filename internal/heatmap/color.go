package heatmap

import (
	"fmt"

	"github.com/A11myt/obsidian-task-heatmap/internal/models"
)

// EmptyBucket marks days without a note; it is not part of the 0-4
// intensity scale and renders with the palette's empty color.
const EmptyBucket = -1

// ColorIndex maps a day's task counts to a discrete intensity bucket.
// The scale is an intentionally coarse absolute completed count, never
// a percentage.
func ColorIndex(day *models.DayRecord) int {
	switch {
	case day == nil || !day.HasNote:
		return EmptyBucket
	case day.CompletedTasks == 0:
		// Covers both "note without tasks" and "no task completed yet".
		return 1
	case day.CompletedTasks == 1:
		return 2
	case day.CompletedTasks <= 3:
		return 3
	default:
		return 4
	}
}

// Palette is a 5-entry color ramp: index 0 is the empty color, 1..4 the
// intensity buckets. Bucket index selects directly into the ramp.
type Palette [5]string

// Color resolves a bucket index into a hex color.
func (p Palette) Color(bucket int) string {
	if bucket < 1 || bucket > 4 {
		return p[0]
	}
	return p[bucket]
}

// Named palettes, GitHub-contribution style.
var Schemes = map[string]Palette{
	"green":  {"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"},
	"blue":   {"#ebedf0", "#9ecbff", "#0969da", "#0550ae", "#033d8b"},
	"purple": {"#ebedf0", "#dbb7ff", "#8250df", "#6639ba", "#4c2889"},
	"red":    {"#ebedf0", "#ffb3ba", "#ff6b6b", "#ee5a52", "#da3633"},
	"orange": {"#ebedf0", "#ffd9a8", "#ff9a56", "#e8590c", "#bc4c00"},
}

// PaletteFor resolves a scheme name ("custom" uses the supplied array)
// and applies the configured empty color to slot 0.
func PaletteFor(scheme string, custom []string, emptyColor string) (Palette, error) {
	var p Palette
	if scheme == "custom" {
		if len(custom) != len(p) {
			return p, fmt.Errorf("heatmap: custom palette needs %d colors, got %d", len(p), len(custom))
		}
		copy(p[:], custom)
	} else {
		named, ok := Schemes[scheme]
		if !ok {
			return p, fmt.Errorf("heatmap: unknown color scheme %q", scheme)
		}
		p = named
	}
	if emptyColor != "" {
		p[0] = emptyColor
	}
	return p, nil
}
