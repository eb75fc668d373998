package api

import (
	"github.com/A11myt/obsidian-task-heatmap/internal/heatmap"
	"github.com/A11myt/obsidian-task-heatmap/internal/models"
)

// DayDetailResponse is the on-demand detail view for one clicked day.
// NotePath is where the host would open or create the daily note; the
// open/create action itself belongs to the host.
type DayDetailResponse struct {
	*models.DayRecord
	NotePath string `json:"notePath,omitempty"`
}

// RefreshResponse reports the summary of a forced rescan.
type RefreshResponse struct {
	Summary heatmap.Summary `json:"summary"`
}
