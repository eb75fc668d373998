package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/A11myt/obsidian-task-heatmap/internal/apperr"
	"github.com/A11myt/obsidian-task-heatmap/internal/checksum"
	"github.com/A11myt/obsidian-task-heatmap/internal/heatmap"
	"github.com/A11myt/obsidian-task-heatmap/internal/heatmapservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *heatmapservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *heatmapservice.Service) *Handler {
	return &Handler{svc: svc}
}

func queryOptions(r *http.Request) heatmapservice.QueryOptions {
	q := r.URL.Query()
	year, _ := strconv.Atoi(q.Get("year"))
	return heatmapservice.QueryOptions{
		Year:   year,
		Mode:   heatmap.Mode(q.Get("mode")),
		Layout: heatmap.Layout(q.Get("layout")),
		Folder: q.Get("folder"),
	}
}

// GetHeatmap handles GET /api/heatmap.
//
//	@Summary		Get the rendered heatmap grid with colors and summary
//	@Tags			heatmap
//	@Produce		json
//	@Param			year	query		int		false	"Year (currentYear mode only)"
//	@Param			mode	query		string	false	"Range mode"	Enums(currentYear, rollingWindow)
//	@Param			layout	query		string	false	"Grid layout"	Enums(weekdayRows, weekColumns)
//	@Param			folder	query		string	false	"Notes folder override"
//	@Success		200		{object}	heatmapservice.View
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/heatmap [get]
func (h *Handler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	q := queryOptions(r)
	if q.Year != 0 && (q.Year < heatmap.MinYear || q.Year > heatmap.MaxYear) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid year"))
		return
	}
	view, err := h.svc.Heatmap(r.Context(), q)
	if err != nil {
		slog.Error("heatmap failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	body, err := json.Marshal(view)
	if err != nil {
		slog.Error("heatmap encode failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	etag := `"` + checksum.Sum(body) + `"`
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// GetDay handles GET /api/days/{dateKey}.
//
//	@Summary		Get the task detail for a single day
//	@Tags			heatmap
//	@Produce		json
//	@Param			dateKey	path		string	true	"Date key (YYYY-MM-DD)"
//	@Success		200		{object}	DayDetailResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/days/{dateKey} [get]
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	dateKey := chi.URLParam(r, "dateKey")
	day, err := h.svc.Day(r.Context(), dateKey)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrOutOfRange) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get day failed", slog.String("dateKey", dateKey), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	notePath, err := h.svc.NotePathFor(day.Date)
	if err != nil {
		slog.Warn("note path failed", slog.String("dateKey", dateKey), slog.String("error", err.Error()))
	}
	writeJSON(w, http.StatusOK, DayDetailResponse{
		DayRecord: day,
		NotePath:  notePath,
	})
}

// Refresh handles POST /api/refresh.
//
//	@Summary		Force a vault rescan, bypassing the aggregation cache
//	@Tags			heatmap
//	@Produce		json
//	@Success		200	{object}	RefreshResponse
//	@Security		BearerAuth
//	@Router			/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Refresh(r.Context(), true)
	if err != nil {
		slog.Error("refresh failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, RefreshResponse{Summary: summary})
}

// ListScans handles GET /api/history/scans.
//
//	@Summary		List recent scan records, newest first
//	@Tags			history
//	@Produce		json
//	@Param			limit	query		int	false	"Max results"
//	@Success		200		{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/history/scans [get]
func (h *Handler) ListScans(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	scans, err := h.svc.RecentScans(r.Context(), limit)
	if err != nil {
		slog.Error("list scans failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scans": scans,
	})
}

// YearTotals handles GET /api/history/years/{year}.
//
//	@Summary		Get persisted task totals for a year
//	@Tags			history
//	@Produce		json
//	@Param			year	path		int	true	"Year"
//	@Success		200		{object}	history.YearTotals
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/history/years/{year} [get]
func (h *Handler) YearTotals(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < heatmap.MinYear || year > heatmap.MaxYear {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid year"))
		return
	}
	totals, err := h.svc.TotalsForYear(r.Context(), year)
	if err != nil {
		slog.Error("year totals failed", slog.Int("year", year), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, totals)
}
