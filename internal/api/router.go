package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/A11myt/obsidian-task-heatmap/internal/heatmapservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *heatmapservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Heatmap.
	r.Get("/heatmap", h.GetHeatmap)
	r.Get("/days/{dateKey}", h.GetDay)
	r.Post("/refresh", h.Refresh)

	// Scan history.
	r.Get("/history/scans", h.ListScans)
	r.Get("/history/years/{year}", h.YearTotals)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
