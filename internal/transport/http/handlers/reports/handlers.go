package reportshandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/reports"
	"ems/internal/transport/http/api"
)

type Handler struct {
	Reports *reports.Store
}

func NewHandler(store *reports.Store) *Handler {
	return &Handler{Reports: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.handleStats)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	stats, err := h.Reports.Stats(r.Context(), today)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.WriteJSON(w, http.StatusOK, stats)
}
