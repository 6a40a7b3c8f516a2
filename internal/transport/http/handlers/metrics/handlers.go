package metricshandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/directory"
	"ems/internal/domain/metrics"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
)

type Handler struct {
	Metrics   *metrics.Service
	Directory *directory.Service
}

func NewHandler(met *metrics.Service, dir *directory.Service) *Handler {
	return &Handler{Metrics: met, Directory: dir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireAuth).Get("/performance-metrics", h.handleGetMetrics)
}

// handleGetMetrics returns the caller's metric row, creating a zeroed one on
// first read.
func (h *Handler) handleGetMetrics(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	emp, err := h.Directory.GetEmployeeByEmail(r.Context(), user.Username)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Employee not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	metric, err := h.Metrics.GetOrCreate(r.Context(), emp.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"metrics": metric})
}
