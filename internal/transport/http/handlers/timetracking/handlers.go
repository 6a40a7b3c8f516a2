package timehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/directory"
	"ems/internal/domain/timetracking"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
)

type Handler struct {
	Time      *timetracking.Service
	Directory *directory.Service
}

func NewHandler(tt *timetracking.Service, dir *directory.Service) *Handler {
	return &Handler{Time: tt, Directory: dir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/time-tracking", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/status", h.handleStatus)
		r.Post("/clock", h.handleClock)
		r.Get("/history", h.handleHistory)
	})
}

func (h *Handler) currentEmployee(w http.ResponseWriter, r *http.Request) (directory.Employee, bool) {
	user, _ := middleware.GetUser(r.Context())
	emp, err := h.Directory.GetEmployeeByEmail(r.Context(), user.Username)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Employee not found")
		} else {
			api.Fail(w, http.StatusInternalServerError, "Internal server error")
		}
		return directory.Employee{}, false
	}
	return emp, true
}

func isoTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.currentEmployee(w, r)
	if !ok {
		return
	}

	entry, err := h.Time.Status(r.Context(), emp.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	payload := map[string]any{
		"status":   entry.Status,
		"time_in":  nil,
		"time_out": isoTime(entry.TimeOut),
	}
	if !entry.TimeIn.IsZero() {
		payload["time_in"] = entry.TimeIn.Format(time.RFC3339)
	}
	api.WriteJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleClock(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.currentEmployee(w, r)
	if !ok {
		return
	}

	var body struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid action")
		return
	}

	entry, err := h.Time.Clock(r.Context(), emp.ID, body.Action)
	if err != nil {
		switch {
		case errors.Is(err, timetracking.ErrAlreadyClockedIn):
			api.Fail(w, http.StatusBadRequest, "Already clocked in")
		case errors.Is(err, timetracking.ErrNotClockedIn):
			api.Fail(w, http.StatusBadRequest, "Not clocked in")
		case errors.Is(err, timetracking.ErrInvalidAction):
			api.Fail(w, http.StatusBadRequest, "Invalid action")
		default:
			api.Fail(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	fields := map[string]any{
		"status":  entry.Status,
		"time_in": entry.TimeIn.Format(time.RFC3339),
	}
	if entry.TimeOut != nil {
		fields["time_out"] = entry.TimeOut.Format(time.RFC3339)
	}
	api.Success(w, http.StatusOK, fields)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.currentEmployee(w, r)
	if !ok {
		return
	}

	history, err := h.Time.History(r.Context(), emp.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"history": history})
}
