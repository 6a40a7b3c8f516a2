package leavehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/directory"
	"ems/internal/domain/leave"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Leave     *leave.Service
	Directory *directory.Service
}

func NewHandler(lv *leave.Service, dir *directory.Service) *Handler {
	return &Handler{Leave: lv, Directory: dir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireAuth).Get("/leave-balance", h.handleBalance)
	r.With(middleware.RequireAuth).Get("/leave-history", h.handleHistory)
	r.With(middleware.RequireAuth).Post("/leave-request", h.handleRequest)
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

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.currentEmployee(w, r)
	if !ok {
		return
	}
	balance, err := h.Leave.Balance(r.Context(), emp.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"leaveBalance": balance})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.currentEmployee(w, r)
	if !ok {
		return
	}
	history, err := h.Leave.History(r.Context(), emp.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"leaveHistory": history})
}

func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.currentEmployee(w, r)
	if !ok {
		return
	}

	var body leave.NewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Type == "" || body.StartDate == "" || body.EndDate == "" {
		api.Fail(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	start, err := shared.ParseDate(body.StartDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid startDate")
		return
	}
	end, err := shared.ParseDate(body.EndDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid endDate")
		return
	}

	req, err := h.Leave.Request(r.Context(), emp.ID, body, start, end)
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrInvalidType):
			api.Fail(w, http.StatusBadRequest, "Invalid leave type")
		case errors.Is(err, leave.ErrInvalidRange):
			api.Fail(w, http.StatusBadRequest, "End date must not precede start date")
		default:
			api.Fail(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"leave": req})
}
