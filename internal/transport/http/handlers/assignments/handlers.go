package assignmentshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/assignments"
	"ems/internal/domain/auth"
	"ems/internal/domain/directory"
	"ems/internal/domain/metrics"
	"ems/internal/domain/projects"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

const deadlineLimit = 3

type Handler struct {
	Assignments *assignments.Store
	Directory   *directory.Service
	Projects    *projects.Store
	Metrics     *metrics.Service
}

func NewHandler(store *assignments.Store, dir *directory.Service, proj *projects.Store, met *metrics.Service) *Handler {
	return &Handler{Assignments: store, Directory: dir, Projects: proj, Metrics: met}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireAuth).Get("/employee-tasks", h.handleListEmployeeTasks)
	r.With(middleware.RequireAuth).Put("/employee-tasks/{taskID}/status", h.handleUpdateStatus)
	r.With(middleware.RequireAuth).Get("/upcoming-deadlines", h.handleUpcomingDeadlines)
	r.With(middleware.RequireRole(auth.RoleManager)).Post("/manager/employee-tasks", h.handleAssignTask)
	r.With(middleware.RequireRole(auth.RoleManager)).Get("/manager/employees", h.handleManagerEmployees)
	r.With(middleware.RequireRole(auth.RoleManager)).Get("/manager/tasks", h.handleManagerTasks)
}

// currentEmployee resolves the caller's employee row from the login email.
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

func (h *Handler) currentManager(w http.ResponseWriter, r *http.Request) (directory.Manager, bool) {
	user, _ := middleware.GetUser(r.Context())
	mgr, err := h.Directory.GetManagerByEmail(r.Context(), user.Username)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Manager not found")
		} else {
			api.Fail(w, http.StatusInternalServerError, "Internal server error")
		}
		return directory.Manager{}, false
	}
	return mgr, true
}

func (h *Handler) handleListEmployeeTasks(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.currentEmployee(w, r)
	if !ok {
		return
	}
	tasks, err := h.Assignments.ListByAssignee(r.Context(), emp.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

// handleAssignTask lets a manager hand a task to one of their own reports.
func (h *Handler) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	mgr, ok := h.currentManager(w, r)
	if !ok {
		return
	}

	var body struct {
		Title      string `json:"title"`
		DueDate    string `json:"dueDate"`
		Priority   string `json:"priority"`
		AssignedTo int64  `json:"assignedTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Title == "" || body.DueDate == "" || body.Priority == "" || body.AssignedTo == 0 {
		api.Fail(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	dueDate, err := shared.ParseDate(body.DueDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid dueDate")
		return
	}

	report, err := h.Directory.GetEmployee(r.Context(), body.AssignedTo)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Employee not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if report.ManagerID == nil || *report.ManagerID != mgr.ID {
		api.Fail(w, http.StatusForbidden, "Employee is not one of your reports")
		return
	}

	id, err := h.Assignments.Create(r.Context(), assignments.NewEmployeeTask{
		Title:      body.Title,
		DueDate:    dueDate,
		AssignedBy: mgr.ID,
		AssignedTo: body.AssignedTo,
		Priority:   body.Priority,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	task, err := h.Assignments.Get(r.Context(), id)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.Success(w, http.StatusCreated, map[string]any{"task": task})
}

// handleUpdateStatus records the transition in task_history and recomputes
// the assignee's metrics.
func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.currentEmployee(w, r)
	if !ok {
		return
	}

	taskID, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		api.Fail(w, http.StatusBadRequest, "Status is required")
		return
	}

	task, err := h.Assignments.Get(r.Context(), taskID)
	if err != nil || task.AssignedTo != emp.ID {
		api.Fail(w, http.StatusNotFound, "Task not found")
		return
	}

	if err := h.Assignments.UpdateStatus(r.Context(), taskID, task.Status, body.Status); err != nil {
		if errors.Is(err, assignments.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Task not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if _, err := h.Metrics.OnTaskStatusChange(r.Context(), emp.ID, task.Status, body.Status); err != nil {
		slog.Warn("metrics recompute failed", "employeeId", emp.ID, "err", err)
	}

	task.Status = body.Status
	api.Success(w, http.StatusOK, map[string]any{"task": task})
}

func (h *Handler) handleUpcomingDeadlines(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.currentEmployee(w, r)
	if !ok {
		return
	}
	deadlines, err := h.Assignments.UpcomingDeadlines(r.Context(), emp.ID, deadlineLimit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"deadlines": deadlines})
}

func (h *Handler) handleManagerEmployees(w http.ResponseWriter, r *http.Request) {
	mgr, ok := h.currentManager(w, r)
	if !ok {
		return
	}
	employees, err := h.Directory.ListEmployeesByManager(r.Context(), mgr.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"employees": employees})
}

// handleManagerTasks returns the project tasks assigned to any of the
// manager's reports.
func (h *Handler) handleManagerTasks(w http.ResponseWriter, r *http.Request) {
	mgr, ok := h.currentManager(w, r)
	if !ok {
		return
	}

	employees, err := h.Directory.ListEmployeesByManager(r.Context(), mgr.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	ids := make([]int64, 0, len(employees))
	for _, emp := range employees {
		ids = append(ids, emp.ID)
	}

	tasks, err := h.Projects.ListTasksByAssignees(r.Context(), ids)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"tasks": tasks})
}
