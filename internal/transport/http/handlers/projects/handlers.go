package projectshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/directory"
	"ems/internal/domain/metrics"
	"ems/internal/domain/projects"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Projects  *projects.Store
	Directory *directory.Service
	Metrics   *metrics.Service
}

func NewHandler(store *projects.Store, dir *directory.Service, met *metrics.Service) *Handler {
	return &Handler{Projects: store, Directory: dir, Metrics: met}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.handleListProjects)
		r.Post("/", h.handleCreateProject)
		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", h.handleGetProject)
			r.Put("/", h.handleUpdateProject)
			r.Delete("/", h.handleDeleteProject)
		})
	})
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.handleListTasks)
		r.Post("/", h.handleCreateTask)
		r.Route("/{taskID}", func(r chi.Router) {
			r.Get("/", h.handleGetTask)
			r.Put("/", h.handleUpdateTask)
			r.Delete("/", h.handleDeleteTask)
			r.With(middleware.RequireAuth).Put("/status", h.handleUpdateTaskStatus)
		})
	})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.Projects.ListProjects(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.WriteJSON(w, http.StatusOK, list)
}

type projectBody struct {
	Name     *string `json:"name"`
	Deadline *string `json:"deadline"`
	Status   *string `json:"status"`
}

func (b projectBody) patch() (projects.ProjectPatch, error) {
	patch := projects.ProjectPatch{Name: b.Name, Status: b.Status}
	if b.Deadline != nil && *b.Deadline != "" {
		deadline, err := shared.ParseDate(*b.Deadline)
		if err != nil {
			return projects.ProjectPatch{}, err
		}
		patch.Deadline = &deadline
	}
	return patch, nil
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var body projectBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Name == nil || *body.Name == "" {
		api.Fail(w, http.StatusBadRequest, "Project name is required")
		return
	}

	patch, err := body.patch()
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid deadline")
		return
	}

	proj := projects.Project{Status: projects.StatusNotStarted}
	patch.Apply(&proj)

	created, err := h.Projects.CreateProject(r.Context(), proj)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "projectID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid project id")
		return
	}
	proj, err := h.Projects.GetProject(r.Context(), id)
	if err != nil {
		h.failProject(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, proj)
}

func (h *Handler) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "projectID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid project id")
		return
	}

	var body projectBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	patch, err := body.patch()
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid deadline")
		return
	}

	proj, err := h.Projects.GetProject(r.Context(), id)
	if err != nil {
		h.failProject(w, err)
		return
	}

	patch.Apply(&proj)
	if err := h.Projects.UpdateProject(r.Context(), proj); err != nil {
		h.failProject(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, proj)
}

func (h *Handler) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "projectID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid project id")
		return
	}
	if err := h.Projects.DeleteProject(r.Context(), id); err != nil {
		h.failProject(w, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) failProject(w http.ResponseWriter, err error) {
	if errors.Is(err, projects.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "Project not found")
		return
	}
	api.Fail(w, http.StatusInternalServerError, "Internal server error")
}

// handleListTasks serves three shapes of the same endpoint: filtered by
// project, filtered by assignee, or the caller's own tasks when unfiltered.
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if raw := query.Get("projectId"); raw != "" {
		projectID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "Invalid projectId")
			return
		}
		h.writeTasks(w, r, func() ([]projects.Task, error) {
			return h.Projects.ListTasksByProject(r.Context(), projectID)
		})
		return
	}

	if raw := query.Get("assignedTo"); raw != "" {
		employeeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "Invalid assignedTo")
			return
		}
		h.writeTasks(w, r, func() ([]projects.Task, error) {
			return h.Projects.ListTasksByAssignee(r.Context(), employeeID)
		})
		return
	}

	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}
	emp, err := h.Directory.GetEmployeeByEmail(r.Context(), user.Username)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Employee not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	h.writeTasks(w, r, func() ([]projects.Task, error) {
		return h.Projects.ListTasksByAssignee(r.Context(), emp.ID)
	})
}

func (h *Handler) writeTasks(w http.ResponseWriter, r *http.Request, fetch func() ([]projects.Task, error)) {
	tasks, err := fetch()
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.WriteJSON(w, http.StatusOK, tasks)
}

type taskBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Status      *string `json:"status"`
	ProjectID   *int64  `json:"projectId"`
	AssignedTo  *int64  `json:"assignedTo"`
}

func (b taskBody) patch() (projects.TaskPatch, error) {
	patch := projects.TaskPatch{
		Title:       b.Title,
		Description: b.Description,
		Status:      b.Status,
		ProjectID:   b.ProjectID,
		AssignedTo:  b.AssignedTo,
	}
	if b.Deadline != nil && *b.Deadline != "" {
		deadline, err := shared.ParseDate(*b.Deadline)
		if err != nil {
			return projects.TaskPatch{}, err
		}
		patch.Deadline = &deadline
	}
	return patch, nil
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var body taskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Title == nil || *body.Title == "" || body.ProjectID == nil {
		api.Fail(w, http.StatusBadRequest, "Title and projectId are required")
		return
	}

	patch, err := body.patch()
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid deadline")
		return
	}

	task := projects.Task{Status: projects.StatusNotStarted}
	patch.Apply(&task)

	created, err := h.Projects.CreateTask(r.Context(), task)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "taskID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid task id")
		return
	}
	task, err := h.Projects.GetTask(r.Context(), id)
	if err != nil {
		h.failTask(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "taskID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var body taskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	patch, err := body.patch()
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid deadline")
		return
	}

	task, err := h.Projects.GetTask(r.Context(), id)
	if err != nil {
		h.failTask(w, err)
		return
	}

	patch.Apply(&task)
	if err := h.Projects.UpdateTask(r.Context(), task); err != nil {
		h.failTask(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "taskID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid task id")
		return
	}
	if err := h.Projects.DeleteTask(r.Context(), id); err != nil {
		h.failTask(w, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) failTask(w http.ResponseWriter, err error) {
	if errors.Is(err, projects.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "Task not found")
		return
	}
	api.Fail(w, http.StatusInternalServerError, "Internal server error")
}

// handleUpdateTaskStatus moves one of the caller's tasks to a new status,
// promotes the parent project when work has started, and recomputes the
// caller's performance metrics.
func (h *Handler) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "taskID")
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

	task, err := h.Projects.GetTaskForAssignee(r.Context(), id, emp.ID)
	if err != nil {
		h.failTask(w, err)
		return
	}

	oldStatus := task.Status
	if err := h.Projects.UpdateTaskStatus(r.Context(), id, body.Status); err != nil {
		h.failTask(w, err)
		return
	}
	task.Status = body.Status

	if err := h.Projects.PromoteProject(r.Context(), task.ProjectID); err != nil {
		slog.Warn("project promotion failed", "projectId", task.ProjectID, "err", err)
	}

	if _, err := h.Metrics.OnTaskStatusChange(r.Context(), emp.ID, oldStatus, body.Status); err != nil {
		slog.Warn("metrics recompute failed", "employeeId", emp.ID, "err", err)
	}

	api.Success(w, http.StatusOK, map[string]any{"task": task})
}
