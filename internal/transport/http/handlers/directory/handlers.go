package directoryhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/auth"
	"ems/internal/domain/directory"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Directory *directory.Service
}

func NewHandler(dir *directory.Service) *Handler {
	return &Handler{Directory: dir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/", h.handleListEmployees)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/", h.handleCreateEmployee)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.With(middleware.RequireAuth).Get("/", h.handleGetEmployee)
			r.With(middleware.RequireRole(auth.RoleHR)).Put("/", h.handleUpdateEmployee)
			r.With(middleware.RequireRole(auth.RoleHR)).Delete("/", h.handleDeleteEmployee)
			r.With(middleware.RequireRole(auth.RoleHR)).Post("/assign_manager", h.handleAssignManager)
		})
	})
	r.Route("/managers", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/", h.handleListManagers)
		r.With(middleware.RequireRole(auth.RoleHR)).Post("/", h.handleCreateManager)
		r.Route("/{managerID}", func(r chi.Router) {
			r.With(middleware.RequireAuth).Get("/", h.handleGetManager)
			r.With(middleware.RequireRole(auth.RoleHR)).Put("/", h.handleUpdateManager)
			r.With(middleware.RequireRole(auth.RoleHR)).Delete("/", h.handleDeleteManager)
		})
	})
	r.With(middleware.RequireAuth).Get("/employee/profile", h.handleProfile)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Directory.ListEmployees(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"employees": employees})
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "employeeID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid employee id")
		return
	}
	emp, err := h.Directory.GetEmployee(r.Context(), id)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Employee not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"employee": emp})
}

type employeeBody struct {
	Name       *string  `json:"name"`
	Email      *string  `json:"email"`
	Position   *string  `json:"position"`
	Department *string  `json:"department"`
	StartDate  *string  `json:"startDate"`
	Salary     *float64 `json:"salary"`
	Phone      *string  `json:"phone"`
	Manager    *int64   `json:"manager"`
	Status     *string  `json:"status"`
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var body employeeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	missing := []string{}
	require := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}
	require("name", body.Name != nil && *body.Name != "")
	require("email", body.Email != nil && *body.Email != "")
	require("position", body.Position != nil && *body.Position != "")
	require("department", body.Department != nil && *body.Department != "")
	require("startDate", body.StartDate != nil && *body.StartDate != "")
	require("manager", body.Manager != nil && *body.Manager != 0)
	if len(missing) > 0 {
		api.Fail(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
		return
	}

	startDate, err := shared.ParseDate(*body.StartDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid startDate")
		return
	}

	exists, err := h.Directory.ManagerExists(r.Context(), *body.Manager)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !exists {
		api.Fail(w, http.StatusBadRequest, "Manager not found")
		return
	}

	in := directory.NewEmployee{
		Name:       *body.Name,
		Email:      *body.Email,
		Position:   *body.Position,
		Department: *body.Department,
		StartDate:  startDate,
		Salary:     body.Salary,
		Phone:      body.Phone,
		ManagerID:  *body.Manager,
		Status:     directory.EmployeeStatusNewHire,
	}
	if body.Status != nil && *body.Status != "" {
		in.Status = *body.Status
	}

	emp, defaultPassword, err := h.Directory.CreateEmployee(r.Context(), in)
	if err != nil {
		if errors.Is(err, directory.ErrEmailTaken) {
			api.Fail(w, http.StatusConflict, "Email already exists")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	api.Success(w, http.StatusOK, map[string]any{
		"employee": emp,
		"login": map[string]string{
			"username":         emp.Email,
			"default_password": defaultPassword,
		},
	})
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "employeeID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid employee id")
		return
	}

	var body employeeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := directory.EmployeePatch{
		Name:       body.Name,
		Email:      body.Email,
		Position:   body.Position,
		Department: body.Department,
		Salary:     body.Salary,
		Phone:      body.Phone,
		ManagerID:  body.Manager,
		Status:     body.Status,
	}
	if body.StartDate != nil {
		startDate, err := shared.ParseDate(*body.StartDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "Invalid startDate")
			return
		}
		patch.StartDate = &startDate
	}

	emp, err := h.Directory.UpdateEmployee(r.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "Employee not found")
		case errors.Is(err, directory.ErrEmailTaken):
			api.Fail(w, http.StatusConflict, "Email already exists")
		default:
			api.Fail(w, http.StatusInternalServerError, "Failed to update employee")
		}
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"employee": emp})
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "employeeID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid employee id")
		return
	}
	if err := h.Directory.DeleteEmployee(r.Context(), id); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Employee not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "Failed to delete employee")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"message": "Employee deleted successfully"})
}

func (h *Handler) handleAssignManager(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "employeeID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid employee id")
		return
	}

	var body struct {
		ManagerID *int64 `json:"managerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ManagerID == nil {
		api.Fail(w, http.StatusBadRequest, "Manager ID is required")
		return
	}

	if _, err := h.Directory.GetEmployee(r.Context(), id); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Employee not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "Failed to assign manager")
		return
	}

	if err := h.Directory.AssignManager(r.Context(), id, *body.ManagerID); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Manager not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "Failed to assign manager")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"message": "Manager assigned successfully"})
}

func (h *Handler) handleListManagers(w http.ResponseWriter, r *http.Request) {
	managers, err := h.Directory.ListManagers(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"managers": managers})
}

func (h *Handler) handleGetManager(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "managerID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid manager id")
		return
	}
	mgr, err := h.Directory.GetManager(r.Context(), id)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Manager not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"manager": mgr})
}

type managerBody struct {
	Name          *string `json:"name"`
	Title         *string `json:"title"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Department    *string `json:"department"`
	DirectReports *int    `json:"directReports"`
	HireDate      *string `json:"hireDate"`
	Status        *string `json:"status"`
}

func (h *Handler) handleCreateManager(w http.ResponseWriter, r *http.Request) {
	var body managerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	required := map[string]*string{
		"name":       body.Name,
		"email":      body.Email,
		"title":      body.Title,
		"department": body.Department,
		"phone":      body.Phone,
		"hireDate":   body.HireDate,
	}
	for _, field := range []string{"name", "email", "title", "department", "phone", "hireDate"} {
		if required[field] == nil || *required[field] == "" {
			api.Fail(w, http.StatusBadRequest, "Missing required field: "+field)
			return
		}
	}

	hireDate, err := shared.ParseDate(*body.HireDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid hireDate")
		return
	}

	in := directory.NewManager{
		Name:       *body.Name,
		Title:      *body.Title,
		Email:      *body.Email,
		Phone:      *body.Phone,
		Department: *body.Department,
		HireDate:   hireDate,
		Status:     directory.ManagerStatusActive,
	}
	if body.DirectReports != nil {
		in.DirectReports = *body.DirectReports
	}
	if body.Status != nil && *body.Status != "" {
		in.Status = *body.Status
	}

	mgr, defaultPassword, err := h.Directory.CreateManager(r.Context(), in)
	if err != nil {
		if errors.Is(err, directory.ErrEmailTaken) {
			api.Fail(w, http.StatusConflict, "Email already exists")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "Failed to add manager and user")
		return
	}

	api.Success(w, http.StatusOK, map[string]any{
		"manager": mgr,
		"login": map[string]string{
			"username":         mgr.Email,
			"default_password": defaultPassword,
		},
	})
}

func (h *Handler) handleUpdateManager(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "managerID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid manager id")
		return
	}

	var body managerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := directory.ManagerPatch{
		Name:          body.Name,
		Title:         body.Title,
		Email:         body.Email,
		Phone:         body.Phone,
		Department:    body.Department,
		DirectReports: body.DirectReports,
		Status:        body.Status,
	}
	if body.HireDate != nil {
		hireDate, err := shared.ParseDate(*body.HireDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "Invalid hireDate")
			return
		}
		patch.HireDate = &hireDate
	}

	mgr, err := h.Directory.UpdateManager(r.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "Manager not found")
		case errors.Is(err, directory.ErrEmailTaken):
			api.Fail(w, http.StatusConflict, "Email already exists")
		default:
			api.Fail(w, http.StatusInternalServerError, "Failed to update manager")
		}
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"manager": mgr})
}

func (h *Handler) handleDeleteManager(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "managerID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid manager id")
		return
	}
	if err := h.Directory.DeleteManager(r.Context(), id); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "Manager not found")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "Failed to delete manager")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"message": "Manager deleted successfully"})
}

// handleProfile returns the employee row matching the caller's login email.
func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
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
	api.Success(w, http.StatusOK, map[string]any{"employee": emp})
}
