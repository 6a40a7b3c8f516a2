package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/auth"
	"ems/internal/domain/directory"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
)

type Handler struct {
	Directory *directory.Service
	JWTSecret string
	TokenTTL  time.Duration
}

func NewHandler(dir *directory.Service, secret string, ttl time.Duration) *Handler {
	return &Handler{Directory: dir, JWTSecret: secret, TokenTTL: ttl}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/current_user", h.handleCurrentUser)
	r.With(middleware.RequireRole(auth.RoleHR)).Get("/users", h.handleListUsers)
	r.With(middleware.RequireRole(auth.RoleHR)).Post("/users", h.handleCreateUser)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cred, err := h.Directory.FindCredential(r.Context(), body.Username)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if auth.CheckPassword(cred.PasswordHash, body.Password) != nil {
		api.Fail(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, auth.Claims{
		UserID:   cred.UserID,
		Username: cred.Username,
		Role:     cred.Role,
	}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	api.Success(w, http.StatusOK, map[string]any{
		"token":    token,
		"username": cred.Username,
		"role":     cred.Role,
	})
}

// handleLogout exists for client symmetry; tokens are stateless so there is
// nothing to revoke server side.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, nil)
}

func (h *Handler) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{
		"user": map[string]string{
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Directory.ListUsers(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid user data")
		return
	}
	if body.Username == "" || (body.Role != auth.RoleManager && body.Role != auth.RoleEmployee) {
		api.Fail(w, http.StatusBadRequest, "Invalid user data")
		return
	}

	defaultPassword, err := h.Directory.CreateUser(r.Context(), body.Username, body.Role)
	if err != nil {
		if errors.Is(err, directory.ErrEmailTaken) {
			api.Fail(w, http.StatusConflict, "Username already exists")
			return
		}
		api.Fail(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	api.Success(w, http.StatusOK, map[string]any{
		"username":         body.Username,
		"role":             body.Role,
		"default_password": defaultPassword,
	})
}
