package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	userService "userdesk/internal/application/user"
	"userdesk/internal/domain/user"
	"userdesk/internal/infrastructure/kv"
)

// maxBodyBytes limits request bodies for create and update
const maxBodyBytes = 1 << 20

// UserHandler handles user directory operations
type UserHandler struct {
	responder
	users userService.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(users userService.Service, logger *slog.Logger) *UserHandler {
	return &UserHandler{responder: newResponder(logger), users: users}
}

// LoadResponse is returned by the load endpoint
type LoadResponse struct {
	Users  []user.User        `json:"users"`
	Source userService.Source `json:"source"`
}

// RegisterRoutes mounts the user routes on r
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Post("/load", h.Load)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.sendStoreError(w, "Failed to list users", err)
		return
	}
	h.success(w, http.StatusOK, "", users)
}

// Load handles POST /api/users/load
func (h *UserHandler) Load(w http.ResponseWriter, r *http.Request) {
	users, source, err := h.users.Load(r.Context())
	if err != nil {
		h.sendStoreError(w, "Failed to load users", err)
		return
	}
	h.success(w, http.StatusOK, "", LoadResponse{Users: users, Source: source})
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.sendStoreError(w, "Failed to get user", err)
		return
	}
	if u == nil {
		h.fail(w, http.StatusNotFound, "User not found", nil)
		return
	}
	h.success(w, http.StatusOK, "", u)
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	patch, ok := h.decodePatch(w, r)
	if !ok {
		return
	}

	u, err := h.users.Create(r.Context(), patch)
	if err != nil {
		h.sendStoreError(w, "Failed to create user", err)
		return
	}
	h.success(w, http.StatusCreated, "User created successfully", u)
}

// Update handles PUT and PATCH /api/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	patch, ok := h.decodePatch(w, r)
	if !ok {
		return
	}

	u, err := h.users.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.sendStoreError(w, "Failed to update user", err)
		return
	}
	if u == nil {
		h.fail(w, http.StatusNotFound, "User not found", nil)
		return
	}
	h.success(w, http.StatusOK, "User updated successfully", u)
}

// Delete handles DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ok, err := h.users.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.sendStoreError(w, "Failed to delete user", err)
		return
	}
	if !ok {
		h.fail(w, http.StatusNotFound, "User not found", nil)
		return
	}
	h.success(w, http.StatusOK, "User deleted successfully", nil)
}

func (h *UserHandler) decodePatch(w http.ResponseWriter, r *http.Request) (user.Patch, bool) {
	var patch user.Patch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&patch); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid request body", err)
		return user.Patch{}, false
	}
	return patch, true
}

func (h *UserHandler) sendStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, kv.ErrQuotaExceeded):
		h.fail(w, http.StatusInsufficientStorage, "Storage is full", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.fail(w, http.StatusServiceUnavailable, "Request cancelled", err)
	default:
		h.fail(w, http.StatusInternalServerError, message, err)
	}
}
