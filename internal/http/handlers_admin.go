package httpx

import (
	"log/slog"
	"net/http"

	"github.com/ori-platform/ori-auth/internal/ports"
)

// AdminHandlers serves the administrator-only user management routes.
// Only CreateUser is backed by the identity service; the rest acknowledge
// the request without touching storage.
type AdminHandlers struct {
	Identity ports.IdentityService
	Logger   *slog.Logger
}

func (h *AdminHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// CreateUser provisions an account with any role, including administrator.
// POST /admin/users.
func (h *AdminHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := validateStruct(req); err != nil {
		WriteAppError(w, err)
		return
	}

	user, err := h.Identity.SignUpEmail(r.Context(), req.Input())
	if err != nil {
		h.logger().WarnContext(r.Context(), "admin create user failed", slog.Any("error", err))
		WriteAppError(w, err)
		return
	}

	attrs := []any{slog.String("user_id", user.ID), slog.String("role", user.Role.String())}
	if actor := CurrentUser(r.Context()); actor != nil {
		attrs = append(attrs, slog.String("actor_id", actor.ID))
	}
	h.logger().InfoContext(r.Context(), "admin created user", attrs...)
	WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    user,
	})
}

// ListUsers GET /admin/users.
func (h *AdminHandlers) ListUsers(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "List of all users (admin only)",
		"users":   []any{},
	})
}

// UpdateRole PATCH /admin/users/{id}/role.
func (h *AdminHandlers) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := validateStruct(req); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "User role updated successfully",
		"userId":  r.PathValue("id"),
		"newRole": req.Role,
	})
}

// DeleteUser DELETE /admin/users/{id}.
func (h *AdminHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "User deleted successfully",
		"userId":  r.PathValue("id"),
	})
}

// Dashboard GET /admin/dashboard.
func (h *AdminHandlers) Dashboard(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Admin dashboard data",
		"stats": map[string]int{
			"totalUsers":       0,
			"totalBrands":      0,
			"totalInfluencers": 0,
		},
	})
}
