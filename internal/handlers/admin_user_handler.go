package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

// AdminUserService is the interface that wraps methods for user administration.
type AdminUserService interface {
	// Method List retrieve a page of users whose username or email contains "search".
	List(ctx context.Context, search string, page, perPage int) (*models.UserPage, error)
	// Method Get retrieve a user by ID.
	//
	// If user with such ID does not exist, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	Get(ctx context.Context, id int) (*models.User, error)
	// Method Create adds a user with the given role and membership.
	//
	// If credentials are invalid, an error wrapping models.ErrValidation will be returned.
	// If such user already exists, an error wrapping models.ErrConflict will be returned.
	Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	// Method Update applies the fields present in "req" to a user.
	Update(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error)
	// Method ResetPassword sets a new password for a user.
	ResetPassword(ctx context.Context, id int, password string) error
	// Method Delete removes a user. "actorID" is the admin performing the deletion and cannot delete itself.
	Delete(ctx context.Context, actorID, id int) error
}

// AdminUserHandler handles user administration HTTP requests
type AdminUserHandler struct {
	BaseHandler
	service AdminUserService
}

// NewAdminUserHandler creates a new admin user handler
func NewAdminUserHandler(svc AdminUserService, logger *zap.Logger) *AdminUserHandler {
	return &AdminUserHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all admin user handler routes
// Note: This assumes the router is already scoped to /api/v1 and guarded by the admin role
func (h *AdminUserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/users", h.List)
	r.Post("/admin/users", h.Create)
	r.Get("/admin/users/{id}", h.Get)
	r.Patch("/admin/users/{id}", h.Update)
	r.Put("/admin/users/{id}/password", h.ResetPassword)
	r.Delete("/admin/users/{id}", h.Delete)
}

// List handles GET /admin/users
// @Summary List users
// @Tags admin-users
// @Produce json
// @Security ApiKeyAuth
// @Param q query string false "Part of username or email"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} models.UserPage
// @Router /admin/users [get]
func (h *AdminUserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), r.URL.Query().Get("q"), queryInt(r, "page", 1), queryInt(r, "per_page", 0))
	if err != nil {
		h.respondServiceError(w, err, "list users")
		return
	}

	h.respondJSON(w, http.StatusOK, page)
}

// Get handles GET /admin/users/{id}
// @Summary Get user
// @Tags admin-users
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]string
// @Router /admin/users/{id} [get]
func (h *AdminUserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "get user")
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

// Create handles POST /admin/users
// @Summary Create user
// @Tags admin-users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateUserRequest true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/users [post]
func (h *AdminUserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err, "create user")
		return
	}

	h.respondJSON(w, http.StatusCreated, user)
}

// Update handles PATCH /admin/users/{id}
// @Summary Update user
// @Description Change role, paid membership or verification. Absent fields are left unchanged.
// @Tags admin-users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Param request body models.UpdateUserRequest true "Changes"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/users/{id} [patch]
func (h *AdminUserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateUserRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.respondServiceError(w, err, "update user")
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

// ResetPassword handles PUT /admin/users/{id}/password
// @Summary Reset user password
// @Tags admin-users
// @Accept json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Param request body models.UpdatePasswordRequest true "New password"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/users/{id}/password [put]
func (h *AdminUserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdatePasswordRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), id, req.Password); err != nil {
		h.respondServiceError(w, err, "reset password")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /admin/users/{id}
// @Summary Delete user
// @Tags admin-users
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 403 {object} map[string]string "Cannot delete yourself"
// @Failure 404 {object} map[string]string
// @Router /admin/users/{id} [delete]
func (h *AdminUserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actorID, id); err != nil {
		h.respondServiceError(w, err, "delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
