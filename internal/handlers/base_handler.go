package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/karaokeos/backend/internal/middleware"
	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service error to its HTTP status.
// Unexpected errors are logged and reported as "failed to <action>".
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrNotPlayable):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		h.respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrNotPaid):
		h.respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrConflict):
		h.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrDriveNotConfigured):
		h.respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("failed to "+action, zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

// decodeJSON reads the request body into dst, answering 400 on malformed input
func (h *BaseHandler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// pathID parses a positive integer URL parameter, answering 400 when it is not one
func (h *BaseHandler) pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

// currentUserID returns the authenticated user, answering 401 when the request carries none
func (h *BaseHandler) currentUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return 0, false
	}
	return userID, true
}

// queryInt reads an integer query parameter, falling back when absent or malformed
func queryInt(r *http.Request, key string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return value
}
