package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

// PlayService is the interface that wraps methods for playing songs.
type PlayService interface {
	// Method Play records a play of an active song by a paid user and returns where to send the player.
	//
	// If the song is hidden or missing, an error wrapping models.ErrNotFound will be returned.
	// If the song has no link, an error wrapping models.ErrNotPlayable will be returned.
	// If the user has no active paid membership, models.ErrNotPaid will be returned.
	// A failed Drive grant is reported in the result's AccessError, not as an error.
	Play(ctx context.Context, songID, userID int) (*models.PlayResult, error)
	// Method History retrieve a page of the user's plays, newest first.
	History(ctx context.Context, userID, page, perPage int) (*models.PlayHistoryPage, error)
}

// PlayHandler handles song play HTTP requests
type PlayHandler struct {
	BaseHandler
	service PlayService
}

// NewPlayHandler creates a new play handler
func NewPlayHandler(svc PlayService, logger *zap.Logger) *PlayHandler {
	return &PlayHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all play handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *PlayHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/songs/{id}/play", h.Play)
		r.Get("/me/plays", h.History)
	})
}

// Play handles POST /songs/{id}/play
// @Summary Play a song
// @Description Record a play and return the video URL. Drive-hosted songs are shared with the user first.
// @Tags play
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Song ID"
// @Success 200 {object} models.PlayResult
// @Failure 400 {object} map[string]string "Song has no playable link"
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string "Paid membership required"
// @Failure 404 {object} map[string]string
// @Router /songs/{id}/play [post]
func (h *PlayHandler) Play(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	songID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.service.Play(r.Context(), songID, userID)
	if err != nil {
		h.respondServiceError(w, err, "play song")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// History handles GET /me/plays
// @Summary Play history
// @Tags play
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number, default: 1"
// @Param per_page query int false "Page size, default: 20, max: 100"
// @Success 200 {object} models.PlayHistoryPage
// @Failure 401 {object} map[string]string
// @Router /me/plays [get]
func (h *PlayHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	page, err := h.service.History(r.Context(), userID, queryInt(r, "page", 1), queryInt(r, "per_page", 0))
	if err != nil {
		h.respondServiceError(w, err, "get play history")
		return
	}

	h.respondJSON(w, http.StatusOK, page)
}
