package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

// LibraryService is the interface that wraps methods for user favorites and playlists.
//
// Playlists of other users are reported as not found.
type LibraryService interface {
	ToggleFavorite(ctx context.Context, userID, songID int) (*models.FavoriteToggleResult, error)
	ListFavorites(ctx context.Context, userID int) ([]models.Song, error)
	CreatePlaylist(ctx context.Context, userID int, req *models.PlaylistRequest) (*models.Playlist, error)
	ListPlaylists(ctx context.Context, userID int) ([]models.Playlist, error)
	GetPlaylist(ctx context.Context, userID, playlistID int) (*models.PlaylistDetail, error)
	AddSong(ctx context.Context, userID, playlistID, songID int) error
	RemoveSong(ctx context.Context, userID, playlistID, songID int) error
	DeletePlaylist(ctx context.Context, userID, playlistID int) error
}

// LibraryHandler handles favorites and playlists HTTP requests
type LibraryHandler struct {
	BaseHandler
	service LibraryService
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(svc LibraryService, logger *zap.Logger) *LibraryHandler {
	return &LibraryHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all library handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *LibraryHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/songs/{id}/favorite", h.ToggleFavorite)
		r.Get("/me/favorites", h.ListFavorites)
		r.Get("/me/playlists", h.ListPlaylists)
		r.Post("/me/playlists", h.CreatePlaylist)
		r.Get("/me/playlists/{id}", h.GetPlaylist)
		r.Delete("/me/playlists/{id}", h.DeletePlaylist)
		r.Post("/me/playlists/{id}/songs", h.AddSong)
		r.Delete("/me/playlists/{id}/songs/{songId}", h.RemoveSong)
	})
}

// ToggleFavorite handles POST /songs/{id}/favorite
// @Summary Toggle favorite
// @Tags library
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Song ID"
// @Success 200 {object} models.FavoriteToggleResult
// @Failure 404 {object} map[string]string
// @Router /songs/{id}/favorite [post]
func (h *LibraryHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	songID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.service.ToggleFavorite(r.Context(), userID, songID)
	if err != nil {
		h.respondServiceError(w, err, "toggle favorite")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// ListFavorites handles GET /me/favorites
// @Summary List favorites
// @Tags library
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Song
// @Router /me/favorites [get]
func (h *LibraryHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	songs, err := h.service.ListFavorites(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err, "list favorites")
		return
	}

	h.respondJSON(w, http.StatusOK, songs)
}

// ListPlaylists handles GET /me/playlists
// @Summary List playlists
// @Tags library
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Playlist
// @Router /me/playlists [get]
func (h *LibraryHandler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	playlists, err := h.service.ListPlaylists(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err, "list playlists")
		return
	}

	h.respondJSON(w, http.StatusOK, playlists)
}

// CreatePlaylist handles POST /me/playlists
// @Summary Create playlist
// @Tags library
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.PlaylistRequest true "Playlist name"
// @Success 201 {object} models.Playlist
// @Failure 400 {object} map[string]string
// @Router /me/playlists [post]
func (h *LibraryHandler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	var req models.PlaylistRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	playlist, err := h.service.CreatePlaylist(r.Context(), userID, &req)
	if err != nil {
		h.respondServiceError(w, err, "create playlist")
		return
	}

	h.respondJSON(w, http.StatusCreated, playlist)
}

// GetPlaylist handles GET /me/playlists/{id}
// @Summary Get playlist
// @Tags library
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Playlist ID"
// @Success 200 {object} models.PlaylistDetail
// @Failure 404 {object} map[string]string
// @Router /me/playlists/{id} [get]
func (h *LibraryHandler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	playlistID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	playlist, err := h.service.GetPlaylist(r.Context(), userID, playlistID)
	if err != nil {
		h.respondServiceError(w, err, "get playlist")
		return
	}

	h.respondJSON(w, http.StatusOK, playlist)
}

// DeletePlaylist handles DELETE /me/playlists/{id}
// @Summary Delete playlist
// @Tags library
// @Security ApiKeyAuth
// @Param id path int true "Playlist ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /me/playlists/{id} [delete]
func (h *LibraryHandler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	playlistID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePlaylist(r.Context(), userID, playlistID); err != nil {
		h.respondServiceError(w, err, "delete playlist")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddSong handles POST /me/playlists/{id}/songs
// @Summary Add song to playlist
// @Tags library
// @Accept json
// @Security ApiKeyAuth
// @Param id path int true "Playlist ID"
// @Param request body models.PlaylistSongRequest true "Song to add"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Song already in playlist"
// @Router /me/playlists/{id}/songs [post]
func (h *LibraryHandler) AddSong(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	playlistID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.PlaylistSongRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.SongID <= 0 {
		h.respondError(w, http.StatusBadRequest, "song_id is required")
		return
	}

	if err := h.service.AddSong(r.Context(), userID, playlistID, req.SongID); err != nil {
		h.respondServiceError(w, err, "add song to playlist")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveSong handles DELETE /me/playlists/{id}/songs/{songId}
// @Summary Remove song from playlist
// @Tags library
// @Security ApiKeyAuth
// @Param id path int true "Playlist ID"
// @Param songId path int true "Song ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /me/playlists/{id}/songs/{songId} [delete]
func (h *LibraryHandler) RemoveSong(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	playlistID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	songID, ok := h.pathID(w, r, "songId")
	if !ok {
		return
	}

	if err := h.service.RemoveSong(r.Context(), userID, playlistID, songID); err != nil {
		h.respondServiceError(w, err, "remove song from playlist")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
