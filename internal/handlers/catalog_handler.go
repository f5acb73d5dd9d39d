package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

// CatalogService is the interface that wraps methods for public catalog browsing.
type CatalogService interface {
	// Method ListSongs retrieve a page of active songs.
	//
	// "query" parameter holds the search text, artist and language filters, sort order, page and page size.
	// Unknown sort values fall back to title order and out-of-range pages are clamped.
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	ListSongs(ctx context.Context, query models.SongQuery) (*models.SongPage, error)
	// Method GetSong retrieve an active song by its ID.
	//
	// If the song does not exist or is hidden, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetSong(ctx context.Context, id int) (*models.Song, error)
	// Method ListArtists retrieve a page of artists with their song counts.
	ListArtists(ctx context.Context, q string, page, perPage int) (*models.ArtistPage, error)
	// Method ListLanguages retrieve the catalog languages with their song counts.
	ListLanguages(ctx context.Context) ([]models.Language, error)
	// Method Suggest retrieve search-as-you-type matches. Queries shorter than two characters match nothing.
	Suggest(ctx context.Context, q string) ([]models.SongSuggestion, error)
	// Method TopSongs retrieve the most played songs.
	TopSongs(ctx context.Context, limit int) ([]models.Song, error)
}

// CatalogHandler handles public catalog HTTP requests
type CatalogHandler struct {
	BaseHandler
	service CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(svc CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all catalog handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/songs", h.ListSongs)
	r.Get("/songs/suggest", h.Suggest)
	r.Get("/songs/top", h.TopSongs)
	r.Get("/songs/{id}", h.GetSong)
	r.Get("/artists", h.ListArtists)
	r.Get("/languages", h.ListLanguages)
}

// Health handles GET /health
// @Summary Health check
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *CatalogHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListSongs handles GET /songs
// @Summary List songs
// @Description Get a page of active songs filtered by text, artist and language
// @Tags catalog
// @Produce json
// @Param q query string false "Search in title and artist"
// @Param artist query string false "Exact artist name"
// @Param language query string false "Language code, e.g. EN"
// @Param sort query string false "title (default), artist, newest or popular"
// @Param page query int false "Page number, default: 1"
// @Param per_page query int false "Page size, default: 20, max: 100"
// @Success 200 {object} models.SongPage
// @Failure 500 {object} map[string]string
// @Router /songs [get]
func (h *CatalogHandler) ListSongs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := h.service.ListSongs(r.Context(), models.SongQuery{
		Q:        query.Get("q"),
		Artist:   query.Get("artist"),
		Language: query.Get("language"),
		Sort:     query.Get("sort"),
		Page:     queryInt(r, "page", 1),
		PerPage:  queryInt(r, "per_page", 0),
	})
	if err != nil {
		h.respondServiceError(w, err, "list songs")
		return
	}

	h.respondJSON(w, http.StatusOK, page)
}

// GetSong handles GET /songs/{id}
// @Summary Get song
// @Tags catalog
// @Produce json
// @Param id path int true "Song ID"
// @Success 200 {object} models.Song
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /songs/{id} [get]
func (h *CatalogHandler) GetSong(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	song, err := h.service.GetSong(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "get song")
		return
	}

	h.respondJSON(w, http.StatusOK, song)
}

// Suggest handles GET /songs/suggest
// @Summary Suggest songs
// @Description Search-as-you-type matches on title and artist, at least two characters
// @Tags catalog
// @Produce json
// @Param q query string true "Partial title or artist"
// @Success 200 {array} models.SongSuggestion
// @Router /songs/suggest [get]
func (h *CatalogHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.service.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.respondServiceError(w, err, "suggest songs")
		return
	}

	h.respondJSON(w, http.StatusOK, suggestions)
}

// TopSongs handles GET /songs/top
// @Summary Most played songs
// @Tags catalog
// @Produce json
// @Param limit query int false "Number of songs, default: 10, max: 50"
// @Success 200 {array} models.Song
// @Router /songs/top [get]
func (h *CatalogHandler) TopSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.service.TopSongs(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		h.respondServiceError(w, err, "get top songs")
		return
	}

	h.respondJSON(w, http.StatusOK, songs)
}

// ListArtists handles GET /artists
// @Summary List artists
// @Tags catalog
// @Produce json
// @Param q query string false "Part of the artist name"
// @Param page query int false "Page number, default: 1"
// @Param per_page query int false "Page size, default: 20, max: 100"
// @Success 200 {object} models.ArtistPage
// @Router /artists [get]
func (h *CatalogHandler) ListArtists(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListArtists(r.Context(), r.URL.Query().Get("q"), queryInt(r, "page", 1), queryInt(r, "per_page", 0))
	if err != nil {
		h.respondServiceError(w, err, "list artists")
		return
	}

	h.respondJSON(w, http.StatusOK, page)
}

// ListLanguages handles GET /languages
// @Summary List languages
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Language
// @Router /languages [get]
func (h *CatalogHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.service.ListLanguages(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "list languages")
		return
	}

	h.respondJSON(w, http.StatusOK, languages)
}
