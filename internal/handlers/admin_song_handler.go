package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

// AdminSongService is the interface that wraps methods for song administration.
type AdminSongService interface {
	// Method List retrieve a page of songs, hidden songs included, with their links.
	List(ctx context.Context, query models.SongQuery) (*models.AdminSongPage, error)
	// Method Get retrieve a song with its links.
	//
	// If the song does not exist, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	Get(ctx context.Context, id int) (*models.AdminSong, error)
	// Method Create validates the form and stores a new song.
	//
	// Title and artist are required. A link with a Drive file id is stored as a Drive link, any other http(s) link as an external URL.
	// If the form is invalid, an error wrapping models.ErrValidation will be returned together with "nil" value.
	Create(ctx context.Context, req *models.SongRequest) (*models.AdminSong, error)
	// Method Update validates the form and overwrites an existing song.
	//
	// Please reference Create method for more information about validation.
	Update(ctx context.Context, id int, req *models.SongRequest) (*models.AdminSong, error)
	// Method Delete removes a song.
	Delete(ctx context.Context, id int) error
	// Method SetActive shows or hides a song from the public catalog.
	SetActive(ctx context.Context, id int, active bool) error
	// Method LookupSong retrieve ranked metadata candidates from the public music APIs.
	LookupSong(ctx context.Context, title, artist string) ([]models.Candidate, error)
	// Method ApplyCandidate copies the chosen candidate's metadata onto a song.
	ApplyCandidate(ctx context.Context, id int, candidate models.Candidate) (*models.AdminSong, error)
	// Method LookupArtistImage resolves an image for an artist name. A miss is reported with Found=false.
	LookupArtistImage(ctx context.Context, name string) (*models.ArtistImage, error)
	// Method SetArtistImage stores an image URL for an artist.
	SetArtistImage(ctx context.Context, artistID int, req *models.ArtistImageRequest) error
}

// DriveAccessService is the interface that wraps methods for Drive sharing administration.
type DriveAccessService interface {
	// Method GrantSongToPaidUsers shares the song's Drive file with every paid member.
	//
	// Failures for single users are counted in the summary.
	// If Drive is not configured, models.ErrDriveNotConfigured will be returned together with "nil" value.
	GrantSongToPaidUsers(ctx context.Context, songID int) (*models.GrantSummary, error)
	// Method ListGrants retrieve the recorded grants of a song.
	ListGrants(ctx context.Context, songID int) ([]models.DriveGrant, error)
}

// AdminSongHandler handles song administration HTTP requests
type AdminSongHandler struct {
	BaseHandler
	service      AdminSongService
	driveService DriveAccessService
}

// NewAdminSongHandler creates a new admin song handler
func NewAdminSongHandler(svc AdminSongService, driveService DriveAccessService, logger *zap.Logger) *AdminSongHandler {
	return &AdminSongHandler{
		BaseHandler:  BaseHandler{logger: logger},
		service:      svc,
		driveService: driveService,
	}
}

// ActiveRequest toggles the visibility of a song
type ActiveRequest struct {
	Active bool `json:"active"`
}

// RegisterRoutes registers all admin song handler routes
// Note: This assumes the router is already scoped to /api/v1 and guarded by the admin role
func (h *AdminSongHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/songs", h.List)
	r.Post("/admin/songs", h.Create)
	r.Get("/admin/songs/{id}", h.Get)
	r.Put("/admin/songs/{id}", h.Update)
	r.Delete("/admin/songs/{id}", h.Delete)
	r.Post("/admin/songs/{id}/active", h.SetActive)
	r.Post("/admin/songs/{id}/apply-candidate", h.ApplyCandidate)
	r.Post("/admin/songs/{id}/drive-grants", h.GrantDriveAccess)
	r.Get("/admin/songs/{id}/drive-grants", h.ListDriveGrants)
	r.Get("/admin/lookup/song", h.LookupSong)
	r.Get("/admin/lookup/artist-image", h.LookupArtistImage)
	r.Post("/admin/artists/{id}/image", h.SetArtistImage)
}

// List handles GET /admin/songs
// @Summary List songs (admin)
// @Tags admin-songs
// @Produce json
// @Security ApiKeyAuth
// @Param q query string false "Search in title and artist"
// @Param artist query string false "Exact artist name"
// @Param language query string false "Language code"
// @Param sort query string false "title (default), artist, newest or popular"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} models.AdminSongPage
// @Router /admin/songs [get]
func (h *AdminSongHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := h.service.List(r.Context(), models.SongQuery{
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

// Get handles GET /admin/songs/{id}
// @Summary Get song (admin)
// @Tags admin-songs
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Song ID"
// @Success 200 {object} models.AdminSong
// @Failure 404 {object} map[string]string
// @Router /admin/songs/{id} [get]
func (h *AdminSongHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	song, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "get song")
		return
	}

	h.respondJSON(w, http.StatusOK, song)
}

// Create handles POST /admin/songs
// @Summary Create song
// @Tags admin-songs
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.SongRequest true "Song"
// @Success 201 {object} models.AdminSong
// @Failure 400 {object} map[string]string
// @Router /admin/songs [post]
func (h *AdminSongHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SongRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	song, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err, "create song")
		return
	}

	h.respondJSON(w, http.StatusCreated, song)
}

// Update handles PUT /admin/songs/{id}
// @Summary Update song
// @Tags admin-songs
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Song ID"
// @Param request body models.SongRequest true "Song"
// @Success 200 {object} models.AdminSong
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/songs/{id} [put]
func (h *AdminSongHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.SongRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	song, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.respondServiceError(w, err, "update song")
		return
	}

	h.respondJSON(w, http.StatusOK, song)
}

// Delete handles DELETE /admin/songs/{id}
// @Summary Delete song
// @Tags admin-songs
// @Security ApiKeyAuth
// @Param id path int true "Song ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /admin/songs/{id} [delete]
func (h *AdminSongHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "delete song")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetActive handles POST /admin/songs/{id}/active
// @Summary Show or hide song
// @Tags admin-songs
// @Accept json
// @Security ApiKeyAuth
// @Param id path int true "Song ID"
// @Param request body ActiveRequest true "Visibility"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /admin/songs/{id}/active [post]
func (h *AdminSongHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req ActiveRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.SetActive(r.Context(), id, req.Active); err != nil {
		h.respondServiceError(w, err, "set song visibility")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LookupSong handles GET /admin/lookup/song
// @Summary Look up song metadata
// @Description Query iTunes and MusicBrainz and return ranked candidates. Upstream failures yield fewer candidates.
// @Tags admin-songs
// @Produce json
// @Security ApiKeyAuth
// @Param title query string false "Song title"
// @Param artist query string false "Artist"
// @Success 200 {array} models.Candidate
// @Failure 400 {object} map[string]string
// @Router /admin/lookup/song [get]
func (h *AdminSongHandler) LookupSong(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.service.LookupSong(r.Context(), r.URL.Query().Get("title"), r.URL.Query().Get("artist"))
	if err != nil {
		h.respondServiceError(w, err, "look up song")
		return
	}

	h.respondJSON(w, http.StatusOK, candidates)
}

// ApplyCandidate handles POST /admin/songs/{id}/apply-candidate
// @Summary Apply metadata candidate
// @Tags admin-songs
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Song ID"
// @Param request body models.Candidate true "Chosen candidate"
// @Success 200 {object} models.AdminSong
// @Failure 404 {object} map[string]string
// @Router /admin/songs/{id}/apply-candidate [post]
func (h *AdminSongHandler) ApplyCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var candidate models.Candidate
	if !h.decodeJSON(w, r, &candidate) {
		return
	}

	song, err := h.service.ApplyCandidate(r.Context(), id, candidate)
	if err != nil {
		h.respondServiceError(w, err, "apply candidate")
		return
	}

	h.respondJSON(w, http.StatusOK, song)
}

// LookupArtistImage handles GET /admin/lookup/artist-image
// @Summary Look up artist image
// @Description MusicBrainz artist, its Wikidata entity and the Commons image
// @Tags admin-songs
// @Produce json
// @Security ApiKeyAuth
// @Param name query string true "Artist name"
// @Success 200 {object} models.ArtistImage
// @Failure 400 {object} map[string]string
// @Router /admin/lookup/artist-image [get]
func (h *AdminSongHandler) LookupArtistImage(w http.ResponseWriter, r *http.Request) {
	image, err := h.service.LookupArtistImage(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.respondServiceError(w, err, "look up artist image")
		return
	}

	h.respondJSON(w, http.StatusOK, image)
}

// SetArtistImage handles POST /admin/artists/{id}/image
// @Summary Set artist image
// @Tags admin-songs
// @Accept json
// @Security ApiKeyAuth
// @Param id path int true "Artist ID"
// @Param request body models.ArtistImageRequest true "Image"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/artists/{id}/image [post]
func (h *AdminSongHandler) SetArtistImage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.ArtistImageRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.SetArtistImage(r.Context(), id, &req); err != nil {
		h.respondServiceError(w, err, "set artist image")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GrantDriveAccess handles POST /admin/songs/{id}/drive-grants
// @Summary Share song with paid users
// @Tags admin-songs
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Song ID"
// @Success 200 {object} models.GrantSummary
// @Failure 400 {object} map[string]string "Song has no Drive file"
// @Failure 503 {object} map[string]string "Drive not configured"
// @Router /admin/songs/{id}/drive-grants [post]
func (h *AdminSongHandler) GrantDriveAccess(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	summary, err := h.driveService.GrantSongToPaidUsers(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "grant drive access")
		return
	}

	h.respondJSON(w, http.StatusOK, summary)
}

// ListDriveGrants handles GET /admin/songs/{id}/drive-grants
// @Summary List Drive grants of a song
// @Tags admin-songs
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Song ID"
// @Success 200 {array} models.DriveGrant
// @Failure 404 {object} map[string]string
// @Router /admin/songs/{id}/drive-grants [get]
func (h *AdminSongHandler) ListDriveGrants(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	grants, err := h.driveService.ListGrants(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "list drive grants")
		return
	}

	h.respondJSON(w, http.StatusOK, grants)
}
