package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/karaokeos/backend/internal/drive"
	"github.com/karaokeos/backend/internal/metadata"
	"github.com/karaokeos/backend/internal/models"
	"github.com/karaokeos/backend/internal/pagination"
	"go.uber.org/zap"
)

// lookupLimit is how many candidates an admin lookup returns
const lookupLimit = 10

// AdminSongRepository is the interface that wraps methods for Songs table data access used by admins
type AdminSongRepository interface {
	// Method List retrieves songs matching a filter, inactive songs included when filter.ActiveOnly is false.
	List(ctx context.Context, filter models.SongFilter, limit, offset int) ([]models.Song, error)
	// Method Count returns the number of songs matching a filter.
	Count(ctx context.Context, filter models.SongFilter) (int, error)
	// Method GetByID retrieves a song by its ID.
	//
	// If the song does not exist, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Song, error)
	// Method Create inserts a song and sets its ID.
	Create(ctx context.Context, song *models.Song) error
	// Method Update overwrites the editable columns of a song.
	//
	// If the song does not exist, an error wrapping models.ErrNotFound will be returned.
	Update(ctx context.Context, song *models.Song) error
	// Method Delete removes a song.
	//
	// If the song does not exist, an error wrapping models.ErrNotFound will be returned.
	Delete(ctx context.Context, id int) error
	// Method SetActive shows or hides a song from the public catalog.
	SetActive(ctx context.Context, id int, active bool) error
	// Method UpdateMetadata stores looked-up metadata fields of a song.
	UpdateMetadata(ctx context.Context, id int, meta models.SongMetadata) error
}

// ArtistWriteRepository is the interface that wraps methods for Artists table writes
type ArtistWriteRepository interface {
	// Method Upsert inserts the artist if the name is new and returns its ID either way.
	Upsert(ctx context.Context, name string) (int, error)
	// Method UpdateImage stores an artist's image URL and MusicBrainz ID.
	//
	// If the artist does not exist, an error wrapping models.ErrNotFound will be returned.
	UpdateImage(ctx context.Context, id int, imageURL, externalID string) error
}

// CandidateLookup is the interface that wraps the ranked metadata search over all sources
type CandidateLookup interface {
	// Method Candidates returns at most "limit" ranked candidates. Upstream failures yield fewer candidates, never an error.
	Candidates(ctx context.Context, title, artist string, limit int) []models.Candidate
	// Method Best returns the top candidate if it matches the query at all.
	Best(ctx context.Context, title, artist string) (models.Candidate, bool)
}

// ArtistImageLookup is the interface that wraps the artist image resolution chain
type ArtistImageLookup interface {
	// Method Resolve looks up an image for the named artist. A miss is reported with Found=false.
	Resolve(ctx context.Context, name string) models.ArtistImage
}

type adminSongService struct {
	songRepo   AdminSongRepository
	artistRepo ArtistWriteRepository
	lookup     CandidateLookup
	images     ArtistImageLookup
	logger     *zap.Logger
}

// NewAdminSongService creates a new admin song service
func NewAdminSongService(songRepo AdminSongRepository, artistRepo ArtistWriteRepository, lookup CandidateLookup, images ArtistImageLookup, logger *zap.Logger) *adminSongService {
	return &adminSongService{
		songRepo:   songRepo,
		artistRepo: artistRepo,
		lookup:     lookup,
		images:     images,
		logger:     logger,
	}
}

// List returns a page of songs including inactive ones, with their links
func (s *adminSongService) List(ctx context.Context, query models.SongQuery) (*models.AdminSongPage, error) {
	filter := songFilter(query, false)

	total, err := s.songRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count songs: %w", err)
	}

	pager := pagination.New(total, query.Page, perPageOrDefault(query.PerPage))
	songs, err := s.songRepo.List(ctx, filter, pager.Limit(), pager.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}

	items := make([]models.AdminSong, 0, len(songs))
	for _, song := range songs {
		items = append(items, models.NewAdminSong(song))
	}

	return &models.AdminSongPage{
		Items:      items,
		Pagination: pager.Meta(),
	}, nil
}

// Get returns a song with its links, active or not
func (s *adminSongService) Get(ctx context.Context, id int) (*models.AdminSong, error) {
	song, err := s.songRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	adminSong := models.NewAdminSong(*song)
	return &adminSong, nil
}

// songFromRequest validates a song form and derives its link fields
//
// A link with a Drive file id is stored as a Drive link, any other http(s) link as an external URL.
func songFromRequest(req *models.SongRequest) (*models.Song, error) {
	song := &models.Song{
		Title:    strings.TrimSpace(req.Title),
		Artist:   strings.TrimSpace(req.Artist),
		Language: strings.ToUpper(strings.TrimSpace(req.Language)),
		Album:    strings.TrimSpace(req.Album),
		Genre:    strings.TrimSpace(req.Genre),
		Year:     req.Year,
		CoverURL: strings.TrimSpace(req.CoverURL),
		IsActive: true,
	}
	if req.IsActive != nil {
		song.IsActive = *req.IsActive
	}

	if song.Title == "" || song.Artist == "" {
		return nil, fmt.Errorf("title and artist are required: %w", models.ErrValidation)
	}
	if song.Year < 0 {
		return nil, fmt.Errorf("year must not be negative: %w", models.ErrValidation)
	}
	if song.Language == "" {
		song.Language = metadata.GuessLanguage(song.Title)
	}

	link := strings.TrimSpace(req.DriveLink)
	if link == "" {
		return song, nil
	}
	if fileID := drive.ExtractFileID(link); fileID != "" {
		song.DriveLink = link
		song.DriveFileID = fileID
		return song, nil
	}
	if !isHTTPURL(link) {
		return nil, fmt.Errorf("link is neither a drive file nor an http(s) URL: %w", models.ErrValidation)
	}
	song.ExternalURL = link
	return song, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Create validates and stores a new song, registering its artist
func (s *adminSongService) Create(ctx context.Context, req *models.SongRequest) (*models.AdminSong, error) {
	song, err := songFromRequest(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.artistRepo.Upsert(ctx, song.Artist); err != nil {
		return nil, err
	}
	if err := s.songRepo.Create(ctx, song); err != nil {
		return nil, err
	}

	s.logger.Info("song created", zap.Int("songId", song.ID), zap.String("title", song.Title))
	adminSong := models.NewAdminSong(*song)
	return &adminSong, nil
}

// Update validates and overwrites an existing song, registering its artist.
// Visibility is kept unless the request sets is_active.
func (s *adminSongService) Update(ctx context.Context, id int, req *models.SongRequest) (*models.AdminSong, error) {
	song, err := songFromRequest(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.songRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	song.ID = id
	if req.IsActive == nil {
		song.IsActive = existing.IsActive
	}

	if _, err := s.artistRepo.Upsert(ctx, song.Artist); err != nil {
		return nil, err
	}
	if err := s.songRepo.Update(ctx, song); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes a song
func (s *adminSongService) Delete(ctx context.Context, id int) error {
	if err := s.songRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("song deleted", zap.Int("songId", id))
	return nil
}

// SetActive shows or hides a song from the public catalog
func (s *adminSongService) SetActive(ctx context.Context, id int, active bool) error {
	return s.songRepo.SetActive(ctx, id, active)
}

// LookupSong returns metadata candidates for a title and artist
func (s *adminSongService) LookupSong(ctx context.Context, title, artist string) ([]models.Candidate, error) {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)
	if title == "" && artist == "" {
		return nil, fmt.Errorf("title or artist is required: %w", models.ErrValidation)
	}

	candidates := s.lookup.Candidates(ctx, title, artist, lookupLimit)
	if candidates == nil {
		candidates = []models.Candidate{}
	}
	return candidates, nil
}

// mergeMetadata overlays the non-empty candidate fields on the song's current metadata
func mergeMetadata(song *models.Song, c models.Candidate) models.SongMetadata {
	meta := models.SongMetadata{
		Album:    song.Album,
		Genre:    song.Genre,
		Year:     song.Year,
		CoverURL: song.CoverURL,
		Language: song.Language,
	}
	if c.Album != "" {
		meta.Album = c.Album
	}
	if c.Genre != "" {
		meta.Genre = c.Genre
	}
	if c.Year > 0 {
		meta.Year = c.Year
	}
	if c.CoverURL != "" {
		meta.CoverURL = c.CoverURL
	}
	if meta.Language == "" && c.Language != "" {
		meta.Language = c.Language
	}
	return meta
}

// ApplyCandidate copies the chosen candidate's metadata onto a song
func (s *adminSongService) ApplyCandidate(ctx context.Context, id int, candidate models.Candidate) (*models.AdminSong, error) {
	song, err := s.songRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.songRepo.UpdateMetadata(ctx, id, mergeMetadata(song, candidate)); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// LookupArtistImage resolves an image for an artist name
func (s *adminSongService) LookupArtistImage(ctx context.Context, name string) (*models.ArtistImage, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("artist name is required: %w", models.ErrValidation)
	}

	image := s.images.Resolve(ctx, name)
	return &image, nil
}

// SetArtistImage stores an image URL for an artist
func (s *adminSongService) SetArtistImage(ctx context.Context, artistID int, req *models.ArtistImageRequest) error {
	imageURL := strings.TrimSpace(req.ImageURL)
	if !isHTTPURL(imageURL) {
		return fmt.Errorf("image url must be an http(s) URL: %w", models.ErrValidation)
	}
	return s.artistRepo.UpdateImage(ctx, artistID, imageURL, strings.TrimSpace(req.ExternalID))
}
