package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/karaokeos/backend/internal/models"
	"github.com/karaokeos/backend/internal/pagination"
	"go.uber.org/zap"
)

// Page size bounds of list endpoints
const (
	DefaultPerPage = 20
	MaxPerPage     = 100

	suggestMinLength = 2
	suggestLimit     = 10
	defaultTopLimit  = 10
	maxTopLimit      = 50
)

// SongRepository is the interface that wraps methods for reading the Songs table
type SongRepository interface {
	// Method List retrieves songs matching a filter.
	//
	// "filter" parameter holds the search text, artist, language, ordering and the active-only flag.
	// "limit" and "offset" parameters select the page.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	List(ctx context.Context, filter models.SongFilter, limit, offset int) ([]models.Song, error)
	// Method Count returns the number of songs matching a filter.
	//
	// Please reference List method for more information about the filter.
	Count(ctx context.Context, filter models.SongFilter) (int, error)
	// Method GetByID retrieves a song by its ID.
	//
	// If the song does not exist, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Song, error)
	// Method Suggest retrieves active songs whose title or artist contains "q".
	Suggest(ctx context.Context, q string, limit int) ([]models.SongSuggestion, error)
	// Method ListLanguages retrieves the languages of active songs with their song counts.
	ListLanguages(ctx context.Context) ([]models.Language, error)
}

// ArtistRepository is the interface that wraps methods for reading the Artists table
type ArtistRepository interface {
	// Method List retrieves artists ordered by name.
	//
	// "q" parameter filters artists by a part of their name, an empty value disables the filter.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	List(ctx context.Context, q string, limit, offset int) ([]models.Artist, error)
	// Method Count returns the number of artists matching "q".
	Count(ctx context.Context, q string) (int, error)
}

// TopSongsRepository is the interface that wraps the play statistics query
type TopSongsRepository interface {
	// Method TopSongs retrieves the most played active songs.
	TopSongs(ctx context.Context, limit int) ([]models.Song, error)
}

type catalogService struct {
	songRepo   SongRepository
	artistRepo ArtistRepository
	topRepo    TopSongsRepository
	logger     *zap.Logger
}

// NewCatalogService creates a new public catalog service
func NewCatalogService(songRepo SongRepository, artistRepo ArtistRepository, topRepo TopSongsRepository, logger *zap.Logger) *catalogService {
	return &catalogService{
		songRepo:   songRepo,
		artistRepo: artistRepo,
		topRepo:    topRepo,
		logger:     logger,
	}
}

// perPageOrDefault clamps a requested page size to (0, MaxPerPage]
func perPageOrDefault(perPage int) int {
	if perPage <= 0 {
		return DefaultPerPage
	}
	if perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}

// songFilter converts raw query parameters to a repository filter
func songFilter(q models.SongQuery, activeOnly bool) models.SongFilter {
	return models.SongFilter{
		Q:          strings.TrimSpace(q.Q),
		Artist:     strings.TrimSpace(q.Artist),
		Language:   strings.ToUpper(strings.TrimSpace(q.Language)),
		Sort:       models.ParseSongSort(q.Sort),
		ActiveOnly: activeOnly,
	}
}

// ListSongs returns a page of active songs
//
// Unknown sort values fall back to title order, out-of-range pages are clamped.
func (s *catalogService) ListSongs(ctx context.Context, query models.SongQuery) (*models.SongPage, error) {
	filter := songFilter(query, true)

	total, err := s.songRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count songs: %w", err)
	}

	pager := pagination.New(total, query.Page, perPageOrDefault(query.PerPage))
	songs, err := s.songRepo.List(ctx, filter, pager.Limit(), pager.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}

	return &models.SongPage{
		Items:      songs,
		Pagination: pager.Meta(),
	}, nil
}

// GetSong returns an active song by its ID
func (s *catalogService) GetSong(ctx context.Context, id int) (*models.Song, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid song id: %w", models.ErrValidation)
	}

	song, err := s.songRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !song.IsActive {
		return nil, fmt.Errorf("song %d: %w", id, models.ErrNotFound)
	}
	return song, nil
}

// ListArtists returns a page of artists
func (s *catalogService) ListArtists(ctx context.Context, q string, page, perPage int) (*models.ArtistPage, error) {
	q = strings.TrimSpace(q)

	total, err := s.artistRepo.Count(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to count artists: %w", err)
	}

	pager := pagination.New(total, page, perPageOrDefault(perPage))
	artists, err := s.artistRepo.List(ctx, q, pager.Limit(), pager.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}

	return &models.ArtistPage{
		Items:      artists,
		Pagination: pager.Meta(),
	}, nil
}

// ListLanguages returns the catalog languages with their song counts
func (s *catalogService) ListLanguages(ctx context.Context) ([]models.Language, error) {
	languages, err := s.songRepo.ListLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	return languages, nil
}

// Suggest returns search-as-you-type matches, queries shorter than two characters match nothing
func (s *catalogService) Suggest(ctx context.Context, q string) ([]models.SongSuggestion, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < suggestMinLength {
		return []models.SongSuggestion{}, nil
	}

	suggestions, err := s.songRepo.Suggest(ctx, q, suggestLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest songs: %w", err)
	}
	return suggestions, nil
}

// TopSongs returns the most played songs
func (s *catalogService) TopSongs(ctx context.Context, limit int) ([]models.Song, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	songs, err := s.topRepo.TopSongs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top songs: %w", err)
	}
	return songs, nil
}
