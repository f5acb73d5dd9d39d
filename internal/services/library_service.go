package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

// maxPlaylistName is the longest playlist name accepted, in characters
const maxPlaylistName = 100

// LibraryRepository is the interface that wraps methods for Favorites and Playlists tables data access
type LibraryRepository interface {
	IsFavorite(ctx context.Context, userID, songID int) (bool, error)
	AddFavorite(ctx context.Context, userID, songID int) error
	RemoveFavorite(ctx context.Context, userID, songID int) error
	ListFavorites(ctx context.Context, userID int) ([]models.Song, error)
	CreatePlaylist(ctx context.Context, playlist *models.Playlist) error
	ListPlaylists(ctx context.Context, userID int) ([]models.Playlist, error)
	// Method GetPlaylist retrieves a playlist by its ID.
	//
	// If the playlist does not exist, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetPlaylist(ctx context.Context, id int) (*models.Playlist, error)
	ListPlaylistSongs(ctx context.Context, playlistID int) ([]models.Song, error)
	// Method AddPlaylistSong appends a song to a playlist.
	//
	// If the song is already in the playlist, an error wrapping models.ErrConflict will be returned.
	AddPlaylistSong(ctx context.Context, playlistID, songID int) error
	RemovePlaylistSong(ctx context.Context, playlistID, songID int) error
	DeletePlaylist(ctx context.Context, id int) error
}

type libraryService struct {
	libraryRepo LibraryRepository
	songRepo    SongReader
	logger      *zap.Logger
}

// NewLibraryService creates a new favorites and playlists service
func NewLibraryService(libraryRepo LibraryRepository, songRepo SongReader, logger *zap.Logger) *libraryService {
	return &libraryService{
		libraryRepo: libraryRepo,
		songRepo:    songRepo,
		logger:      logger,
	}
}

// activeSong returns the song if it is visible in the catalog
func (s *libraryService) activeSong(ctx context.Context, songID int) (*models.Song, error) {
	song, err := s.songRepo.GetByID(ctx, songID)
	if err != nil {
		return nil, err
	}
	if !song.IsActive {
		return nil, fmt.Errorf("song %d: %w", songID, models.ErrNotFound)
	}
	return song, nil
}

// ToggleFavorite adds the song to the user's favorites or removes it when already there
func (s *libraryService) ToggleFavorite(ctx context.Context, userID, songID int) (*models.FavoriteToggleResult, error) {
	if _, err := s.activeSong(ctx, songID); err != nil {
		return nil, err
	}

	favorited, err := s.libraryRepo.IsFavorite(ctx, userID, songID)
	if err != nil {
		return nil, err
	}

	if favorited {
		err = s.libraryRepo.RemoveFavorite(ctx, userID, songID)
	} else {
		err = s.libraryRepo.AddFavorite(ctx, userID, songID)
	}
	if err != nil {
		return nil, err
	}

	return &models.FavoriteToggleResult{SongID: songID, Favorited: !favorited}, nil
}

// ListFavorites returns the user's favorite songs
func (s *libraryService) ListFavorites(ctx context.Context, userID int) ([]models.Song, error) {
	return s.libraryRepo.ListFavorites(ctx, userID)
}

// CreatePlaylist creates an empty playlist owned by the user
func (s *libraryService) CreatePlaylist(ctx context.Context, userID int, req *models.PlaylistRequest) (*models.Playlist, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > maxPlaylistName {
		return nil, fmt.Errorf("playlist name must be 1 to %d characters: %w", maxPlaylistName, models.ErrValidation)
	}

	playlist := &models.Playlist{UserID: userID, Name: name}
	if err := s.libraryRepo.CreatePlaylist(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// ListPlaylists returns the user's playlists
func (s *libraryService) ListPlaylists(ctx context.Context, userID int) ([]models.Playlist, error) {
	return s.libraryRepo.ListPlaylists(ctx, userID)
}

// ownedPlaylist returns the playlist if the user owns it, other users' playlists are reported as not found
func (s *libraryService) ownedPlaylist(ctx context.Context, userID, playlistID int) (*models.Playlist, error) {
	playlist, err := s.libraryRepo.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.UserID != userID {
		return nil, fmt.Errorf("playlist %d: %w", playlistID, models.ErrNotFound)
	}
	return playlist, nil
}

// GetPlaylist returns a playlist of the user with its songs
func (s *libraryService) GetPlaylist(ctx context.Context, userID, playlistID int) (*models.PlaylistDetail, error) {
	playlist, err := s.ownedPlaylist(ctx, userID, playlistID)
	if err != nil {
		return nil, err
	}

	songs, err := s.libraryRepo.ListPlaylistSongs(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	return &models.PlaylistDetail{Playlist: *playlist, Songs: songs}, nil
}

// AddSong appends an active song to a playlist of the user
func (s *libraryService) AddSong(ctx context.Context, userID, playlistID, songID int) error {
	if _, err := s.ownedPlaylist(ctx, userID, playlistID); err != nil {
		return err
	}
	if _, err := s.activeSong(ctx, songID); err != nil {
		return err
	}
	return s.libraryRepo.AddPlaylistSong(ctx, playlistID, songID)
}

// RemoveSong removes a song from a playlist of the user
func (s *libraryService) RemoveSong(ctx context.Context, userID, playlistID, songID int) error {
	if _, err := s.ownedPlaylist(ctx, userID, playlistID); err != nil {
		return err
	}
	return s.libraryRepo.RemovePlaylistSong(ctx, playlistID, songID)
}

// DeletePlaylist removes a playlist of the user
func (s *libraryService) DeletePlaylist(ctx context.Context, userID, playlistID int) error {
	if _, err := s.ownedPlaylist(ctx, userID, playlistID); err != nil {
		return err
	}
	return s.libraryRepo.DeletePlaylist(ctx, playlistID)
}
