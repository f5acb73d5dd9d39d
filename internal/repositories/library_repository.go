package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

// libraryRepository stores user favorites and playlists
type libraryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLibraryRepository creates a new library repository
func NewLibraryRepository(db *sql.DB, logger *zap.Logger) *libraryRepository {
	return &libraryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *libraryRepository) querySongs(ctx context.Context, query string, args ...any) ([]models.Song, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query songs", zap.Error(err))
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := []models.Song{}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			r.logger.Error("failed to scan song", zap.Error(err))
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, *song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return songs, nil
}

// IsFavorite reports whether the user has favorited the song
func (r *libraryRepository) IsFavorite(ctx context.Context, userID, songID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT * FROM favorites WHERE user_id = ? AND song_id = ?)`, userID, songID).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check favorite", zap.Error(err), zap.Int("user_id", userID), zap.Int("song_id", songID))
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

// AddFavorite marks the song as a favorite of the user, adding it twice is a no-op
func (r *libraryRepository) AddFavorite(ctx context.Context, userID, songID int) error {
	_, err := r.db.ExecContext(ctx, `INSERT IGNORE INTO favorites (user_id, song_id) VALUES (?, ?)`, userID, songID)
	if err != nil {
		r.logger.Error("failed to add favorite", zap.Error(err), zap.Int("user_id", userID), zap.Int("song_id", songID))
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite removes the song from the user's favorites
func (r *libraryRepository) RemoveFavorite(ctx context.Context, userID, songID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = ? AND song_id = ?`, userID, songID)
	if err != nil {
		r.logger.Error("failed to remove favorite", zap.Error(err), zap.Int("user_id", userID), zap.Int("song_id", songID))
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// ListFavorites retrieves the user's favorite songs, most recently added first
func (r *libraryRepository) ListFavorites(ctx context.Context, userID int) ([]models.Song, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM favorites f
		JOIN songs s ON s.id = f.song_id
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC, s.id DESC
	`, songColumns)

	return r.querySongs(ctx, query, userID)
}

// CreatePlaylist inserts a playlist and sets its ID
func (r *libraryRepository) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	result, err := r.db.ExecContext(ctx, `INSERT INTO playlists (user_id, name) VALUES (?, ?)`, playlist.UserID, playlist.Name)
	if err != nil {
		r.logger.Error("failed to create playlist", zap.Error(err), zap.Int("user_id", playlist.UserID))
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	playlist.ID = int(id)
	return nil
}

// ListPlaylists retrieves the user's playlists with their song counts
func (r *libraryRepository) ListPlaylists(ctx context.Context, userID int) ([]models.Playlist, error) {
	query := `
		SELECT p.id, p.user_id, p.name, p.created_at,
		       (SELECT COUNT(*) FROM playlist_songs ps WHERE ps.playlist_id = p.id) AS song_count
		FROM playlists p
		WHERE p.user_id = ?
		ORDER BY p.name ASC, p.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to query playlists", zap.Error(err), zap.Int("user_id", userID))
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	playlists := []models.Playlist{}
	for rows.Next() {
		var p models.Playlist
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt, &p.SongCount); err != nil {
			r.logger.Error("failed to scan playlist", zap.Error(err))
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return playlists, nil
}

// GetPlaylist retrieves a playlist by its ID
func (r *libraryRepository) GetPlaylist(ctx context.Context, id int) (*models.Playlist, error) {
	query := `
		SELECT p.id, p.user_id, p.name, p.created_at,
		       (SELECT COUNT(*) FROM playlist_songs ps WHERE ps.playlist_id = p.id) AS song_count
		FROM playlists p
		WHERE p.id = ?
	`

	p := &models.Playlist{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt, &p.SongCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("playlist %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get playlist", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}
	return p, nil
}

// ListPlaylistSongs retrieves the songs of a playlist in position order
func (r *libraryRepository) ListPlaylistSongs(ctx context.Context, playlistID int) ([]models.Song, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = ?
		ORDER BY ps.position ASC
	`, songColumns)

	return r.querySongs(ctx, query, playlistID)
}

// AddPlaylistSong appends a song to the end of a playlist
func (r *libraryRepository) AddPlaylistSong(ctx context.Context, playlistID, songID int) error {
	query := `
		INSERT INTO playlist_songs (playlist_id, song_id, position)
		SELECT ?, ?, COALESCE(MAX(position), 0) + 1
		FROM playlist_songs
		WHERE playlist_id = ?
	`

	_, err := r.db.ExecContext(ctx, query, playlistID, songID, playlistID)
	if isDuplicateKey(err) {
		return fmt.Errorf("song %d in playlist %d: %w", songID, playlistID, models.ErrConflict)
	}
	if err != nil {
		r.logger.Error("failed to add playlist song", zap.Error(err), zap.Int("playlist_id", playlistID), zap.Int("song_id", songID))
		return fmt.Errorf("failed to add playlist song: %w", err)
	}
	return nil
}

// RemovePlaylistSong removes a song from a playlist
func (r *libraryRepository) RemovePlaylistSong(ctx context.Context, playlistID, songID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?`, playlistID, songID)
	if err != nil {
		r.logger.Error("failed to remove playlist song", zap.Error(err), zap.Int("playlist_id", playlistID), zap.Int("song_id", songID))
		return fmt.Errorf("failed to remove playlist song: %w", err)
	}
	return expectRow(result, "playlist song", songID)
}

// DeletePlaylist removes a playlist and its entries
func (r *libraryRepository) DeletePlaylist(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to delete playlist", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	return expectRow(result, "playlist", id)
}
