package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

type playRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPlayRepository creates a new play repository
func NewPlayRepository(db *sql.DB, logger *zap.Logger) *playRepository {
	return &playRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a play and sets its ID
func (r *playRepository) Create(ctx context.Context, play *models.Play) error {
	result, err := r.db.ExecContext(ctx, `INSERT INTO plays (song_id, user_id, played_at) VALUES (?, ?, ?)`, play.SongID, play.UserID, play.PlayedAt)
	if err != nil {
		r.logger.Error("failed to create play", zap.Error(err), zap.Int("song_id", play.SongID), zap.Int("user_id", play.UserID))
		return fmt.Errorf("failed to create play: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	play.ID = int(id)
	return nil
}

// TopSongs retrieves the most played active songs
func (r *playRepository) TopSongs(ctx context.Context, limit int) ([]models.Song, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM songs s
		JOIN (SELECT song_id, COUNT(*) AS cnt FROM plays GROUP BY song_id) pc ON pc.song_id = s.id
		WHERE s.is_active = 1
		ORDER BY pc.cnt DESC, s.title ASC
		LIMIT ?
	`, songColumns)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("failed to query top songs", zap.Error(err))
		return nil, fmt.Errorf("failed to query top songs: %w", err)
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

// ListByUser retrieves a user's plays, most recent first
func (r *playRepository) ListByUser(ctx context.Context, userID, limit, offset int) ([]models.PlayHistoryItem, error) {
	query := `
		SELECT p.song_id, s.title, s.artist, p.played_at
		FROM plays p
		JOIN songs s ON s.id = p.song_id
		WHERE p.user_id = ?
		ORDER BY p.played_at DESC, p.id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.Error("failed to query play history", zap.Error(err), zap.Int("user_id", userID))
		return nil, fmt.Errorf("failed to query play history: %w", err)
	}
	defer rows.Close()

	items := []models.PlayHistoryItem{}
	for rows.Next() {
		var item models.PlayHistoryItem
		if err := rows.Scan(&item.SongID, &item.Title, &item.Artist, &item.PlayedAt); err != nil {
			r.logger.Error("failed to scan play", zap.Error(err))
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return items, nil
}

// CountByUser returns the number of plays of a user
func (r *playRepository) CountByUser(ctx context.Context, userID int) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plays WHERE user_id = ?`, userID).Scan(&total); err != nil {
		r.logger.Error("failed to count plays", zap.Error(err), zap.Int("user_id", userID))
		return 0, fmt.Errorf("failed to count plays: %w", err)
	}
	return total, nil
}
