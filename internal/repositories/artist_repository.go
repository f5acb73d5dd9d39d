package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

const artistColumns = `
	a.id, a.name, a.image_url, a.external_id, a.created_at,
	(SELECT COUNT(*) FROM songs s WHERE s.artist = a.name AND s.is_active = 1) AS song_count`

type artistRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewArtistRepository creates a new artist repository
func NewArtistRepository(db *sql.DB, logger *zap.Logger) *artistRepository {
	return &artistRepository{
		db:     db,
		logger: logger,
	}
}

func scanArtist(row rowScanner) (*models.Artist, error) {
	artist := &models.Artist{}
	err := row.Scan(
		&artist.ID,
		&artist.Name,
		&artist.ImageURL,
		&artist.ExternalID,
		&artist.CreatedAt,
		&artist.SongCount,
	)
	if err != nil {
		return nil, err
	}
	return artist, nil
}

func (r *artistRepository) queryArtists(ctx context.Context, query string, args ...any) ([]models.Artist, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query artists", zap.Error(err))
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	artists := []models.Artist{}
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			r.logger.Error("failed to scan artist", zap.Error(err))
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		artists = append(artists, *artist)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return artists, nil
}

func artistWhere(q string) (string, []any) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", nil
	}
	return "WHERE a.name LIKE ?", []any{containsPattern(q)}
}

// List retrieves a page of artists ordered by name, optionally filtered by q
func (r *artistRepository) List(ctx context.Context, q string, limit, offset int) ([]models.Artist, error) {
	where, args := artistWhere(q)
	query := fmt.Sprintf(`
		SELECT %s
		FROM artists a
		%s
		ORDER BY a.name ASC
		LIMIT ? OFFSET ?
	`, artistColumns, where)
	args = append(args, limit, offset)

	return r.queryArtists(ctx, query, args...)
}

// Count returns the number of artists matching q
func (r *artistRepository) Count(ctx context.Context, q string) (int, error) {
	where, args := artistWhere(q)

	var total int
	if err := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM artists a %s`, where), args...).Scan(&total); err != nil {
		r.logger.Error("failed to count artists", zap.Error(err))
		return 0, fmt.Errorf("failed to count artists: %w", err)
	}
	return total, nil
}

// Upsert inserts the artist if the name is new and returns its ID either way
func (r *artistRepository) Upsert(ctx context.Context, name string) (int, error) {
	query := `
		INSERT INTO artists (name)
		VALUES (?)
		ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)
	`

	result, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		r.logger.Error("failed to upsert artist", zap.Error(err), zap.String("name", name))
		return 0, fmt.Errorf("failed to upsert artist: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return int(id), nil
}

// UpdateImage stores an artist's image URL and MusicBrainz ID
func (r *artistRepository) UpdateImage(ctx context.Context, id int, imageURL, externalID string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE artists SET image_url = ?, external_id = ? WHERE id = ?`, imageURL, externalID, id)
	if err != nil {
		r.logger.Error("failed to update artist image", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update artist image: %w", err)
	}
	return expectRow(result, "artist", id)
}

// ListMissingImage retrieves up to limit artists with an ID above afterID, in ID order.
// Unless force is set only artists without an image are returned.
func (r *artistRepository) ListMissingImage(ctx context.Context, limit, afterID int, force bool) ([]models.Artist, error) {
	where := "WHERE a.id > ?"
	if !force {
		where += " AND a.image_url = ''"
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM artists a
		%s
		ORDER BY a.id ASC
		LIMIT ?
	`, artistColumns, where)

	return r.queryArtists(ctx, query, afterID, limit)
}
