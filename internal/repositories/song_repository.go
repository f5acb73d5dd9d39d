package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

// songColumns is the select list scanned by scanSong
const songColumns = `
	s.id, s.title, s.artist, s.language, s.album, s.genre, s.year, s.cover_url,
	s.drive_link, s.drive_file_id, s.external_url, s.is_active, s.created_at, s.updated_at,
	(SELECT COUNT(*) FROM plays p WHERE p.song_id = s.id) AS play_count`

type songRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSongRepository creates a new song repository
func NewSongRepository(db *sql.DB, logger *zap.Logger) *songRepository {
	return &songRepository{
		db:     db,
		logger: logger,
	}
}

func scanSong(row rowScanner) (*models.Song, error) {
	song := &models.Song{}
	err := row.Scan(
		&song.ID,
		&song.Title,
		&song.Artist,
		&song.Language,
		&song.Album,
		&song.Genre,
		&song.Year,
		&song.CoverURL,
		&song.DriveLink,
		&song.DriveFileID,
		&song.ExternalURL,
		&song.IsActive,
		&song.CreatedAt,
		&song.UpdatedAt,
		&song.PlayCount,
	)
	if err != nil {
		return nil, err
	}
	return song, nil
}

func (r *songRepository) querySongs(ctx context.Context, query string, args ...any) ([]models.Song, error) {
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
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return songs, nil
}

// songWhere translates the filter into a WHERE clause and its arguments
func songWhere(filter models.SongFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.ActiveOnly {
		conditions = append(conditions, "s.is_active = 1")
	}
	if q := strings.TrimSpace(filter.Q); q != "" {
		conditions = append(conditions, "(s.title LIKE ? OR s.artist LIKE ?)")
		pattern := containsPattern(q)
		args = append(args, pattern, pattern)
	}
	if artist := strings.TrimSpace(filter.Artist); artist != "" {
		conditions = append(conditions, "s.artist = ?")
		args = append(args, artist)
	}
	if language := strings.TrimSpace(filter.Language); language != "" {
		conditions = append(conditions, "s.language = ?")
		args = append(args, strings.ToUpper(language))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// songOrder returns the ORDER BY clause of a sort, unknown sorts order by title
func songOrder(sort models.SongSort) string {
	switch sort {
	case models.SortArtist:
		return "ORDER BY s.artist ASC, s.title ASC, s.id ASC"
	case models.SortNewest:
		return "ORDER BY s.created_at DESC, s.id DESC"
	case models.SortPopular:
		return "ORDER BY play_count DESC, s.title ASC, s.id ASC"
	default:
		return "ORDER BY s.title ASC, s.id ASC"
	}
}

// List retrieves a page of songs matching the filter
func (r *songRepository) List(ctx context.Context, filter models.SongFilter, limit, offset int) ([]models.Song, error) {
	where, args := songWhere(filter)
	query := fmt.Sprintf(`
		SELECT %s
		FROM songs s
		%s
		%s
		LIMIT ? OFFSET ?
	`, songColumns, where, songOrder(filter.Sort))
	args = append(args, limit, offset)

	return r.querySongs(ctx, query, args...)
}

// Count returns the number of songs matching the filter
func (r *songRepository) Count(ctx context.Context, filter models.SongFilter) (int, error) {
	where, args := songWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM songs s %s`, where)

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		r.logger.Error("failed to count songs", zap.Error(err))
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return total, nil
}

// GetByID retrieves a song by its ID
func (r *songRepository) GetByID(ctx context.Context, id int) (*models.Song, error) {
	query := fmt.Sprintf(`SELECT %s FROM songs s WHERE s.id = ?`, songColumns)

	song, err := scanSong(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("song %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get song", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	return song, nil
}

// Suggest retrieves active songs whose title or artist contains q
func (r *songRepository) Suggest(ctx context.Context, q string, limit int) ([]models.SongSuggestion, error) {
	query := `
		SELECT id, title, artist
		FROM songs
		WHERE is_active = 1 AND (title LIKE ? OR artist LIKE ?)
		ORDER BY title ASC, id ASC
		LIMIT ?
	`
	pattern := containsPattern(q)

	rows, err := r.db.QueryContext(ctx, query, pattern, pattern, limit)
	if err != nil {
		r.logger.Error("failed to query song suggestions", zap.Error(err))
		return nil, fmt.Errorf("failed to query song suggestions: %w", err)
	}
	defer rows.Close()

	suggestions := []models.SongSuggestion{}
	for rows.Next() {
		var s models.SongSuggestion
		if err := rows.Scan(&s.ID, &s.Title, &s.Artist); err != nil {
			r.logger.Error("failed to scan song suggestion", zap.Error(err))
			return nil, fmt.Errorf("failed to scan song suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return suggestions, nil
}

// Create inserts a new song and sets its ID
func (r *songRepository) Create(ctx context.Context, song *models.Song) error {
	query := `
		INSERT INTO songs (title, artist, language, album, genre, year, cover_url, drive_link, drive_file_id, external_url, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		song.Title, song.Artist, song.Language, song.Album, song.Genre, song.Year,
		song.CoverURL, song.DriveLink, song.DriveFileID, song.ExternalURL, song.IsActive,
	)
	if err != nil {
		r.logger.Error("failed to create song", zap.Error(err))
		return fmt.Errorf("failed to create song: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	song.ID = int(id)
	return nil
}

// Update overwrites every editable column of a song
func (r *songRepository) Update(ctx context.Context, song *models.Song) error {
	query := `
		UPDATE songs
		SET title = ?, artist = ?, language = ?, album = ?, genre = ?, year = ?, cover_url = ?,
		    drive_link = ?, drive_file_id = ?, external_url = ?, is_active = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		song.Title, song.Artist, song.Language, song.Album, song.Genre, song.Year, song.CoverURL,
		song.DriveLink, song.DriveFileID, song.ExternalURL, song.IsActive, song.ID,
	)
	if err != nil {
		r.logger.Error("failed to update song", zap.Error(err), zap.Int("id", song.ID))
		return fmt.Errorf("failed to update song: %w", err)
	}
	return expectRow(result, "song", song.ID)
}

// Delete removes a song by its ID
func (r *songRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to delete song", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to delete song: %w", err)
	}
	return expectRow(result, "song", id)
}

// SetActive shows or hides a song from the public catalog
func (r *songRepository) SetActive(ctx context.Context, id int, active bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE songs SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		r.logger.Error("failed to set song active flag", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to set song active flag: %w", err)
	}
	return expectRow(result, "song", id)
}

// ListMissingCover retrieves up to limit songs with an ID above afterID, in ID order.
// Unless force is set only songs without a cover are returned.
func (r *songRepository) ListMissingCover(ctx context.Context, limit, afterID int, force bool) ([]models.Song, error) {
	where := "WHERE s.id > ?"
	if !force {
		where += " AND s.cover_url = ''"
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM songs s
		%s
		ORDER BY s.id ASC
		LIMIT ?
	`, songColumns, where)

	return r.querySongs(ctx, query, afterID, limit)
}

// UpdateMetadata stores looked-up metadata fields of a song
func (r *songRepository) UpdateMetadata(ctx context.Context, id int, meta models.SongMetadata) error {
	query := `
		UPDATE songs
		SET album = ?, genre = ?, year = ?, cover_url = ?, language = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, meta.Album, meta.Genre, meta.Year, meta.CoverURL, meta.Language, id)
	if err != nil {
		r.logger.Error("failed to update song metadata", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update song metadata: %w", err)
	}
	return expectRow(result, "song", id)
}

// ListLanguages returns the languages of active songs with their song counts
func (r *songRepository) ListLanguages(ctx context.Context) ([]models.Language, error) {
	query := `
		SELECT language, COUNT(*) AS song_count
		FROM songs
		WHERE is_active = 1
		GROUP BY language
		ORDER BY song_count DESC, language ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query languages", zap.Error(err))
		return nil, fmt.Errorf("failed to query languages: %w", err)
	}
	defer rows.Close()

	languages := []models.Language{}
	for rows.Next() {
		var l models.Language
		if err := rows.Scan(&l.Language, &l.SongCount); err != nil {
			r.logger.Error("failed to scan language", zap.Error(err))
			return nil, fmt.Errorf("failed to scan language: %w", err)
		}
		languages = append(languages, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return languages, nil
}
