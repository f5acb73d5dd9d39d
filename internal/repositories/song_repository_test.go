package repositories

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/karaokeos/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var songRowColumns = []string{
	"id", "title", "artist", "language", "album", "genre", "year", "cover_url",
	"drive_link", "drive_file_id", "external_url", "is_active", "created_at", "updated_at", "play_count",
}

func songRows(songs ...models.Song) *sqlmock.Rows {
	rows := sqlmock.NewRows(songRowColumns)
	for _, s := range songs {
		rows.AddRow(s.ID, s.Title, s.Artist, s.Language, s.Album, s.Genre, s.Year, s.CoverURL,
			s.DriveLink, s.DriveFileID, s.ExternalURL, s.IsActive, s.CreatedAt, s.UpdatedAt, s.PlayCount)
	}
	return rows
}

// setupSongRepository creates a repository with a mock database
func setupSongRepository(t *testing.T) (*songRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewSongRepository(db, zaptest.NewLogger(t))

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewSongRepository(t *testing.T) {
	logger := zaptest.NewLogger(t)
	db := &sql.DB{}

	repo := NewSongRepository(db, logger)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
	assert.Equal(t, logger, repo.logger)
}

func TestSongRepository_List(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		filter        models.SongFilter
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedCount int
	}{
		{
			name:   "active songs by title",
			filter: models.SongFilter{ActiveOnly: true},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM songs s WHERE s.is_active = 1 ORDER BY s.title ASC, s.id ASC LIMIT ? OFFSET ?`)).
					WithArgs(20, 40).
					WillReturnRows(songRows(
						models.Song{ID: 1, Title: "Creep", Artist: "Radiohead", Language: "EN", IsActive: true, CreatedAt: now, UpdatedAt: now},
						models.Song{ID: 2, Title: "Lemon", Artist: "Kenshi Yonezu", Language: "JA", IsActive: true, CreatedAt: now, UpdatedAt: now, PlayCount: 7},
					))
			},
			expectedCount: 2,
		},
		{
			name:   "search with language and popularity",
			filter: models.SongFilter{Q: "50%", Language: "ja", Sort: models.SortPopular},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM songs s WHERE (s.title LIKE ? OR s.artist LIKE ?) AND s.language = ? ORDER BY play_count DESC, s.title ASC, s.id ASC LIMIT ? OFFSET ?`)).
					WithArgs(`%50\%%`, `%50\%%`, "JA", 20, 40).
					WillReturnRows(songRows())
			},
			expectedCount: 0,
		},
		{
			name:   "artist filter newest first",
			filter: models.SongFilter{Artist: " Queen ", Sort: models.SortNewest},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM songs s WHERE s.artist = ? ORDER BY s.created_at DESC, s.id DESC LIMIT ? OFFSET ?`)).
					WithArgs("Queen", 20, 40).
					WillReturnRows(songRows(models.Song{ID: 3, Title: "Bohemian Rhapsody", Artist: "Queen", CreatedAt: now, UpdatedAt: now}))
			},
			expectedCount: 1,
		},
		{
			name:   "database error",
			filter: models.SongFilter{Sort: models.SortArtist},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY s.artist ASC, s.title ASC, s.id ASC`)).
					WillReturnError(errors.New("connection refused"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupSongRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			songs, err := repo.List(t.Context(), tt.filter, 20, 40)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, songs)
			} else {
				assert.NoError(t, err)
				assert.Len(t, songs, tt.expectedCount)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSongRepository_Count(t *testing.T) {
	repo, mock, cleanup := setupSongRepository(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM songs s WHERE s.is_active = 1 AND (s.title LIKE ? OR s.artist LIKE ?)`)).
		WithArgs("%love%", "%love%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))

	total, err := repo.Count(t.Context(), models.SongFilter{Q: "love", ActiveOnly: true})

	require.NoError(t, err)
	assert.Equal(t, 45, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSongRepository_GetByID(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(sqlmock.Sqlmock)
		expectedErr error
	}{
		{
			name: "found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM songs s WHERE s.id = ?`)).
					WithArgs(9).
					WillReturnRows(songRows(models.Song{ID: 9, Title: "Lemon", Artist: "Kenshi Yonezu", DriveFileID: "abc"}))
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM songs s WHERE s.id = ?`)).
					WithArgs(9).
					WillReturnError(sql.ErrNoRows)
			},
			expectedErr: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupSongRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			song, err := repo.GetByID(t.Context(), 9)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, song)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "abc", song.DriveFileID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSongRepository_Suggest(t *testing.T) {
	repo, mock, cleanup := setupSongRepository(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, artist FROM songs WHERE is_active = 1 AND (title LIKE ? OR artist LIKE ?) ORDER BY title ASC, id ASC LIMIT ?`)).
		WithArgs("%bo%", "%bo%", 8).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "artist"}).
			AddRow(3, "Bohemian Rhapsody", "Queen").
			AddRow(4, "Born to Run", "Bruce Springsteen"))

	suggestions, err := repo.Suggest(t.Context(), "bo", 8)

	require.NoError(t, err)
	assert.Equal(t, []models.SongSuggestion{
		{ID: 3, Title: "Bohemian Rhapsody", Artist: "Queen"},
		{ID: 4, Title: "Born to Run", Artist: "Bruce Springsteen"},
	}, suggestions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSongRepository_Create(t *testing.T) {
	repo, mock, cleanup := setupSongRepository(t)
	defer cleanup()

	song := &models.Song{Title: "Lemon", Artist: "Kenshi Yonezu", Language: "JA", DriveLink: "https://drive.google.com/file/d/abc/view", DriveFileID: "abc", IsActive: true}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO songs (title, artist, language, album, genre, year, cover_url, drive_link, drive_file_id, external_url, is_active)`)).
		WithArgs("Lemon", "Kenshi Yonezu", "JA", "", "", 0, "", song.DriveLink, "abc", "", true).
		WillReturnResult(sqlmock.NewResult(12, 1))

	require.NoError(t, repo.Create(t.Context(), song))
	assert.Equal(t, 12, song.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSongRepository_Update(t *testing.T) {
	tests := []struct {
		name        string
		result      driver.Result
		expectedErr error
	}{
		{name: "updated", result: sqlmock.NewResult(0, 1)},
		{name: "missing song", result: sqlmock.NewResult(0, 0), expectedErr: models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupSongRepository(t)
			defer cleanup()

			song := &models.Song{ID: 5, Title: "Creep", Artist: "Radiohead", Language: "EN", IsActive: false}
			mock.ExpectExec(regexp.QuoteMeta(`UPDATE songs SET title = ?, artist = ?`)).
				WithArgs("Creep", "Radiohead", "EN", "", "", 0, "", "", "", "", false, 5).
				WillReturnResult(tt.result)

			err := repo.Update(t.Context(), song)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSongRepository_DeleteAndSetActive(t *testing.T) {
	repo, mock, cleanup := setupSongRepository(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE songs SET is_active = ? WHERE id = ?`)).
		WithArgs(false, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM songs WHERE id = ?`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM songs WHERE id = ?`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.SetActive(t.Context(), 5, false))
	assert.NoError(t, repo.Delete(t.Context(), 5))
	assert.ErrorIs(t, repo.Delete(t.Context(), 5), models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSongRepository_ListMissingCover(t *testing.T) {
	tests := []struct {
		name  string
		force bool
		query string
	}{
		{name: "missing only", query: `FROM songs s WHERE s.id > ? AND s.cover_url = '' ORDER BY s.id ASC LIMIT ?`},
		{name: "forced", force: true, query: `FROM songs s WHERE s.id > ? ORDER BY s.id ASC LIMIT ?`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupSongRepository(t)
			defer cleanup()

			mock.ExpectQuery(regexp.QuoteMeta(tt.query)).
				WithArgs(100, 50).
				WillReturnRows(songRows(models.Song{ID: 101, Title: "Creep", Artist: "Radiohead"}))

			songs, err := repo.ListMissingCover(t.Context(), 50, 100, tt.force)

			require.NoError(t, err)
			assert.Len(t, songs, 1)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSongRepository_UpdateMetadata(t *testing.T) {
	repo, mock, cleanup := setupSongRepository(t)
	defer cleanup()

	meta := models.SongMetadata{Album: "Pablo Honey", Genre: "Alternative", Year: 1993, CoverURL: "https://img/600x600bb.jpg", Language: "EN"}
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE songs SET album = ?, genre = ?, year = ?, cover_url = ?, language = ? WHERE id = ?`)).
		WithArgs("Pablo Honey", "Alternative", 1993, "https://img/600x600bb.jpg", "EN", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateMetadata(t.Context(), 5, meta))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSongRepository_ListLanguages(t *testing.T) {
	repo, mock, cleanup := setupSongRepository(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT language, COUNT(*) AS song_count FROM songs WHERE is_active = 1 GROUP BY language`)).
		WillReturnRows(sqlmock.NewRows([]string{"language", "song_count"}).
			AddRow("EN", 120).
			AddRow("JA", 45))

	languages, err := repo.ListLanguages(t.Context())

	require.NoError(t, err)
	assert.Equal(t, []models.Language{{Language: "EN", SongCount: 120}, {Language: "JA", SongCount: 45}}, languages)
	assert.NoError(t, mock.ExpectationsWereMet())
}
