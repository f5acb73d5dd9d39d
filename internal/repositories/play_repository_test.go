package repositories

import (
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

func setupPlayRepository(t *testing.T) (*playRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewPlayRepository(db, zaptest.NewLogger(t))

	return repo, mock, func() { db.Close() }
}

func TestPlayRepository_Create(t *testing.T) {
	repo, mock, cleanup := setupPlayRepository(t)
	defer cleanup()

	playedAt := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO plays (song_id, user_id, played_at) VALUES (?, ?, ?)`)).
		WithArgs(5, 9, playedAt).
		WillReturnResult(sqlmock.NewResult(33, 1))

	play := &models.Play{SongID: 5, UserID: 9, PlayedAt: playedAt}
	require.NoError(t, repo.Create(t.Context(), play))
	assert.Equal(t, 33, play.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlayRepository_TopSongs(t *testing.T) {
	repo, mock, cleanup := setupPlayRepository(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`JOIN (SELECT song_id, COUNT(*) AS cnt FROM plays GROUP BY song_id) pc ON pc.song_id = s.id WHERE s.is_active = 1 ORDER BY pc.cnt DESC, s.title ASC LIMIT ?`)).
		WithArgs(10).
		WillReturnRows(songRows(
			models.Song{ID: 2, Title: "Lemon", PlayCount: 50},
			models.Song{ID: 1, Title: "Creep", PlayCount: 12},
		))

	songs, err := repo.TopSongs(t.Context(), 10)

	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, 50, songs[0].PlayCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlayRepository_ListByUser(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedCount int
	}{
		{
			name: "history",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM plays p JOIN songs s ON s.id = p.song_id WHERE p.user_id = ? ORDER BY p.played_at DESC, p.id DESC LIMIT ? OFFSET ?`)).
					WithArgs(9, 20, 0).
					WillReturnRows(sqlmock.NewRows([]string{"song_id", "title", "artist", "played_at"}).
						AddRow(5, "Lemon", "Kenshi Yonezu", time.Now()))
			},
			expectedCount: 1,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`FROM plays p`)).WillReturnError(errors.New("gone"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupPlayRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			items, err := repo.ListByUser(t.Context(), 9, 20, 0)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, items, tt.expectedCount)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPlayRepository_CountByUser(t *testing.T) {
	repo, mock, cleanup := setupPlayRepository(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM plays WHERE user_id = ?`)).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	total, err := repo.CountByUser(t.Context(), 9)

	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
