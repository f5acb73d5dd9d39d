package repositories

import (
	"database/sql"
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

func setupEmailVerificationRepository(t *testing.T) (*emailVerificationRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewEmailVerificationRepository(db, zaptest.NewLogger(t))

	return repo, mock, func() { db.Close() }
}

func TestEmailVerificationRepository_Create(t *testing.T) {
	repo, mock, cleanup := setupEmailVerificationRepository(t)
	defer cleanup()

	expiresAt := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO email_verifications (user_id, token_hash, expires_at) VALUES (?, ?, ?)`)).
		WithArgs(9, "deadbeef", expiresAt).
		WillReturnResult(sqlmock.NewResult(4, 1))

	v := &models.EmailVerification{UserID: 9, TokenHash: "deadbeef", ExpiresAt: expiresAt}
	require.NoError(t, repo.Create(t.Context(), v))
	assert.Equal(t, 4, v.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailVerificationRepository_Confirm(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	selectQuery := regexp.QuoteMeta(`SELECT user_id FROM email_verifications WHERE token_hash = ? AND expires_at > ? FOR UPDATE`)

	tests := []struct {
		name        string
		setupMock   func(sqlmock.Sqlmock)
		expectedErr error
		expectedID  int
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(selectQuery).
					WithArgs("deadbeef", now).
					WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(9))
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET is_verified = 1 WHERE id = ?`)).
					WithArgs(9).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM email_verifications WHERE user_id = ?`)).
					WithArgs(9).
					WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectCommit()
			},
			expectedID: 9,
		},
		{
			name: "expired or unknown token",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(selectQuery).
					WithArgs("deadbeef", now).
					WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			expectedErr: models.ErrNotFound,
		},
		{
			name: "update fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(selectQuery).
					WithArgs("deadbeef", now).
					WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(9))
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET is_verified = 1 WHERE id = ?`)).
					WillReturnError(errors.New("lock wait timeout"))
				mock.ExpectRollback()
			},
			expectedErr: errors.New("lock wait timeout"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupEmailVerificationRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			userID, err := repo.Confirm(t.Context(), "deadbeef", now)

			if tt.expectedErr != nil {
				assert.Error(t, err)
				if errors.Is(tt.expectedErr, models.ErrNotFound) {
					assert.ErrorIs(t, err, models.ErrNotFound)
				}
				assert.Zero(t, userID)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, userID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
