package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

const driveGrantColumns = `id, song_id, user_id, file_id, status, message, created_at, updated_at`

type driveGrantRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDriveGrantRepository creates a new drive grant repository
func NewDriveGrantRepository(db *sql.DB, logger *zap.Logger) *driveGrantRepository {
	return &driveGrantRepository{
		db:     db,
		logger: logger,
	}
}

func scanDriveGrant(row rowScanner) (*models.DriveGrant, error) {
	grant := &models.DriveGrant{}
	var message sql.NullString
	err := row.Scan(
		&grant.ID,
		&grant.SongID,
		&grant.UserID,
		&grant.FileID,
		&grant.Status,
		&message,
		&grant.CreatedAt,
		&grant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	grant.Message = message.String
	return grant, nil
}

// Get retrieves the grant recorded for a song, user and file
func (r *driveGrantRepository) Get(ctx context.Context, songID, userID int, fileID string) (*models.DriveGrant, error) {
	query := `SELECT ` + driveGrantColumns + ` FROM drive_grants WHERE song_id = ? AND user_id = ? AND file_id = ?`

	grant, err := scanDriveGrant(r.db.QueryRowContext(ctx, query, songID, userID, fileID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("drive grant: %w", models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get drive grant", zap.Error(err), zap.Int("song_id", songID), zap.Int("user_id", userID))
		return nil, fmt.Errorf("failed to get drive grant: %w", err)
	}
	return grant, nil
}

// Upsert records the outcome of a grant attempt, replacing any earlier outcome
func (r *driveGrantRepository) Upsert(ctx context.Context, grant *models.DriveGrant) error {
	query := `
		INSERT INTO drive_grants (song_id, user_id, file_id, status, message)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE status = VALUES(status), message = VALUES(message)
	`

	_, err := r.db.ExecContext(ctx, query, grant.SongID, grant.UserID, grant.FileID, grant.Status, grant.Message)
	if err != nil {
		r.logger.Error("failed to upsert drive grant", zap.Error(err), zap.Int("song_id", grant.SongID), zap.Int("user_id", grant.UserID))
		return fmt.Errorf("failed to upsert drive grant: %w", err)
	}
	return nil
}

// ListBySong retrieves every grant recorded for a song
func (r *driveGrantRepository) ListBySong(ctx context.Context, songID int) ([]models.DriveGrant, error) {
	query := `SELECT ` + driveGrantColumns + ` FROM drive_grants WHERE song_id = ? ORDER BY updated_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, songID)
	if err != nil {
		r.logger.Error("failed to query drive grants", zap.Error(err), zap.Int("song_id", songID))
		return nil, fmt.Errorf("failed to query drive grants: %w", err)
	}
	defer rows.Close()

	grants := []models.DriveGrant{}
	for rows.Next() {
		grant, err := scanDriveGrant(rows)
		if err != nil {
			r.logger.Error("failed to scan drive grant", zap.Error(err))
			return nil, fmt.Errorf("failed to scan drive grant: %w", err)
		}
		grants = append(grants, *grant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return grants, nil
}
