package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

type emailVerificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEmailVerificationRepository creates a new email verification repository
func NewEmailVerificationRepository(db *sql.DB, logger *zap.Logger) *emailVerificationRepository {
	return &emailVerificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a pending verification token hash
func (r *emailVerificationRepository) Create(ctx context.Context, v *models.EmailVerification) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO email_verifications (user_id, token_hash, expires_at) VALUES (?, ?, ?)`,
		v.UserID, v.TokenHash, v.ExpiresAt,
	)
	if err != nil {
		r.logger.Error("failed to create email verification", zap.Error(err), zap.Int("user_id", v.UserID))
		return fmt.Errorf("failed to create email verification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	v.ID = int(id)
	return nil
}

// Confirm marks the owner of an unexpired token as verified and drops all of the
// owner's pending tokens, in one transaction. It returns the verified user's ID.
func (r *emailVerificationRepository) Confirm(ctx context.Context, tokenHash string, now time.Time) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var userID int
	err = tx.QueryRowContext(ctx,
		`SELECT user_id FROM email_verifications WHERE token_hash = ? AND expires_at > ? FOR UPDATE`,
		tokenHash, now,
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("verification token: %w", models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get email verification", zap.Error(err))
		return 0, fmt.Errorf("failed to get email verification: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE users SET is_verified = 1 WHERE id = ?`, userID); err != nil {
		r.logger.Error("failed to mark user verified", zap.Error(err), zap.Int("user_id", userID))
		return 0, fmt.Errorf("failed to mark user verified: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM email_verifications WHERE user_id = ?`, userID); err != nil {
		r.logger.Error("failed to delete email verifications", zap.Error(err), zap.Int("user_id", userID))
		return 0, fmt.Errorf("failed to delete email verifications: %w", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit transaction", zap.Error(err))
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return userID, nil
}
