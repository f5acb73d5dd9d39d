package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

const userColumns = `id, username, email, password_hash, role, is_paid, paid_until, is_verified, created_at`

// userRepository implements UserRepository
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var paidUntil sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsPaid,
		&paidUntil,
		&user.IsVerified,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if paidUntil.Valid {
		user.PaidUntil = &paidUntil.Time
	}
	return user, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (r *userRepository) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query users", zap.Error(err))
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.logger.Error("failed to scan user", zap.Error(err))
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return users, nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role, is_paid, paid_until, is_verified)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role, user.IsPaid, nullTime(user.PaidUntil), user.IsVerified,
	)
	if isDuplicateKey(err) {
		return fmt.Errorf("user %q: %w", user.Username, models.ErrConflict)
	}
	if err != nil {
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get user", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByEmailOrUsername retrieves a user by email or username
func (r *userRepository) GetByEmailOrUsername(ctx context.Context, login string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = ? OR username = ?
		LIMIT 1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, login, login))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", login, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get user by email or username", zap.Error(err), zap.String("login", login))
		return nil, fmt.Errorf("failed to get user by email or username: %w", err)
	}
	return user, nil
}

// ExistsByEmail checks if a user exists with the given email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// ExistsByUsername checks if a user exists with the given username
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE username = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, username).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check username existence", zap.Error(err), zap.String("username", username))
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

func userWhere(search string) (string, []any) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", nil
	}
	pattern := containsPattern(search)
	return "WHERE username LIKE ? OR email LIKE ?", []any{pattern, pattern}
}

// List retrieves a page of users, newest first, optionally filtered by username or email
func (r *userRepository) List(ctx context.Context, search string, limit, offset int) ([]models.User, error) {
	where, args := userWhere(search)
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		%s
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, userColumns, where)
	args = append(args, limit, offset)

	return r.queryUsers(ctx, query, args...)
}

// Count returns the number of users matching search
func (r *userRepository) Count(ctx context.Context, search string) (int, error) {
	where, args := userWhere(search)

	var total int
	if err := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM users %s`, where), args...).Scan(&total); err != nil {
		r.logger.Error("failed to count users", zap.Error(err))
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}

// Update stores the role and membership fields of a user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET role = ?, is_paid = ?, paid_until = ?, is_verified = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, user.Role, user.IsPaid, nullTime(user.PaidUntil), user.IsVerified, user.ID)
	if err != nil {
		r.logger.Error("failed to update user", zap.Error(err), zap.Int("id", user.ID))
		return fmt.Errorf("failed to update user: %w", err)
	}
	return expectRow(result, "user", user.ID)
}

// UpdatePasswordHash replaces a user's password hash
func (r *userRepository) UpdatePasswordHash(ctx context.Context, id int, hash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		r.logger.Error("failed to update password", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update password: %w", err)
	}
	return expectRow(result, "user", id)
}

// Delete removes a user by ID
func (r *userRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to delete user", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return expectRow(result, "user", id)
}

// ListPaid retrieves every user with paid access at the given moment
func (r *userRepository) ListPaid(ctx context.Context, now time.Time) ([]models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE is_paid = 1 AND (paid_until IS NULL OR paid_until > ?)
		ORDER BY id ASC
	`, userColumns)

	return r.queryUsers(ctx, query, now)
}
