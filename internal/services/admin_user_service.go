package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/karaokeos/backend/internal/models"
	"github.com/karaokeos/backend/internal/pagination"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminUserRepository is the interface that wraps methods for Users table data access used by admins
type AdminUserRepository interface {
	UserSharedRepository
	// Method List retrieves users whose username or email contains "search".
	List(ctx context.Context, search string, limit, offset int) ([]models.User, error)
	// Method Count returns the number of users matching "search".
	Count(ctx context.Context, search string) (int, error)
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.User, error)
	// Method Create inserts a new user and sets its ID.
	Create(ctx context.Context, user *models.User) error
	// Method Update stores the role, membership and verification fields of a user.
	Update(ctx context.Context, user *models.User) error
	// Method UpdatePasswordHash replaces a user's password hash.
	UpdatePasswordHash(ctx context.Context, id int, hash string) error
	// Method Delete removes a user.
	//
	// If user with such ID does not exist, an error wrapping models.ErrNotFound will be returned.
	Delete(ctx context.Context, id int) error
}

type adminUserService struct {
	userRepo AdminUserRepository
	logger   *zap.Logger
}

// NewAdminUserService creates a new admin user service
func NewAdminUserService(userRepo AdminUserRepository, logger *zap.Logger) *adminUserService {
	return &adminUserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func validRole(role models.Role) bool {
	return role == models.RoleUser || role == models.RoleAdmin
}

// List returns a page of users
func (s *adminUserService) List(ctx context.Context, search string, page, perPage int) (*models.UserPage, error) {
	search = strings.TrimSpace(search)

	total, err := s.userRepo.Count(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	pager := pagination.New(total, page, perPageOrDefault(perPage))
	users, err := s.userRepo.List(ctx, search, pager.Limit(), pager.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return &models.UserPage{
		Items:      users,
		Pagination: pager.Meta(),
	}, nil
}

// Get returns a user by ID
func (s *adminUserService) Get(ctx context.Context, id int) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Create adds a user with the given role and membership, skipping email verification
func (s *adminUserService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	role := req.Role
	if role == 0 {
		role = models.RoleUser
	}
	if !validRole(role) {
		return nil, fmt.Errorf("unknown role %d: %w", role, models.ErrValidation)
	}

	email, username, err := checkRegisterCredentials(ctx, s.userRepo, req.Email, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         role,
		IsPaid:       req.IsPaid,
		PaidUntil:    req.PaidUntil,
		IsVerified:   req.IsVerified,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created by admin", zap.Int("userId", user.ID))
	return user, nil
}

// Update applies the fields present in the request to a user
func (s *adminUserService) Update(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		if !validRole(*req.Role) {
			return nil, fmt.Errorf("unknown role %d: %w", *req.Role, models.ErrValidation)
		}
		user.Role = *req.Role
	}
	if req.IsPaid != nil {
		user.IsPaid = *req.IsPaid
	}
	if req.ClearPaidUntil {
		user.PaidUntil = nil
	} else if req.PaidUntil != nil {
		paidUntil := req.PaidUntil.UTC()
		user.PaidUntil = &paidUntil
	}
	if req.IsVerified != nil {
		user.IsVerified = *req.IsVerified
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResetPassword sets a new password for a user
func (s *adminUserService) ResetPassword(ctx context.Context, id int, password string) error {
	if err := checkPassword(password); err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePasswordHash(ctx, id, string(passwordHash))
}

// Delete removes a user, admins cannot delete their own account
func (s *adminUserService) Delete(ctx context.Context, actorID, id int) error {
	if actorID == id {
		return fmt.Errorf("cannot delete your own account: %w", models.ErrForbidden)
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int("userId", id), zap.Int("by", actorID))
	return nil
}
