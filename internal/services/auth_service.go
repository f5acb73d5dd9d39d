package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserSharedRepository is the interface that wraps methods for User table data access common for auth and admin services
type UserSharedRepository interface {
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// "email" parameter is used to check if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method ExistsByUsername checks if a user with such username exists.
	//
	// "username" parameter is used to check if a user with such username exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	UserSharedRepository
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user, its ID is set on success.
	//
	// If some error occurs during user creation, the error will be returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmailOrUsername retrieves a user by email or username.
	//
	// "login" parameter is used to retrieve a user by email or username.
	//
	// If user with such email or username does not exist, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByEmailOrUsername(ctx context.Context, login string) (*models.User, error)
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, an error wrapping models.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
}

// EmailVerificationRepository is the interface that wraps methods for EmailVerifications table data access
type EmailVerificationRepository interface {
	// Method Create stores a pending verification.
	Create(ctx context.Context, v *models.EmailVerification) error
	// Method Confirm verifies the owner of an unexpired token hash and removes the owner's pending tokens.
	//
	// If no unexpired verification has the hash, an error wrapping models.ErrNotFound will be returned.
	Confirm(ctx context.Context, tokenHash string, now time.Time) (int, error)
}

// AccessTokenGenerator is the interface that wraps session token issuing
type AccessTokenGenerator interface {
	// Method GenerateAccessToken creates a signed access token carrying the user ID and role.
	GenerateAccessToken(userID int, role int) (string, error)
}

// authService implements registration, login and email verification
type authService struct {
	userRepo         UserRepository
	verificationRepo EmailVerificationRepository
	tokenGenerator   AccessTokenGenerator
	mailer           Mailer
	logger           *zap.Logger
	appBaseURL       string
	verificationTTL  time.Duration
	now              func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	verificationRepo EmailVerificationRepository,
	tokenGenerator AccessTokenGenerator,
	mailer Mailer,
	logger *zap.Logger,
	appBaseURL string,
	verificationTTL time.Duration,
) *authService {
	return &authService{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		tokenGenerator:   tokenGenerator,
		mailer:           mailer,
		logger:           logger,
		appBaseURL:       strings.TrimRight(appBaseURL, "/"),
		verificationTTL:  verificationTTL,
		now:              time.Now,
	}
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// passwordRegex validates password: at least 8 chars, a letter and a number
var passwordRegex = []*regexp.Regexp{
	regexp.MustCompile(`.{8,}`),
	regexp.MustCompile(`[A-Za-z]`),
	regexp.MustCompile(`[0-9]`),
}

// Register creates a new unverified user account and mails the verification link
//
// A failure to send the mail is logged and does not fail the registration.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	normalizedEmail, normalizedUsername, err := checkRegisterCredentials(ctx, s.userRepo, req.Email, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     normalizedUsername,
		Email:        normalizedEmail,
		PasswordHash: string(passwordHash),
		Role:         models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.sendVerification(ctx, user); err != nil {
		s.logger.Warn("failed to send verification email", zap.Int("userId", user.ID), zap.Error(err))
	}

	return user, nil
}

// sendVerification stores a fresh token hash and mails the raw token to the user
func (s *authService) sendVerification(ctx context.Context, user *models.User) error {
	token := uuid.NewString()

	verification := &models.EmailVerification{
		UserID:    user.ID,
		TokenHash: hashToken(token),
		ExpiresAt: s.now().Add(s.verificationTTL),
	}
	if err := s.verificationRepo.Create(ctx, verification); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/api/v1/auth/verify?token=%s", s.appBaseURL, url.QueryEscape(token))
	body := fmt.Sprintf(
		`<p>Hi %s,</p><p>Confirm your email address to start singing:</p><p><a href="%s">%s</a></p>`,
		html.EscapeString(user.Username), html.EscapeString(link), html.EscapeString(link),
	)
	return s.mailer.Send(user.Email, "Confirm your email", body)
}

// Login authenticates a user by email or username and returns a new access token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (string, *models.User, error) {
	login := strings.TrimSpace(req.Login)
	if login == "" || req.Password == "" {
		return "", nil, fmt.Errorf("login and password are required: %w", models.ErrValidation)
	}

	user, err := s.userRepo.GetByEmailOrUsername(ctx, login)
	if errors.Is(err, models.ErrNotFound) {
		return "", nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}

	token, err := s.tokenGenerator.GenerateAccessToken(user.ID, int(user.Role))
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user, nil
}

// VerifyEmail confirms the email address that received token
func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("verification token is required: %w", models.ErrValidation)
	}

	userID, err := s.verificationRepo.Confirm(ctx, hashToken(token), s.now())
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("invalid or expired verification token: %w", models.ErrValidation)
	}
	if err != nil {
		return err
	}

	s.logger.Info("email verified", zap.Int("userId", userID))
	return nil
}

// Me returns the profile of the authenticated user
func (s *authService) Me(ctx context.Context, userID int) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// hashToken returns the hex SHA-256 digest stored in place of a raw token
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Method that combines all checks for register credentials
//
// There is no need for check parts to wait each other, so I`m using goroutines to check all
// credentials in parallel.
func checkRegisterCredentials(ctx context.Context, userRepo UserSharedRepository, email, username, password string) (string, string, error) {
	validationErrors := make(chan error, 3)
	normalizedEmail := strings.TrimSpace(strings.ToLower(email))
	normalizedUsername := strings.TrimSpace(username)

	// Validate password
	go func() {
		validationErrors <- checkPassword(password)
	}()

	// Validate email and check its uniqueness
	go func() {
		if !emailRegex.MatchString(normalizedEmail) {
			validationErrors <- fmt.Errorf("invalid email format: %w", models.ErrValidation)
			return
		}
		emailExists, err := userRepo.ExistsByEmail(ctx, normalizedEmail)
		if err != nil {
			validationErrors <- fmt.Errorf("failed to check email: %w", err)
			return
		}
		if emailExists {
			validationErrors <- fmt.Errorf("email already exists: %w", models.ErrConflict)
			return
		}
		validationErrors <- nil
	}()

	// Validate username and check its uniqueness
	go func() {
		if normalizedUsername == "" || len(normalizedUsername) > 100 {
			validationErrors <- fmt.Errorf("username must be 1 to 100 characters: %w", models.ErrValidation)
			return
		}
		usernameExists, err := userRepo.ExistsByUsername(ctx, normalizedUsername)
		if err != nil {
			validationErrors <- fmt.Errorf("failed to check username: %w", err)
			return
		}
		if usernameExists {
			validationErrors <- fmt.Errorf("username already exists: %w", models.ErrConflict)
			return
		}
		validationErrors <- nil
	}()

	var firstErr error
	for range 3 {
		if err := <-validationErrors; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return "", "", firstErr
	}

	return normalizedEmail, normalizedUsername, nil
}

// checkPassword enforces the password policy
func checkPassword(password string) error {
	for _, regex := range passwordRegex {
		if !regex.MatchString(password) {
			return fmt.Errorf("password must be at least 8 characters long and contain a letter and a number: %w", models.ErrValidation)
		}
	}
	return nil
}
