package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/karaokeos/backend/internal/middleware"
	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register performs a user credentials validation and creation and mails an email verification link.
	//
	// "req" parameter contains email, username and password.
	//
	// If user passed invalid credentials, an error wrapping models.ErrValidation will be returned.
	// If such user already exists, an error wrapping models.ErrConflict will be returned.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	// Method Login performs a user credentials validation and returns an access token and the user.
	//
	// "req" parameter contains login (email or username) and password.
	//
	// If credentials are wrong, an error wrapping models.ErrUnauthorized will be returned together with an empty token.
	Login(ctx context.Context, req *models.LoginRequest) (string, *models.User, error)
	// Method VerifyEmail confirms the email address that received "token".
	//
	// If the token is unknown or expired, an error wrapping models.ErrValidation will be returned.
	VerifyEmail(ctx context.Context, token string) error
	// Method Me retrieves the profile of the authenticated user.
	Me(ctx context.Context, userID int) (*models.User, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService  AuthService
	tokenExpiry  time.Duration
	secureCookie bool
}

// NewAuthHandler creates a new auth handler.
// tokenExpiry sets the lifetime of the access token cookie.
func NewAuthHandler(authService AuthService, logger *zap.Logger, tokenExpiry time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		BaseHandler:  BaseHandler{logger: logger},
		authService:  authService,
		tokenExpiry:  tokenExpiry,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes registers all auth handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/verify", h.VerifyEmail)
	})
	r.With(authMiddleware).Get("/me", h.Me)
}

// Register handles POST /auth/register
// @Summary Register a new user
// @Description Register a new user with email, username and password. A verification link is mailed to the user.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register request"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]string "Invalid request body or credentials"
// @Failure 409 {object} map[string]string "User already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err, "register user")
		return
	}

	h.respondJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login
// @Summary Login user
// @Description Authenticate user with login (email or username) and password. Returns the access token as an HTTP-only cookie and in the body.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} map[string]any "Login successful"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	token, user, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err, "login user")
		return
	}

	h.setTokenCookie(w, token, int(h.tokenExpiry.Seconds()))
	h.respondJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"user":         user,
	})
}

// Logout handles POST /auth/logout
// @Summary Logout user
// @Description Clear the access token cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setTokenCookie(w, "", -1)
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// VerifyEmail handles GET /auth/verify
// @Summary Verify email
// @Tags auth
// @Produce json
// @Param token query string true "Verification token from the email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid or expired token"
// @Router /auth/verify [get]
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.VerifyEmail(r.Context(), r.URL.Query().Get("token")); err != nil {
		h.respondServiceError(w, err, "verify email")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "email verified"})
}

// Me handles GET /me
// @Summary Current user
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string
// @Router /me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err, "get current user")
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

// setTokenCookie sets the access token as an HTTP-only cookie, a negative maxAge deletes it
func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
