package middleware

import (
	"context"
	"net/http"
	"strings"
)

// AccessTokenCookie is the cookie carrying the session access token
const AccessTokenCookie = "access_token"

// TokenValidator validates access tokens and returns the user ID and role they carry
type TokenValidator interface {
	ValidateAccessToken(token string) (int, int, error)
}

// AuthMiddleware validates the JWT access token and stores the user ID and role in the request context
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return RoleMiddleware(validator, 0)
}

// RoleMiddleware validates the JWT access token and checks if user's role is >= requiredRole
func RoleMiddleware(validator TokenValidator, requiredRole int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			userID, role, err := validator.ValidateAccessToken(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if role < requiredRole {
				writeJSONError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID, role)))
		})
	}
}

// extractToken reads the token from the Authorization header first, then from the cookie
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

// GetUserID retrieves the user ID from context
func GetUserID(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok
}

// GetRole retrieves the user role from context
func GetRole(ctx context.Context) (int, bool) {
	role, ok := ctx.Value(roleKey).(int)
	return role, ok
}

// WithUser returns a copy of ctx carrying the given user ID and role.
// The user ID is also reported to the access log of the request.
func WithUser(ctx context.Context, userID, role int) context.Context {
	if info := getRequestInfo(ctx); info != nil {
		info.userID = userID
	}
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}
