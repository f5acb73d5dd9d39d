// Package auth issues and validates session access tokens
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenGenerator handles JWT access token generation and validation
type TokenGenerator struct {
	secret            string
	accessTokenExpiry time.Duration
	now               func() time.Time
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, accessExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:            secret,
		accessTokenExpiry: accessExpiry,
		now:               time.Now,
	}
}

// AccessTokenExpiry returns the lifetime of issued tokens
func (tg *TokenGenerator) AccessTokenExpiry() time.Duration {
	return tg.accessTokenExpiry
}

// GenerateAccessToken creates an access token with userID and role in payload
func (tg *TokenGenerator) GenerateAccessToken(userID int, role int) (string, error) {
	now := tg.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     now.Add(tg.accessTokenExpiry).Unix(),
		"iat":     now.Unix(),
		"type":    "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken validates an access token and returns the userID and role
func (tg *TokenGenerator) ValidateAccessToken(tokenString string) (int, int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tg.secret), nil
	}, jwt.WithTimeFunc(tg.now))

	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return 0, 0, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, 0, fmt.Errorf("invalid token claims")
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "access" {
		return 0, 0, fmt.Errorf("token is not an access token")
	}

	// JWT claims decode numbers as float64
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, 0, fmt.Errorf("user_id not found in token")
	}

	role, ok := claims["role"].(float64)
	if !ok {
		return 0, 0, fmt.Errorf("role not found in token")
	}

	return int(userID), int(role), nil
}
