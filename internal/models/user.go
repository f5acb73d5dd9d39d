package models

import "time"

type Role int

// UserRole constants
const (
	RoleUser  Role = 1
	RoleAdmin Role = 2
)

// User represents a user in the system
type User struct {
	ID           int        `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`    // Never serialize password hash
	Role         Role       `json:"role"` // 1=User, 2=Admin, default=1
	IsPaid       bool       `json:"is_paid"`
	PaidUntil    *time.Time `json:"paid_until,omitempty"`
	IsVerified   bool       `json:"is_verified"`
	CreatedAt    time.Time  `json:"created_at"`
}

// HasPaidAccess reports whether the user may play songs at the given moment
func (u *User) HasPaidAccess(now time.Time) bool {
	if !u.IsPaid {
		return false
	}
	return u.PaidUntil == nil || u.PaidUntil.After(now)
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Login    string `json:"login"` // Email or username
	Password string `json:"password"`
}

// CreateUserRequest is the admin payload for creating a user
type CreateUserRequest struct {
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	Role       Role       `json:"role"`
	IsPaid     bool       `json:"is_paid"`
	PaidUntil  *time.Time `json:"paid_until"`
	IsVerified bool       `json:"is_verified"`
}

// UpdateUserRequest is the admin payload for updating a user, nil fields are left untouched
type UpdateUserRequest struct {
	Role           *Role      `json:"role"`
	IsPaid         *bool      `json:"is_paid"`
	PaidUntil      *time.Time `json:"paid_until"`
	ClearPaidUntil bool       `json:"clear_paid_until"`
	IsVerified     *bool      `json:"is_verified"`
}

// UpdatePasswordRequest is the admin payload for resetting a password
type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

// UserPage is a paginated list of users
type UserPage struct {
	Items      []User     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// EmailVerification is a pending email confirmation token
type EmailVerification struct {
	ID        int
	UserID    int
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
