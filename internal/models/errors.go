package models

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("already exists")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrNotPaid            = errors.New("paid membership required")
	ErrNotPlayable        = errors.New("song has no playable link")
	ErrDriveNotConfigured = errors.New("drive access is not configured")
)
