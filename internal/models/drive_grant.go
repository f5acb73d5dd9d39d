package models

import "time"

// DriveGrantStatus is the outcome of a Drive permission grant attempt
type DriveGrantStatus string

// DriveGrantStatus constants
const (
	DriveGrantOK    DriveGrantStatus = "ok"
	DriveGrantError DriveGrantStatus = "error"
)

// DriveGrant records the last grant attempt for a (song, user, file) triple
type DriveGrant struct {
	ID        int              `json:"id"`
	SongID    int              `json:"song_id"`
	UserID    int              `json:"user_id"`
	FileID    string           `json:"file_id"`
	Status    DriveGrantStatus `json:"status"`
	Message   string           `json:"message,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// GrantSummary aggregates the outcome of granting a song to many users
type GrantSummary struct {
	OK      int      `json:"ok"`
	Errors  int      `json:"errors"`
	Skipped int      `json:"skipped"`
	Failed  []string `json:"failed,omitempty"`
}
