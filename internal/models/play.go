package models

import "time"

// Play records a user starting a song
type Play struct {
	ID       int       `json:"id"`
	SongID   int       `json:"song_id"`
	UserID   int       `json:"user_id"`
	PlayedAt time.Time `json:"played_at"`
}

// PlayHistoryItem is a play joined with its song
type PlayHistoryItem struct {
	SongID    int       `json:"song_id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	PlayedAt  time.Time `json:"played_at"`
	PlayedAgo string    `json:"played_ago"`
}

// PlayResult tells the client where to go after a play was recorded
type PlayResult struct {
	RedirectURL string `json:"redirect_url"`
	AccessError string `json:"access_error,omitempty"`
}

// PlayHistoryPage is a paginated list of a user's plays
type PlayHistoryPage struct {
	Items      []PlayHistoryItem `json:"items"`
	Pagination Pagination        `json:"pagination"`
}
