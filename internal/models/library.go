package models

import "time"

// Playlist is a named, ordered list of songs owned by a user
type Playlist struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	SongCount int       `json:"song_count"`
	CreatedAt time.Time `json:"created_at"`
}

// PlaylistDetail is a playlist with its songs in order
type PlaylistDetail struct {
	Playlist
	Songs []Song `json:"songs"`
}

// PlaylistRequest is the payload for creating a playlist
type PlaylistRequest struct {
	Name string `json:"name"`
}

// PlaylistSongRequest is the payload for adding a song to a playlist
type PlaylistSongRequest struct {
	SongID int `json:"song_id"`
}

// FavoriteToggleResult reports the favorite state after a toggle
type FavoriteToggleResult struct {
	SongID    int  `json:"song_id"`
	Favorited bool `json:"favorited"`
}
