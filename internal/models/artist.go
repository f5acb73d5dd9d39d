package models

import "time"

// Artist represents a performer with an optional image
type Artist struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"image_url,omitempty"`
	ExternalID string    `json:"external_id,omitempty"`
	SongCount  int       `json:"song_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ArtistPage is a paginated list of artists
type ArtistPage struct {
	Items      []Artist   `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Language is a catalog language with the number of active songs in it
type Language struct {
	Language  string `json:"language"`
	SongCount int    `json:"song_count"`
}

// ArtistImageRequest is the admin payload for setting an artist image
type ArtistImageRequest struct {
	ImageURL   string `json:"image_url"`
	ExternalID string `json:"external_id"`
}
