package models

import "time"

// Song represents a karaoke track in the catalog
type Song struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	Language    string    `json:"language"`
	Album       string    `json:"album,omitempty"`
	Genre       string    `json:"genre,omitempty"`
	Year        int       `json:"year,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	DriveLink   string    `json:"-"`
	DriveFileID string    `json:"-"`
	ExternalURL string    `json:"-"`
	IsActive    bool      `json:"is_active"`
	PlayCount   int       `json:"play_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Playable reports whether the song resolves to a Drive file or an external URL
func (s *Song) Playable() bool {
	return s.DriveFileID != "" || s.ExternalURL != ""
}

// SongSort enumerates the supported song orderings
type SongSort string

// SongSort constants
const (
	SortTitle   SongSort = "title"
	SortArtist  SongSort = "artist"
	SortNewest  SongSort = "newest"
	SortPopular SongSort = "popular"
)

// ParseSongSort maps a query value to a known ordering, defaulting to title
func ParseSongSort(value string) SongSort {
	switch SongSort(value) {
	case SortArtist, SortNewest, SortPopular:
		return SongSort(value)
	default:
		return SortTitle
	}
}

// SongFilter holds the recognized song browsing filters
type SongFilter struct {
	Q          string
	Artist     string
	Language   string
	Sort       SongSort
	ActiveOnly bool
}

// SongRequest is the admin payload for creating or updating a song
type SongRequest struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Language  string `json:"language"`
	Album     string `json:"album"`
	Genre     string `json:"genre"`
	Year      int    `json:"year"`
	CoverURL  string `json:"cover_url"`
	DriveLink string `json:"drive_link"`
	IsActive  *bool  `json:"is_active"`
}

// AdminSong exposes the storage fields hidden from the public song representation
type AdminSong struct {
	Song
	DriveLink   string `json:"drive_link"`
	DriveFileID string `json:"drive_file_id"`
	ExternalURL string `json:"external_url"`
}

// SongSuggestion is a compact search-as-you-type result
type SongSuggestion struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// SongMetadata holds the fields a metadata backfill may overwrite
type SongMetadata struct {
	Album    string
	Genre    string
	Year     int
	CoverURL string
	Language string
}

// SongPage is a paginated list of songs
type SongPage struct {
	Items      []Song     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the page bounds returned with list responses
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Pages   int   `json:"pages"`
	Total   int   `json:"total"`
	HasPrev bool  `json:"has_prev"`
	HasNext bool  `json:"has_next"`
	Window  []int `json:"window"`
}

// SongQuery holds the raw browse parameters of a song list request
type SongQuery struct {
	Q        string
	Artist   string
	Language string
	Sort     string
	Page     int
	PerPage  int
}

// AdminSongPage is a paginated list of songs with their storage fields
type AdminSongPage struct {
	Items      []AdminSong `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// NewAdminSong exposes the storage fields of a song
func NewAdminSong(s Song) AdminSong {
	return AdminSong{
		Song:        s,
		DriveLink:   s.DriveLink,
		DriveFileID: s.DriveFileID,
		ExternalURL: s.ExternalURL,
	}
}
