package models

// Candidate is a single external metadata lookup result considered for auto-fill
type Candidate struct {
	Source     string `json:"source"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	Genre      string `json:"genre,omitempty"`
	Year       int    `json:"year,omitempty"`
	Language   string `json:"language"`
	CoverURL   string `json:"cover_url,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
	Score      int    `json:"score"`
}

// ArtistImage is the outcome of resolving an artist picture
type ArtistImage struct {
	Name       string `json:"name,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	Found      bool   `json:"found"`
}

// BackfillReport summarizes a backfill run
type BackfillReport struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}
