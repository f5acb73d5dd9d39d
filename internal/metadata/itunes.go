package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/karaokeos/backend/internal/models"
	"go.uber.org/zap"
)

// SourceITunes identifies candidates coming from the iTunes Search API
const SourceITunes = "itunes"

// ITunesClient queries the iTunes Search API
type ITunesClient struct {
	api     apiClient
	baseURL string
	country string
}

// NewITunesClient creates an iTunes Search client rooted at baseURL (e.g. "https://itunes.apple.com")
func NewITunesClient(baseURL, country string, httpClient *http.Client, userAgent string, logger *zap.Logger) *ITunesClient {
	return &ITunesClient{
		api:     newAPIClient(httpClient, userAgent, nil, logger),
		baseURL: strings.TrimRight(baseURL, "/"),
		country: country,
	}
}

func (c *ITunesClient) Source() string { return SourceITunes }

type itunesSearchResponse struct {
	ResultCount int          `json:"resultCount"`
	Results     []itunesItem `json:"results"`
}

type itunesItem struct {
	TrackID          int64  `json:"trackId"`
	TrackName        string `json:"trackName"`
	ArtistName       string `json:"artistName"`
	CollectionName   string `json:"collectionName"`
	PrimaryGenreName string `json:"primaryGenreName"`
	ReleaseDate      string `json:"releaseDate"`
	ArtworkURL100    string `json:"artworkUrl100"`
}

// Search returns song candidates for the title and artist, empty on any failure
func (c *ITunesClient) Search(ctx context.Context, title, artist string, limit int) []models.Candidate {
	term := strings.TrimSpace(strings.Join([]string{title, artist}, " "))
	if term == "" {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("term", term)
	params.Set("media", "music")
	params.Set("entity", "song")
	params.Set("limit", strconv.Itoa(limit))
	if c.country != "" {
		params.Set("country", c.country)
	}

	var resp itunesSearchResponse
	if !c.api.getJSON(ctx, fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode()), &resp) {
		return nil
	}

	candidates := make([]models.Candidate, 0, len(resp.Results))
	for _, item := range resp.Results {
		if item.TrackName == "" {
			continue
		}
		candidates = append(candidates, models.Candidate{
			Source:     SourceITunes,
			Title:      item.TrackName,
			Artist:     item.ArtistName,
			Album:      item.CollectionName,
			Genre:      item.PrimaryGenreName,
			Year:       parseYear(item.ReleaseDate),
			Language:   GuessLanguage(item.TrackName),
			CoverURL:   upgradeArtwork(item.ArtworkURL100),
			ExternalID: externalID(item.TrackID),
		})
	}
	return candidates
}

// upgradeArtwork swaps the 100x100 thumbnail for the 600x600 rendition
func upgradeArtwork(artworkURL string) string {
	return strings.Replace(artworkURL, "100x100", "600x600", 1)
}

func externalID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// parseYear reads the leading four-digit year of a date such as "2004-05-17T07:00:00Z"
func parseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year < 1000 {
		return 0
	}
	return year
}
