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
	"golang.org/x/time/rate"
)

// SourceMusicBrainz identifies candidates coming from MusicBrainz
const SourceMusicBrainz = "musicbrainz"

// MusicBrainz asks clients to stay at or below one request per second
// https://musicbrainz.org/doc/MusicBrainz_API/Rate_Limiting
const (
	musicBrainzQPS    = 1
	musicBrainzBucket = 1
)

// NewMusicBrainzLimiter returns a limiter honoring the MusicBrainz rate limit
func NewMusicBrainzLimiter() *rate.Limiter {
	return rate.NewLimiter(musicBrainzQPS, musicBrainzBucket)
}

// MusicBrainzClient queries the MusicBrainz web service
type MusicBrainzClient struct {
	api     apiClient
	baseURL string
	covers  *CoverArtClient
}

// NewMusicBrainzClient creates a MusicBrainz client rooted at baseURL (e.g. "https://musicbrainz.org").
// covers is optional and fills candidate cover URLs from the Cover Art Archive.
// A nil limiter falls back to NewMusicBrainzLimiter.
func NewMusicBrainzClient(baseURL string, httpClient *http.Client, userAgent string, limiter *rate.Limiter, covers *CoverArtClient, logger *zap.Logger) *MusicBrainzClient {
	if limiter == nil {
		limiter = NewMusicBrainzLimiter()
	}
	return &MusicBrainzClient{
		api:     newAPIClient(httpClient, userAgent, limiter, logger),
		baseURL: strings.TrimRight(baseURL, "/"),
		covers:  covers,
	}
}

func (c *MusicBrainzClient) Source() string { return SourceMusicBrainz }

type mbRecordingSearch struct {
	Recordings []mbRecording `json:"recordings"`
}

type mbRecording struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Score            int              `json:"score"`
	ArtistCredit     []mbArtistCredit `json:"artist-credit"`
	FirstReleaseDate string           `json:"first-release-date"`
	Releases         []mbRelease      `json:"releases"`
	Tags             []mbTag          `json:"tags"`
}

type mbArtistCredit struct {
	Name       string `json:"name"`
	JoinPhrase string `json:"joinphrase"`
}

type mbRelease struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

type mbTag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type mbArtistSearch struct {
	Artists []MusicBrainzArtist `json:"artists"`
}

// MusicBrainzArtist is an artist entry of the MusicBrainz search or lookup responses
type MusicBrainzArtist struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Score     int          `json:"score"`
	Relations []mbRelation `json:"relations"`
}

type mbRelation struct {
	Type string `json:"type"`
	URL  struct {
		Resource string `json:"resource"`
	} `json:"url"`
}

// Search returns recording candidates for the title and artist, empty on any failure
func (c *MusicBrainzClient) Search(ctx context.Context, title, artist string, limit int) []models.Candidate {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)
	if title == "" && artist == "" {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	var clauses []string
	if title != "" {
		clauses = append(clauses, "recording:"+luceneQuote(title))
	}
	if artist != "" {
		clauses = append(clauses, "artist:"+luceneQuote(artist))
	}

	params := url.Values{}
	params.Set("query", strings.Join(clauses, " AND "))
	params.Set("fmt", "json")
	params.Set("limit", strconv.Itoa(limit))

	var resp mbRecordingSearch
	if !c.api.getJSON(ctx, fmt.Sprintf("%s/ws/2/recording?%s", c.baseURL, params.Encode()), &resp) {
		return nil
	}

	candidates := make([]models.Candidate, 0, len(resp.Recordings))
	for _, rec := range resp.Recordings {
		if rec.Title == "" {
			continue
		}

		candidate := models.Candidate{
			Source:     SourceMusicBrainz,
			Title:      rec.Title,
			Artist:     joinArtistCredits(rec.ArtistCredit),
			Genre:      topTag(rec.Tags),
			Year:       parseYear(rec.FirstReleaseDate),
			Language:   GuessLanguage(rec.Title),
			ExternalID: rec.ID,
		}

		if len(rec.Releases) > 0 {
			release := rec.Releases[0]
			candidate.Album = release.Title
			if candidate.Year == 0 {
				candidate.Year = parseYear(release.Date)
			}
			if c.covers != nil {
				candidate.CoverURL = c.covers.FrontCover(ctx, release.ID)
			}
		}

		candidates = append(candidates, candidate)
	}
	return candidates
}

// SearchArtists returns artists matching name in the API's relevance order
func (c *MusicBrainzClient) SearchArtists(ctx context.Context, name string, limit int) []MusicBrainzArtist {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("query", "artist:"+luceneQuote(name))
	params.Set("fmt", "json")
	params.Set("limit", strconv.Itoa(limit))

	var resp mbArtistSearch
	if !c.api.getJSON(ctx, fmt.Sprintf("%s/ws/2/artist?%s", c.baseURL, params.Encode()), &resp) {
		return nil
	}
	return resp.Artists
}

// WikidataID returns the Wikidata entity id ("Q…") linked from an artist, or ""
func (c *MusicBrainzClient) WikidataID(ctx context.Context, mbid string) string {
	if mbid == "" {
		return ""
	}

	var artist MusicBrainzArtist
	rawURL := fmt.Sprintf("%s/ws/2/artist/%s?inc=url-rels&fmt=json", c.baseURL, url.PathEscape(mbid))
	if !c.api.getJSON(ctx, rawURL, &artist) {
		return ""
	}

	for _, rel := range artist.Relations {
		if rel.Type != "wikidata" {
			continue
		}
		if id := wikidataEntityID(rel.URL.Resource); id != "" {
			return id
		}
	}
	return ""
}

func joinArtistCredits(credits []mbArtistCredit) string {
	var b strings.Builder
	for _, ac := range credits {
		b.WriteString(ac.Name)
		b.WriteString(ac.JoinPhrase)
	}
	return strings.TrimSpace(b.String())
}

func topTag(tags []mbTag) string {
	best := ""
	bestCount := 0
	for _, tag := range tags {
		if tag.Name != "" && (best == "" || tag.Count > bestCount) {
			best = tag.Name
			bestCount = tag.Count
		}
	}
	return best
}

// luceneQuote wraps a value in quotes for the MusicBrainz search syntax
func luceneQuote(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return `"` + value + `"`
}

// wikidataEntityID extracts "Q123" from "https://www.wikidata.org/wiki/Q123"
func wikidataEntityID(resource string) string {
	idx := strings.LastIndex(resource, "/")
	id := resource[idx+1:]
	if len(id) < 2 || id[0] != 'Q' {
		return ""
	}
	if _, err := strconv.Atoi(id[1:]); err != nil {
		return ""
	}
	return id
}
