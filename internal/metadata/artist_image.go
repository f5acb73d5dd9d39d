package metadata

import (
	"context"

	"github.com/karaokeos/backend/internal/models"
)

// artistSearchLimit is how many MusicBrainz artists are considered per lookup
const artistSearchLimit = 10

// ArtistImageResolver chains MusicBrainz artist search, the artist's Wikidata
// relation and the Wikidata P18 claim into a Commons image URL
type ArtistImageResolver struct {
	musicBrainz *MusicBrainzClient
	wikidata    *WikidataClient
}

// NewArtistImageResolver creates a resolver from its two upstream clients
func NewArtistImageResolver(musicBrainz *MusicBrainzClient, wikidata *WikidataClient) *ArtistImageResolver {
	return &ArtistImageResolver{
		musicBrainz: musicBrainz,
		wikidata:    wikidata,
	}
}

// Resolve looks up an image for the named artist.
// A missing link anywhere in the chain yields an ArtistImage with Found=false.
func (r *ArtistImageResolver) Resolve(ctx context.Context, name string) models.ArtistImage {
	best, ok := BestArtist(r.musicBrainz.SearchArtists(ctx, name, artistSearchLimit), name)
	if !ok {
		return models.ArtistImage{}
	}

	result := models.ArtistImage{
		Name:       best.Name,
		ExternalID: best.ID,
	}

	entityID := r.musicBrainz.WikidataID(ctx, best.ID)
	if entityID == "" {
		return result
	}

	imageURL := CommonsFileURL(r.wikidata.ImageFileName(ctx, entityID))
	if imageURL == "" {
		return result
	}

	result.ImageURL = imageURL
	result.Found = true
	return result
}

// BestArtist picks the artist maximizing name similarity first and the API's
// relevance score second. Artists whose name does not match at all are ignored.
func BestArtist(artists []MusicBrainzArtist, name string) (MusicBrainzArtist, bool) {
	var best MusicBrainzArtist
	bestScore := -1

	for _, artist := range artists {
		if artist.ID == "" {
			continue
		}
		nameScore := ScoreField(name, artist.Name)
		if nameScore == 0 {
			continue
		}
		score := nameScore*100 + artist.Score
		if score > bestScore {
			best = artist
			bestScore = score
		}
	}

	return best, bestScore >= 0
}
