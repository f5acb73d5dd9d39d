package metadata

import (
	"net/http"

	"github.com/karaokeos/backend/internal/config"
	"go.uber.org/zap"
)

// Clients bundles the lookups built from one metadata configuration
type Clients struct {
	Lookup       *Lookup
	ArtistImages *ArtistImageResolver
}

// NewClients wires the iTunes, MusicBrainz, CoverArtArchive and Wikidata
// clients. All MusicBrainz traffic shares one rate limiter.
func NewClients(cfg config.MetadataConfig, logger *zap.Logger) *Clients {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	covers := NewCoverArtClient(cfg.CoverArtBaseURL, httpClient, cfg.UserAgent, logger)
	musicBrainz := NewMusicBrainzClient(cfg.MusicBrainzBaseURL, httpClient, cfg.UserAgent, NewMusicBrainzLimiter(), covers, logger)
	itunes := NewITunesClient(cfg.ITunesBaseURL, cfg.ITunesCountry, httpClient, cfg.UserAgent, logger)
	wikidata := NewWikidataClient(cfg.WikidataBaseURL, httpClient, cfg.UserAgent, logger)

	return &Clients{
		Lookup:       NewLookup(itunes, musicBrainz),
		ArtistImages: NewArtistImageResolver(musicBrainz, wikidata),
	}
}
