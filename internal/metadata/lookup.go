package metadata

import (
	"context"

	"github.com/karaokeos/backend/internal/models"
)

// Fetcher is a source of song candidates
type Fetcher interface {
	// Source names the upstream API, e.g. "itunes"
	Source() string
	// Search returns candidates for a title and artist; failures yield an empty slice
	Search(ctx context.Context, title, artist string, limit int) []models.Candidate
}

// Lookup fans a song query out to several fetchers and ranks the merged candidates
type Lookup struct {
	fetchers []Fetcher
}

// NewLookup creates a lookup over fetchers, queried in the given order
func NewLookup(fetchers ...Fetcher) *Lookup {
	return &Lookup{fetchers: fetchers}
}

// Candidates returns at most limit ranked candidates across all fetchers
func (l *Lookup) Candidates(ctx context.Context, title, artist string, limit int) []models.Candidate {
	var merged []models.Candidate
	for _, f := range l.fetchers {
		merged = append(merged, f.Search(ctx, title, artist, limit)...)
	}
	return Rank(merged, title, artist, limit)
}

// Best returns the top candidate if it matches the query at all
func (l *Lookup) Best(ctx context.Context, title, artist string) (models.Candidate, bool) {
	ranked := l.Candidates(ctx, title, artist, 5)
	if len(ranked) == 0 || ranked[0].Score == 0 {
		return models.Candidate{}, false
	}
	return ranked[0], true
}
