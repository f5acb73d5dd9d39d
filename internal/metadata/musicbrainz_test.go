package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/time/rate"
)

func unlimited() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

func TestMusicBrainzClient_Search(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/2/recording", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `recording:"Take On Me" AND artist:"a-ha"`, r.URL.Query().Get("query"))
		assert.Equal(t, "json", r.URL.Query().Get("fmt"))
		w.Write([]byte(`{
			"recordings": [
				{
					"id": "rec-1",
					"title": "Take On Me",
					"score": 100,
					"first-release-date": "1985-04-01",
					"artist-credit": [{"name": "a-ha", "joinphrase": ""}],
					"releases": [{"id": "rel-1", "title": "Hunting High and Low", "date": "1985-06-01"}],
					"tags": [{"name": "synth-pop", "count": 5}, {"name": "pop", "count": 2}]
				},
				{
					"id": "rec-2",
					"title": "Take On Me (Unplugged)",
					"artist-credit": [{"name": "a-ha", "joinphrase": " feat. "}, {"name": "Guest", "joinphrase": ""}],
					"releases": [{"id": "rel-2", "title": "MTV Unplugged", "date": "2017-10-06"}]
				},
				{"id": "rec-3", "title": ""}
			]
		}`))
	})
	covers := http.NewServeMux()
	covers.HandleFunc("/release/rel-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"images": [
			{"front": false, "image": "back.jpg"},
			{"front": true, "image": "front.jpg", "thumbnails": {"250": "front-250.jpg", "500": "front-500.jpg"}}
		]}`))
	})
	covers.HandleFunc("/release/rel-2", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	mbServer := httptest.NewServer(mux)
	defer mbServer.Close()
	caServer := httptest.NewServer(covers)
	defer caServer.Close()

	logger := zaptest.NewLogger(t)
	coverClient := NewCoverArtClient(caServer.URL, caServer.Client(), "test-agent", logger)
	client := NewMusicBrainzClient(mbServer.URL, mbServer.Client(), "test-agent", unlimited(), coverClient, logger)

	candidates := client.Search(t.Context(), "Take On Me", "a-ha", 5)
	require.Len(t, candidates, 2)

	assert.Equal(t, SourceMusicBrainz, candidates[0].Source)
	assert.Equal(t, "a-ha", candidates[0].Artist)
	assert.Equal(t, "Hunting High and Low", candidates[0].Album)
	assert.Equal(t, "synth-pop", candidates[0].Genre)
	assert.Equal(t, 1985, candidates[0].Year)
	assert.Equal(t, "front-500.jpg", candidates[0].CoverURL)
	assert.Equal(t, "rec-1", candidates[0].ExternalID)

	assert.Equal(t, "a-ha feat. Guest", candidates[1].Artist)
	assert.Equal(t, 2017, candidates[1].Year)
	assert.Empty(t, candidates[1].CoverURL)
}

func TestMusicBrainzClient_Search_Failures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewMusicBrainzClient(server.URL, server.Client(), "", unlimited(), nil, zaptest.NewLogger(t))

	assert.Empty(t, client.Search(t.Context(), "Song", "Artist", 5))
	assert.Nil(t, client.Search(t.Context(), "", " ", 5))
	assert.Empty(t, client.SearchArtists(t.Context(), "Artist", 5))
	assert.Empty(t, client.WikidataID(t.Context(), "mbid"))
}

func TestMusicBrainzClient_WikidataID(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "wikidata relation",
			body:     `{"relations": [{"type": "official homepage", "url": {"resource": "https://a-ha.com"}}, {"type": "wikidata", "url": {"resource": "https://www.wikidata.org/wiki/Q212370"}}]}`,
			expected: "Q212370",
		},
		{
			name:     "no relations",
			body:     `{"relations": []}`,
			expected: "",
		},
		{
			name:     "malformed entity",
			body:     `{"relations": [{"type": "wikidata", "url": {"resource": "https://www.wikidata.org/wiki/Special:Random"}}]}`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/ws/2/artist/mbid-1", r.URL.Path)
				assert.Equal(t, "url-rels", r.URL.Query().Get("inc"))
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewMusicBrainzClient(server.URL, server.Client(), "", unlimited(), nil, zaptest.NewLogger(t))
			assert.Equal(t, tt.expected, client.WikidataID(t.Context(), "mbid-1"))
		})
	}
}

func TestLuceneQuote(t *testing.T) {
	assert.Equal(t, `"plain"`, luceneQuote("plain"))
	assert.Equal(t, `"say \"hi\""`, luceneQuote(`say "hi"`))
	assert.Equal(t, `"a\\b"`, luceneQuote(`a\b`))
}

func TestNewMusicBrainzLimiter(t *testing.T) {
	limiter := NewMusicBrainzLimiter()
	assert.Equal(t, rate.Limit(1), limiter.Limit())
	assert.Equal(t, 1, limiter.Burst())
}
