package metadata

import (
	"sort"
	"strings"
	"unicode"

	"github.com/karaokeos/backend/internal/models"
	"golang.org/x/text/unicode/norm"
)

// Field scores
const (
	ExactMatchScore   = 4
	PartialMatchScore = 2
)

// Normalize folds s for fuzzy comparison: NFC, lowercase, punctuation and
// symbols dropped, whitespace collapsed.
// Diacritics are kept, so "beyoncé" and "beyonce" stay different.
func Normalize(s string) string {
	s = strings.ToLower(norm.NFC.String(s))

	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

// ScoreField compares a query value with a candidate value
func ScoreField(query, value string) int {
	q := Normalize(query)
	v := Normalize(value)
	if q == "" || v == "" {
		return 0
	}
	if q == v {
		return ExactMatchScore
	}
	if strings.Contains(q, v) || strings.Contains(v, q) {
		return PartialMatchScore
	}
	return 0
}

// Score rates a candidate against the queried title and artist
func Score(c models.Candidate, title, artist string) int {
	return ScoreField(title, c.Title) + ScoreField(artist, c.Artist)
}

// Rank scores candidates, orders them by descending score keeping the source
// order for ties, and truncates to limit (limit <= 0 keeps everything)
func Rank(candidates []models.Candidate, title, artist string, limit int) []models.Candidate {
	ranked := make([]models.Candidate, len(candidates))
	for i, c := range candidates {
		c.Score = Score(c, title, artist)
		ranked[i] = c
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
