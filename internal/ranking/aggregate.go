// Package ranking turns sentiment scores into ordered song lists.
package ranking

import (
	"fmt"

	"github.com/justestif/go-spotify-lyric-mood/internal/sentiment"
)

// Keyed is a song with its ranking key.
type Keyed struct {
	Song string  `json:"song"`
	Key  float64 `json:"key"`
}

// Key reduces a score record to a single ranking key.
//
//   - LexiconScores: Compound
//   - Polarity: Value
//   - Emotions: Happy - Angry + Surprise - Sad - Fear
func Key(r sentiment.Record) float64 {
	switch r := r.(type) {
	case sentiment.LexiconScores:
		return r.Compound
	case sentiment.Polarity:
		return r.Value
	case sentiment.Emotions:
		return r.Happy - r.Angry + r.Surprise - r.Sad - r.Fear
	default:
		// Record is sealed; this only fires if a new kind is added without a case here.
		panic(fmt.Sprintf("ranking: unhandled record type %T", r))
	}
}

// Keys returns the ranking key of every song in score-map order.
func Keys(scores *sentiment.ScoreMap) []Keyed {
	out := make([]Keyed, 0, scores.Len())
	scores.Each(func(name string, r sentiment.Record) {
		out = append(out, Keyed{Song: name, Key: Key(r)})
	})
	return out
}
