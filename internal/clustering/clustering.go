// Package clustering groups songs by the shape of their emotion scores using
// k-means over the five emotion fields.
package clustering

import (
	"errors"

	"github.com/muesli/clusters"

	"github.com/justestif/go-spotify-lyric-mood/internal/sentiment"
)

// ErrNotEmotionScores is returned when grouping scores that carry no emotion fields.
var ErrNotEmotionScores = errors.New("grouping requires emotion scores")

// songObservation wraps a scored song to implement clusters.Observation.
type songObservation struct {
	index  int
	name   string
	coords clusters.Coordinates
}

func (o songObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o songObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// coordinates maps emotions onto the axes happy, angry, surprise, sad, fear.
func coordinates(e sentiment.Emotions) clusters.Coordinates {
	return clusters.Coordinates{e.Happy, e.Angry, e.Surprise, e.Sad, e.Fear}
}

func emotionsAt(c clusters.Coordinates) sentiment.Emotions {
	return sentiment.Emotions{Happy: c[0], Angry: c[1], Surprise: c[2], Sad: c[3], Fear: c[4]}
}
