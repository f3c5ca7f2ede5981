package clustering

import (
	"cmp"
	"slices"

	"github.com/justestif/go-spotify-lyric-mood/internal/sentiment"
)

// Below this share an emotion does not shape a group's name.
const dominantShare = 0.2

var emotionLabels = map[string]string{
	"happy":    "Joyful",
	"angry":    "Fiery",
	"surprise": "Startled",
	"sad":      "Melancholy",
	"fear":     "Anxious",
}

type weighted struct {
	name  string
	value float64
}

// ranked returns the centroid's emotions, strongest first. Ties keep field order.
func ranked(c sentiment.Emotions) []weighted {
	out := []weighted{
		{"happy", c.Happy},
		{"angry", c.Angry},
		{"surprise", c.Surprise},
		{"sad", c.Sad},
		{"fear", c.Fear},
	}
	slices.SortStableFunc(out, func(a, b weighted) int {
		return cmp.Compare(b.value, a.value)
	})
	return out
}

// groupName names a group after its dominant emotions.
//
//   - one clear emotion: "Joyful"
//   - a strong runner-up (at least half the leader): "Melancholy & Anxious"
//   - nothing above the dominance share: "Mixed"
func groupName(c sentiment.Emotions) string {
	r := ranked(c)
	top, second := r[0], r[1]
	if top.value < dominantShare {
		return "Mixed"
	}
	if second.value >= dominantShare && second.value >= top.value/2 {
		return emotionLabels[top.name] + " & " + emotionLabels[second.name]
	}
	return emotionLabels[top.name]
}

// Describe returns a one-line description of a group's emotional profile.
func Describe(c sentiment.Emotions) string {
	top := ranked(c)[0]
	if top.value < dominantShare {
		return "No single emotion stands out"
	}
	switch top.name {
	case "happy":
		return "Bright and upbeat lyrics"
	case "angry":
		return "Defiant, heated lyrics"
	case "surprise":
		return "Restless lyrics full of twists"
	case "sad":
		return "Heartbroken, reflective lyrics"
	default:
		return "Uneasy, shadowed lyrics"
	}
}
