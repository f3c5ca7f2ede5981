package ranking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/justestif/go-spotify-lyric-mood/internal/sentiment"
)

var (
	// ErrUnrecognizedMood is returned for a mood name outside the Mood enumeration.
	ErrUnrecognizedMood = errors.New("unrecognized mood")

	// ErrIncompatibleMood is returned when a per-emotion mood is used on
	// scores that carry no emotion fields.
	ErrIncompatibleMood = errors.New("mood requires emotion scores")
)

// Mood selects the ranking order.
type Mood int

const (
	// Positive ranks by key, highest first.
	Positive Mood = iota
	// Negative ranks by key, lowest first.
	Negative
	// Happy ranks emotion scores by the Happy field, highest first.
	Happy
	// Angry ranks emotion scores by the Angry field, highest first.
	Angry
	// Surprise ranks emotion scores by the Surprise field, highest first.
	Surprise
	// Sad ranks emotion scores by the Sad field, highest first.
	Sad
	// Fear ranks emotion scores by the Fear field, highest first.
	Fear
)

// Moods lists every mood in declaration order.
var Moods = []Mood{Positive, Negative, Happy, Angry, Surprise, Sad, Fear}

var moodNames = map[Mood]string{
	Positive: "positive",
	Negative: "negative",
	Happy:    "happy",
	Angry:    "angry",
	Surprise: "surprise",
	Sad:      "sad",
	Fear:     "fear",
}

func (m Mood) String() string {
	if name, ok := moodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mood(%d)", int(m))
}

// ParseMood parses a mood name, case-insensitively.
func ParseMood(s string) (Mood, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range Moods {
		if moodNames[m] == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnrecognizedMood, s)
}

// IsEmotion reports whether m ranks by a single emotion field.
func (m Mood) IsEmotion() bool {
	return m >= Happy && m <= Fear
}

// MarshalText implements encoding.TextMarshaler.
func (m Mood) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mood) UnmarshalText(b []byte) error {
	parsed, err := ParseMood(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// emotionField returns the single field selected by an emotion mood.
func emotionField(m Mood, e sentiment.Emotions) float64 {
	switch m {
	case Happy:
		return e.Happy
	case Angry:
		return e.Angry
	case Surprise:
		return e.Surprise
	case Sad:
		return e.Sad
	case Fear:
		return e.Fear
	default:
		panic(fmt.Sprintf("ranking: %v is not an emotion mood", m))
	}
}
