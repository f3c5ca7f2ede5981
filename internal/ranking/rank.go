package ranking

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/justestif/go-spotify-lyric-mood/internal/sentiment"
)

// Legacy threshold-mode cutoffs.
const (
	PositiveThreshold = 0.5
	NegativeThreshold = -0.5
)

// Rank orders the scored songs for a mood and returns at most limit names.
// Ties keep score-map order. A limit of zero or less yields an empty list.
func Rank(scores *sentiment.ScoreMap, mood Mood, limit int) ([]string, error) {
	ranked, err := RankKeyed(scores, mood, limit)
	if err != nil {
		return nil, err
	}
	return songNames(ranked), nil
}

// RankKeyed is Rank returning each song with the value it was ranked by.
// For emotion moods that value is the selected emotion field.
func RankKeyed(scores *sentiment.ScoreMap, mood Mood, limit int) ([]Keyed, error) {
	if limit <= 0 {
		return []Keyed{}, nil
	}
	if _, ok := moodNames[mood]; !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedMood, mood)
	}
	if mood.IsEmotion() && scores.Kind() != sentiment.KindEmotion {
		return nil, fmt.Errorf("%w: %s on %s scores", ErrIncompatibleMood, mood, scores.Kind())
	}

	items := make([]Keyed, 0, scores.Len())
	scores.Each(func(name string, r sentiment.Record) {
		key := Key(r)
		if mood.IsEmotion() {
			key = emotionField(mood, r.(sentiment.Emotions))
		}
		items = append(items, Keyed{Song: name, Key: key})
	})

	if mood == Negative {
		slices.SortStableFunc(items, ascending)
	} else {
		slices.SortStableFunc(items, descending)
	}
	return truncate(items, limit), nil
}

// Suggest is the legacy threshold mode. "positive" keeps songs with a key of
// at least PositiveThreshold, highest first; "negative" keeps songs with a key
// of at most NegativeThreshold, lowest first. The result is never padded with
// songs that miss the threshold. ok is false only for an unrecognized mood.
func Suggest(scores *sentiment.ScoreMap, mood string, limit int) ([]string, bool) {
	ranked, ok := SuggestKeyed(scores, mood, limit)
	if !ok {
		return nil, false
	}
	return songNames(ranked), true
}

// SuggestKeyed is Suggest returning each song with its key.
func SuggestKeyed(scores *sentiment.ScoreMap, mood string, limit int) ([]Keyed, bool) {
	var (
		keep  func(float64) bool
		order func(a, b Keyed) int
	)
	switch strings.ToLower(strings.TrimSpace(mood)) {
	case "positive":
		keep = func(k float64) bool { return k >= PositiveThreshold }
		order = descending
	case "negative":
		keep = func(k float64) bool { return k <= NegativeThreshold }
		order = ascending
	default:
		return nil, false
	}
	if limit <= 0 {
		return []Keyed{}, true
	}

	var items []Keyed
	for _, k := range Keys(scores) {
		if keep(k.Key) {
			items = append(items, k)
		}
	}
	slices.SortStableFunc(items, order)
	return truncate(items, limit), true
}

func ascending(a, b Keyed) int  { return cmp.Compare(a.Key, b.Key) }
func descending(a, b Keyed) int { return cmp.Compare(b.Key, a.Key) }

func truncate(items []Keyed, limit int) []Keyed {
	if items == nil {
		return []Keyed{}
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func songNames(items []Keyed) []string {
	out := make([]string, len(items))
	for i, k := range items {
		out[i] = k.Song
	}
	return out
}
