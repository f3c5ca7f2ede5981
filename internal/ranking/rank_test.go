package ranking

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/justestif/go-spotify-lyric-mood/internal/sentiment"
)

func lexiconMap(t *testing.T, entries ...any) *sentiment.ScoreMap {
	t.Helper()
	m := sentiment.NewScoreMap(sentiment.KindLexicon)
	for i := 0; i < len(entries); i += 2 {
		if err := m.Set(entries[i].(string), sentiment.LexiconScores{Compound: entries[i+1].(float64)}); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}
	return m
}

func emotionMap(t *testing.T, entries map[string]sentiment.Emotions, order ...string) *sentiment.ScoreMap {
	t.Helper()
	m := sentiment.NewScoreMap(sentiment.KindEmotion)
	for _, name := range order {
		if err := m.Set(name, entries[name]); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}
	return m
}

func TestKey(t *testing.T) {
	tests := []struct {
		name   string
		record sentiment.Record
		want   float64
	}{
		{"lexicon uses compound", sentiment.LexiconScores{Negative: 0.1, Neutral: 0.5, Positive: 0.4, Compound: 0.73}, 0.73},
		{"polarity passes through", sentiment.Polarity{Value: -0.25}, -0.25},
		{"emotion signed sum", sentiment.Emotions{Happy: 0.6, Angry: 0.1, Surprise: 0.0, Sad: 0.2, Fear: 0.1}, 0.2},
		{"emotion all zero", sentiment.Emotions{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.record); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Key() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRank_PositiveTieKeepsInputOrder(t *testing.T) {
	m := lexiconMap(t, "A", 0.9, "B", -0.2, "C", 0.9)

	got, err := Rank(m, Positive, 2)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if want := []string{"A", "C"}; !slices.Equal(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}
}

func TestRank(t *testing.T) {
	m := lexiconMap(t, "a", 0.1, "b", -0.7, "c", 0.5, "d", -0.7, "e", 0.0)

	tests := []struct {
		name  string
		mood  Mood
		limit int
		want  []string
	}{
		{"positive", Positive, 3, []string{"c", "a", "e"}},
		{"negative ties stable", Negative, 3, []string{"b", "d", "e"}},
		{"limit zero", Positive, 0, []string{}},
		{"negative limit", Negative, -1, []string{}},
		{"limit above count", Positive, 10, []string{"c", "a", "e", "b", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rank(m, tt.mood, tt.limit)
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}
			if got == nil {
				t.Fatal("Rank() returned nil, want empty slice")
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Rank() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRank_EmptyScores(t *testing.T) {
	got, err := Rank(sentiment.NewScoreMap(sentiment.KindPolarity), Negative, 5)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Rank() = %v, want empty", got)
	}
}

func TestRank_EmotionMoods(t *testing.T) {
	entries := map[string]sentiment.Emotions{
		"calm":   {Happy: 0.2, Sad: 0.5, Fear: 0.3},
		"rage":   {Angry: 0.8, Fear: 0.2},
		"party":  {Happy: 0.9, Surprise: 0.1},
		"gloom":  {Sad: 0.7, Fear: 0.3},
		"spooky": {Fear: 0.6, Surprise: 0.4},
	}
	m := emotionMap(t, entries, "calm", "rage", "party", "gloom", "spooky")

	tests := []struct {
		mood Mood
		want []string
	}{
		{Happy, []string{"party", "calm"}},
		{Angry, []string{"rage", "calm"}},
		{Surprise, []string{"spooky", "party"}},
		{Sad, []string{"gloom", "calm"}},
		{Fear, []string{"spooky", "calm"}},
		{Positive, []string{"party", "spooky"}},
		{Negative, []string{"rage", "gloom"}},
	}

	for _, tt := range tests {
		t.Run(tt.mood.String(), func(t *testing.T) {
			got, err := Rank(m, tt.mood, 2)
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Rank(%v) = %v, want %v", tt.mood, got, tt.want)
			}
		})
	}
}

func TestRank_SadAndFearAreDistinct(t *testing.T) {
	entries := map[string]sentiment.Emotions{
		"sad":    {Sad: 0.9, Fear: 0.1},
		"afraid": {Sad: 0.1, Fear: 0.9},
	}
	m := emotionMap(t, entries, "afraid", "sad")

	sad, _ := Rank(m, Sad, 1)
	fear, _ := Rank(m, Fear, 1)
	if sad[0] != "sad" || fear[0] != "afraid" {
		t.Errorf("Sad -> %v, Fear -> %v", sad, fear)
	}
}

func TestRank_Errors(t *testing.T) {
	m := lexiconMap(t, "a", 0.5)

	if _, err := Rank(m, Happy, 3); !errors.Is(err, ErrIncompatibleMood) {
		t.Errorf("Rank(Happy) on lexicon scores error = %v, want ErrIncompatibleMood", err)
	}
	if _, err := Rank(m, Mood(42), 3); !errors.Is(err, ErrUnrecognizedMood) {
		t.Errorf("Rank(Mood(42)) error = %v, want ErrUnrecognizedMood", err)
	}
}

func TestRankKeyed_EmotionValue(t *testing.T) {
	m := emotionMap(t, map[string]sentiment.Emotions{"x": {Angry: 0.4, Happy: 0.1}}, "x")

	got, err := RankKeyed(m, Angry, 1)
	if err != nil {
		t.Fatalf("RankKeyed() error = %v", err)
	}
	if len(got) != 1 || got[0].Key != 0.4 {
		t.Errorf("RankKeyed() = %+v, want key 0.4", got)
	}
}

func TestSuggest(t *testing.T) {
	m := lexiconMap(t, "a", 0.6, "b", -0.4, "c", -0.9, "d", 0.5, "e", -0.5, "f", 0.95)

	tests := []struct {
		name   string
		mood   string
		limit  int
		want   []string
		wantOK bool
	}{
		{"positive", "positive", 10, []string{"f", "a", "d"}, true},
		{"positive truncated", "positive", 2, []string{"f", "a"}, true},
		{"negative excludes -0.4", "negative", 10, []string{"c", "e"}, true},
		{"negative case insensitive", "NEGATIVE", 1, []string{"c"}, true},
		{"limit zero", "positive", 0, []string{}, true},
		{"unknown mood", "happy", 5, nil, false},
		{"unknown mood with zero limit", "meh", 0, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Suggest(m, tt.mood, tt.limit)
			if ok != tt.wantOK {
				t.Fatalf("Suggest() ok = %v, want %v", ok, tt.wantOK)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Suggest() = %v, want %v", got, tt.want)
			}
			if ok && got == nil {
				t.Error("Suggest() returned nil for a recognized mood")
			}
		})
	}
}

func TestSuggest_NothingCrossesThreshold(t *testing.T) {
	m := lexiconMap(t, "a", 0.1, "b", -0.1)

	got, ok := Suggest(m, "positive", 5)
	if !ok {
		t.Fatal("Suggest() ok = false")
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Suggest() = %v, want empty non-nil", got)
	}
}

func TestParseMood(t *testing.T) {
	for _, m := range Moods {
		got, err := ParseMood(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMood(%q) = %v, %v", m.String(), got, err)
		}
	}

	if _, err := ParseMood("Melancholy"); !errors.Is(err, ErrUnrecognizedMood) {
		t.Errorf("ParseMood(Melancholy) error = %v", err)
	}
	if got, err := ParseMood("  HAPPY "); err != nil || got != Happy {
		t.Errorf("ParseMood(HAPPY) = %v, %v", got, err)
	}
}
