package sentiment

import (
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// EmotionClassifier counts emotion keywords and reports each emotion's share
// of the matches, rounded to two decimals. Text without keywords scores zero
// on every emotion.
type EmotionClassifier struct {
	lexicon map[string]string
}

var emotionNames = map[string]bool{
	"Happy":    true,
	"Angry":    true,
	"Surprise": true,
	"Sad":      true,
	"Fear":     true,
}

// NewEmotionClassifier creates an EmotionClassifier over the bundled lexicon.
func NewEmotionClassifier() (*EmotionClassifier, error) {
	f, err := lexiconFS.Open("data/emotion.tsv")
	if err != nil {
		return nil, fmt.Errorf("opening emotion lexicon: %w", err)
	}
	defer f.Close()
	return NewEmotionClassifierFrom(f)
}

// NewEmotionClassifierFrom creates an EmotionClassifier from a "word\temotion" lexicon.
func NewEmotionClassifierFrom(r io.Reader) (*EmotionClassifier, error) {
	lex := make(map[string]string, 256)
	err := parseTSV(r, func(word, value string) error {
		if !emotionNames[value] {
			return fmt.Errorf("unknown emotion %q for %q", value, word)
		}
		lex[word] = value
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading emotion lexicon: %w", err)
	}
	return &EmotionClassifier{lexicon: lex}, nil
}

// Kind returns KindEmotion.
func (c *EmotionClassifier) Kind() Kind {
	return KindEmotion
}

// Score implements Provider.
func (c *EmotionClassifier) Score(text string) (Record, error) {
	if !utf8.ValidString(text) {
		return nil, ErrMalformedText
	}

	counts := make(map[string]int, len(emotionNames))
	total := 0
	for _, w := range tokenize(text) {
		for _, v := range variants(w) {
			if e, ok := c.lexicon[v]; ok {
				counts[e]++
				total++
				break
			}
		}
	}

	if total == 0 {
		return Emotions{}, nil
	}
	share := func(e string) float64 {
		return math.Round(float64(counts[e])/float64(total)*100) / 100
	}
	return Emotions{
		Happy:    share("Happy"),
		Angry:    share("Angry"),
		Surprise: share("Surprise"),
		Sad:      share("Sad"),
		Fear:     share("Fear"),
	}, nil
}
