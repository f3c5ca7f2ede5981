package sentiment

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// negationFactor scales a word's polarity when it is negated ("not good").
const negationFactor = -0.5

var intensifiers = map[string]float64{
	"absolutely": 1.5,
	"extremely":  1.5,
	"incredibly": 1.5,
	"totally":    1.4,
	"so":         1.3,
	"too":        1.3,
	"very":       1.3,
	"really":     1.3,
	"truly":      1.2,
	"quite":      1.1,
	"slightly":   0.5,
	"barely":     0.4,
}

var negations = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"nothing": true,
	"nobody":  true,
	"cannot":  true,
	"ain't":   true,
}

// PolarityScorer estimates a single polarity in [-1, 1] by averaging the
// polarity of known words, adjusted for intensifiers and negation.
// Text without known words scores 0.
type PolarityScorer struct {
	lexicon map[string]float64
}

// NewPolarityScorer creates a PolarityScorer over the bundled lexicon.
func NewPolarityScorer() (*PolarityScorer, error) {
	f, err := lexiconFS.Open("data/polarity.tsv")
	if err != nil {
		return nil, fmt.Errorf("opening polarity lexicon: %w", err)
	}
	defer f.Close()
	return NewPolarityScorerFrom(f)
}

// NewPolarityScorerFrom creates a PolarityScorer from a "word\tpolarity" lexicon.
func NewPolarityScorerFrom(r io.Reader) (*PolarityScorer, error) {
	lex := make(map[string]float64, 256)
	err := parseTSV(r, func(word, value string) error {
		p, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("parsing polarity for %q: %w", word, err)
		}
		if p < -1 || p > 1 {
			return fmt.Errorf("polarity for %q out of range: %v", word, p)
		}
		lex[word] = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading polarity lexicon: %w", err)
	}
	return &PolarityScorer{lexicon: lex}, nil
}

// Kind returns KindPolarity.
func (s *PolarityScorer) Kind() Kind {
	return KindPolarity
}

// Score implements Provider.
func (s *PolarityScorer) Score(text string) (Record, error) {
	if !utf8.ValidString(text) {
		return nil, ErrMalformedText
	}

	words := tokenize(text)
	var sum float64
	var n int
	for i, w := range words {
		p, ok := s.lookup(w)
		if !ok {
			continue
		}
		if i > 0 {
			if f, ok := intensifiers[words[i-1]]; ok {
				p *= f
			}
		}
		if negated(words, i) {
			p *= negationFactor
		}
		sum += clamp(p)
		n++
	}

	if n == 0 {
		return Polarity{Value: 0}, nil
	}
	return Polarity{Value: clamp(sum / float64(n))}, nil
}

func (s *PolarityScorer) lookup(w string) (float64, bool) {
	for _, v := range variants(w) {
		if p, ok := s.lexicon[v]; ok {
			return p, true
		}
	}
	return 0, false
}

// negated reports whether one of the two words before i negates it.
func negated(words []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		w := words[j]
		if negations[w] || strings.HasSuffix(w, "n't") {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	return max(-1, min(1, v))
}
