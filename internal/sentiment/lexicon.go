package sentiment

import (
	"sync"
	"unicode/utf8"

	"github.com/jonreiter/govader"
)

// Lexicon scores text with the VADER rule-based sentiment analyzer.
// It is safe for concurrent use.
type Lexicon struct {
	sia *govader.SentimentIntensityAnalyzer
	mu  sync.Mutex
}

// NewLexicon creates a Lexicon. Loading the analyzer is expensive, so create
// one and share it.
func NewLexicon() *Lexicon {
	return &Lexicon{sia: govader.NewSentimentIntensityAnalyzer()}
}

// Kind returns KindLexicon.
func (l *Lexicon) Kind() Kind {
	return KindLexicon
}

// Score implements Provider.
func (l *Lexicon) Score(text string) (Record, error) {
	if !utf8.ValidString(text) {
		return nil, ErrMalformedText
	}

	l.mu.Lock()
	s := l.sia.PolarityScores(text)
	l.mu.Unlock()

	return LexiconScores{
		Negative: s.Negative,
		Neutral:  s.Neutral,
		Positive: s.Positive,
		Compound: s.Compound,
	}, nil
}
