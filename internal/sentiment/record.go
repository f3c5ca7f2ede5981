// Package sentiment scores lyric text with interchangeable providers.
package sentiment

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	// ErrUnknownKind is returned when a provider name is not recognized.
	ErrUnknownKind = errors.New("unknown sentiment provider")

	// ErrMalformedText is returned by providers for text that is not valid UTF-8.
	ErrMalformedText = errors.New("malformed text")

	// ErrKindMismatch is returned when a record is added to a ScoreMap of another kind.
	ErrKindMismatch = errors.New("score record kind does not match map")
)

// Kind identifies a provider and the shape of the records it produces.
type Kind int

const (
	// KindLexicon produces LexiconScores.
	KindLexicon Kind = iota
	// KindPolarity produces Polarity.
	KindPolarity
	// KindEmotion produces Emotions.
	KindEmotion
)

// Kinds lists every provider kind.
var Kinds = []Kind{KindLexicon, KindPolarity, KindEmotion}

func (k Kind) String() string {
	switch k {
	case KindLexicon:
		return "lexicon"
	case KindPolarity:
		return "polarity"
	case KindEmotion:
		return "emotion"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses a provider name. The names of the scoring tools each
// provider stands in for are accepted as aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lexicon", "vader":
		return KindLexicon, nil
	case "polarity", "textblob":
		return KindPolarity, nil
	case "emotion", "t2e", "text2emotion":
		return KindEmotion, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Record is a score produced by a Provider. The set of implementations is
// closed: LexiconScores, Polarity and Emotions.
type Record interface {
	Kind() Kind
	sealed()
}

// LexiconScores is the output of the rule-based lexicon scorer.
// Compound is the normalized overall score in [-1, 1].
type LexiconScores struct {
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// Polarity is a single polarity value in [-1, 1].
type Polarity struct {
	Value float64 `json:"polarity"`
}

// Emotions holds non-negative emotion magnitudes. They need not sum to 1.
type Emotions struct {
	Happy    float64 `json:"Happy"`
	Angry    float64 `json:"Angry"`
	Surprise float64 `json:"Surprise"`
	Sad      float64 `json:"Sad"`
	Fear     float64 `json:"Fear"`
}

func (LexiconScores) Kind() Kind { return KindLexicon }
func (Polarity) Kind() Kind      { return KindPolarity }
func (Emotions) Kind() Kind      { return KindEmotion }

func (LexiconScores) sealed() {}
func (Polarity) sealed()      {}
func (Emotions) sealed()      {}
