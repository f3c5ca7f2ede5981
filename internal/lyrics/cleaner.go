package lyrics

import (
	_ "embed"
	"regexp"
	"strings"
)

//go:embed stopwords_en.txt
var englishStopwords string

var (
	// bracketRe matches structural annotations such as "[Chorus]" or "[Verse 1]".
	bracketRe = regexp.MustCompile(`\[.*?\]`)
	wordRe    = regexp.MustCompile(`[\p{L}\p{N}']+`)
)

// Cleaner strips annotations and stopwords from lyric text.
// A Cleaner is read-only after construction and safe for concurrent use.
type Cleaner struct {
	stopwords map[string]struct{}
}

// NewCleaner creates a Cleaner that drops the given stopwords (case-insensitive).
func NewCleaner(stopwords ...string) *Cleaner {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return &Cleaner{stopwords: set}
}

// DefaultCleaner returns a Cleaner using the bundled English stopword list.
func DefaultCleaner() *Cleaner {
	return NewCleaner(strings.Split(englishStopwords, "\n")...)
}

// Clean lower-cases text, removes bracketed annotations, and drops stopwords.
// The remaining words are joined with single spaces. An empty result means
// the text had no scorable content.
func (c *Cleaner) Clean(text string) string {
	text = strings.ToLower(text)
	text = bracketRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	tokens := wordRe.FindAllString(text, -1)
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.Trim(tok, "'")
		if tok == "" {
			continue
		}
		if _, stop := c.stopwords[tok]; stop {
			continue
		}
		words = append(words, tok)
	}
	return strings.Join(words, " ")
}

// CleanMap returns a new Map with every found entry cleaned.
// Missing entries stay Missing.
func (c *Cleaner) CleanMap(m *Map) *Map {
	out := NewMap()
	m.Each(func(name string, l Lyrics) {
		text, ok := l.Text()
		if !ok {
			out.Set(name, Missing)
			return
		}
		out.Set(name, Found(c.Clean(text)))
	})
	return out
}
