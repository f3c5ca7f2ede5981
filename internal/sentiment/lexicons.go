package sentiment

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"regexp"
	"strings"
)

//go:embed data/*.tsv
var lexiconFS embed.FS

var tokenRe = regexp.MustCompile(`[\p{L}']+`)

// tokenize lower-cases text and splits it into word tokens.
func tokenize(text string) []string {
	toks := tokenRe.FindAllString(strings.ToLower(text), -1)
	out := toks[:0]
	for _, t := range toks {
		t = strings.Trim(t, "'")
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// parseTSV reads "word\tvalue" lines, skipping blanks and # comments.
func parseTSV(r io.Reader, fn func(word, value string) error) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		word, value, ok := strings.Cut(text, "\t")
		if !ok {
			return fmt.Errorf("line %d: expected word<TAB>value", line)
		}
		if err := fn(strings.ToLower(strings.TrimSpace(word)), strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return sc.Err()
}

// variants returns the word followed by crude inflection-stripped forms,
// used to match "crying" or "tears" against lexicon base forms.
func variants(w string) []string {
	out := []string{w}
	add := func(s string) {
		if len(s) >= 3 {
			out = append(out, s)
		}
	}
	switch {
	case strings.HasSuffix(w, "ies"):
		add(strings.TrimSuffix(w, "ies") + "y")
	case strings.HasSuffix(w, "ing"):
		stem := strings.TrimSuffix(w, "ing")
		add(stem)
		add(stem + "e")
	case strings.HasSuffix(w, "ed"):
		add(strings.TrimSuffix(w, "d"))
		add(strings.TrimSuffix(w, "ed"))
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		add(strings.TrimSuffix(w, "s"))
	}
	return out
}
