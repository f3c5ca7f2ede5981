package lyrics

import (
	"regexp"
	"strings"
)

var (
	parenRe = regexp.MustCompile(`\s*[(\[].*?[)\]]\s*`)

	suffixRe = regexp.MustCompile(
		`(?i)\s+-\s+(\d{4}\s+)?(remaster|live|demo|remix|deluxe|bonus|edit|version|` +
			`mix|single|acoustic|instrumental|radio|extended|original|mono|stereo).*`)
)

// SearchTitle strips decorations Spotify adds to track names, such as
// "(feat. X)" or "- 2011 Remaster", so lyric providers can match the song.
// A title made only of decoration is returned unchanged.
func SearchTitle(title string) string {
	cleaned := parenRe.ReplaceAllString(title, " ")
	cleaned = suffixRe.ReplaceAllString(cleaned, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return strings.TrimSpace(title)
	}
	return cleaned
}
